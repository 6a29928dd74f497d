package plan

import (
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/shopspring/decimal"
)

// Plan is an immutable catalog entry for a workstation subscription plan.
type Plan struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	LookupKey   string `db:"lookup_key" json:"lookup_key"`
	Description string `db:"description" json:"description"`

	// Price is the full price of one subscription period
	Price decimal.Decimal `db:"price" json:"price"`

	// Currency is the currency of the plan in lowercase 3 digit ISO codes
	Currency string `db:"currency" json:"currency"`

	// DurationDays is the length of one subscription period in days.
	// Must be one of the canonical tier durations for change
	// classification to be meaningful.
	DurationDays int `db:"duration_days" json:"duration_days"`

	// InstallmentAllowed marks the plan as payable in monthly installments
	InstallmentAllowed bool `db:"installment_allowed" json:"installment_allowed"`

	// InstallmentMonths is the number of monthly installments
	InstallmentMonths int `db:"installment_months" json:"installment_months"`

	// InstallmentAmount is the amount of a single installment
	InstallmentAmount decimal.Decimal `db:"installment_amount" json:"installment_amount"`

	// Feature flags
	LockerIncluded   bool `db:"locker_included" json:"locker_included"`
	DedicatedSupport bool `db:"dedicated_support" json:"dedicated_support"`
	MeetingRoomHours int  `db:"meeting_room_hours" json:"meeting_room_hours"`
	PrintPageLimit   int  `db:"print_page_limit" json:"print_page_limit"`

	types.BaseModel
}

func (p *Plan) TableName() string {
	return "plans"
}

func (p *Plan) Validate() error {
	if p.Price.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("plan price must be greater than 0").
			WithHint("Plan price must be a positive value").
			WithReportableDetails(map[string]any{
				"price": p.Price,
			}).
			Mark(ierr.ErrValidation)
	}

	if DefaultTierList().IndexOf(p.DurationDays) < 0 {
		return ierr.NewError("plan duration is not a canonical tier duration").
			WithHint("Plan duration must be 1, 7, 30, 90 or 365 days").
			WithReportableDetails(map[string]any{
				"duration_days": p.DurationDays,
			}).
			Mark(ierr.ErrInvalidDuration)
	}

	if p.InstallmentAllowed {
		if p.InstallmentMonths <= 0 {
			return ierr.NewError("installment months must be greater than 0").
				WithHint("Installment plans need at least one installment").
				Mark(ierr.ErrValidation)
		}
		if p.InstallmentAmount.LessThanOrEqual(decimal.Zero) {
			return ierr.NewError("installment amount must be greater than 0").
				WithHint("Installment amount must be a positive value").
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// AmountDue returns the amount payable up front for the given payment type:
// the full price, or the first installment.
func (p *Plan) AmountDue(paymentType types.PaymentType) decimal.Decimal {
	if paymentType == types.PaymentTypeInstallment {
		return p.InstallmentAmount
	}
	return p.Price
}

// TotalAmount returns the total cost of one subscription period under the
// given payment type.
func (p *Plan) TotalAmount(paymentType types.PaymentType) decimal.Decimal {
	if paymentType == types.PaymentTypeInstallment {
		return p.InstallmentAmount.Mul(decimal.NewFromInt(int64(p.InstallmentMonths)))
	}
	return p.Price
}
