package payment

import (
	"context"
	"time"

	"github.com/deskhive/deskhive/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Payment is one charge event tied to a subscription. Rows are created at
// subscription creation time (one per installment, or a single row for full
// payment) and only an external payment processor flips them to paid.
type Payment struct {
	// ID is the unique identifier for this payment
	ID string `db:"id" json:"id"`

	// SubscriptionID links the payment to its owning subscription
	SubscriptionID string `db:"subscription_id" json:"subscription_id"`

	// Amount is the value of this charge
	Amount decimal.Decimal `db:"amount" json:"amount"`

	// Currency is the currency of the payment in lowercase 3 digit ISO codes
	Currency string `db:"currency" json:"currency"`

	// DueDate is when this charge falls due
	DueDate time.Time `db:"due_date" json:"due_date"`

	// PaymentStatus is the current state of the charge
	PaymentStatus types.PaymentStatus `db:"payment_status" json:"payment_status"`

	// InstallmentSequence is the 1-based installment number, 0 for full payments
	InstallmentSequence int `db:"installment_sequence" json:"installment_sequence"`

	// PaidAt is when the external processor confirmed the charge
	PaidAt *time.Time `db:"paid_at" json:"paid_at,omitempty"`

	types.BaseModel
}

func (p *Payment) TableName() string {
	return "payments"
}

// MarkPaid flips a pending or overdue payment to paid. Called on behalf of
// the external payment processor.
func (p *Payment) MarkPaid(now time.Time) {
	p.PaymentStatus = types.PaymentStatusPaid
	p.PaidAt = lo.ToPtr(now)
	p.UpdatedAt = now
}

// MarkOverdue flips a pending payment past its due date to overdue.
func (p *Payment) MarkOverdue(now time.Time) {
	p.PaymentStatus = types.PaymentStatusOverdue
	p.UpdatedAt = now
}

// NewSchedule builds the payment rows for a subscription: a single row for
// full payment, or one pending row per monthly installment. The first row
// may carry a different amount than the rest, e.g. a prorated net due after
// a plan change.
func NewSchedule(ctx context.Context, subscriptionID, currency string, paymentType types.PaymentType, firstAmount, installmentAmount decimal.Decimal, installmentMonths int, startDate time.Time) []*Payment {
	if paymentType != types.PaymentTypeInstallment {
		return []*Payment{
			{
				ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
				SubscriptionID: subscriptionID,
				Amount:         firstAmount,
				Currency:       currency,
				DueDate:        startDate,
				PaymentStatus:  types.PaymentStatusPending,
				BaseModel:      types.GetDefaultBaseModel(ctx),
			},
		}
	}

	payments := make([]*Payment, 0, installmentMonths)
	for i := 0; i < installmentMonths; i++ {
		amount := installmentAmount
		if i == 0 {
			amount = firstAmount
		}
		payments = append(payments, &Payment{
			ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
			SubscriptionID:      subscriptionID,
			Amount:              amount,
			Currency:            currency,
			DueDate:             startDate.AddDate(0, i, 0),
			PaymentStatus:       types.PaymentStatusPending,
			InstallmentSequence: i + 1,
			BaseModel:           types.GetDefaultBaseModel(ctx),
		})
	}
	return payments
}
