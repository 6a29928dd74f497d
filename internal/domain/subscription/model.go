package subscription

import (
	"context"
	"time"

	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/shopspring/decimal"
)

type Subscription struct {
	// ID is the unique identifier for the subscription
	ID string `db:"id" json:"id"`

	// CustomerID is the identifier for the customer in our system
	CustomerID string `db:"customer_id" json:"customer_id"`

	// PlanID is the identifier for the purchased plan
	PlanID string `db:"plan_id" json:"plan_id"`

	// SubscriptionStatus is the lifecycle status of the subscription
	SubscriptionStatus types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`

	// StartDate is the start date of the subscription period
	StartDate time.Time `db:"start_date" json:"start_date"`

	// EndDate is the end date of the subscription period.
	// Invariant: EndDate is strictly after StartDate.
	EndDate time.Time `db:"end_date" json:"end_date"`

	// TotalAmount is the total cost of the subscription period
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`

	// Currency is the currency of the subscription in lowercase 3 digit ISO codes
	Currency string `db:"currency" json:"currency"`

	// PaymentType is how the subscription is paid for
	PaymentType types.PaymentType `db:"payment_type" json:"payment_type"`

	// CancelledAt is the date the subscription was cancelled
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`

	// CancellationReason records why the subscription was cancelled
	CancellationReason *string `db:"cancellation_reason" json:"cancellation_reason,omitempty"`

	// CheckedInAt is the last workstation check-in timestamp
	CheckedInAt *time.Time `db:"checked_in_at" json:"checked_in_at,omitempty"`

	// CheckedOutAt is the last workstation check-out timestamp
	CheckedOutAt *time.Time `db:"checked_out_at" json:"checked_out_at,omitempty"`

	types.BaseModel
}

func (s *Subscription) TableName() string {
	return "subscriptions"
}

// New creates a subscription record, rejecting invalid date ranges and
// non-positive amounts at construction time rather than at use.
func New(ctx context.Context, customerID, planID string, startDate, endDate time.Time, totalAmount decimal.Decimal, currency string, paymentType types.PaymentType, status types.SubscriptionStatus) (*Subscription, error) {
	if !endDate.After(startDate) {
		return nil, ierr.NewError("subscription end date must be after start date").
			WithHint("Subscription end date must be after the start date").
			WithReportableDetails(map[string]any{
				"start_date": startDate,
				"end_date":   endDate,
			}).
			Mark(ierr.ErrInvariantViolation)
	}

	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ierr.NewError("subscription total amount must be greater than 0").
			WithHint("Subscription total amount must be a positive value").
			WithReportableDetails(map[string]any{
				"total_amount": totalAmount,
			}).
			Mark(ierr.ErrInvariantViolation)
	}

	if err := paymentType.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		CustomerID:         customerID,
		PlanID:             planID,
		SubscriptionStatus: status,
		StartDate:          startDate,
		EndDate:            endDate,
		TotalAmount:        totalAmount,
		Currency:           currency,
		PaymentType:        paymentType,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}, nil
}

// IsCurrent reports whether the subscription is the one granting access at
// the given instant.
func (s *Subscription) IsCurrent(now time.Time) bool {
	return s.SubscriptionStatus == types.SubscriptionStatusActive &&
		!now.Before(s.StartDate) && now.Before(s.EndDate)
}
