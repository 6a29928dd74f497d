package types

import (
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/samber/lo"
)

// PaymentStatus represents the status of a single charge against a subscription
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

var PaymentStatusValues = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusOverdue,
}

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	if !lo.Contains(PaymentStatusValues, s) {
		return ierr.NewError("invalid payment status").
			WithHint("Payment status must be pending, paid, or overdue").
			WithReportableDetails(map[string]any{
				"allowed_values": PaymentStatusValues,
				"provided_value": s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
