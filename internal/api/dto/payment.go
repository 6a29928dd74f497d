package dto

import (
	"github.com/deskhive/deskhive/internal/domain/payment"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	*payment.Payment
}

// PaymentProgress summarizes how much of a subscription has been paid off.
type PaymentProgress struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Percent     decimal.Decimal `json:"percent"`
}

type ListPaymentsResponse struct {
	Items    []*PaymentResponse `json:"items"`
	Progress PaymentProgress    `json:"progress"`
}

// NewPaymentProgress tallies paid vs total amounts across a subscription's
// payment schedule.
func NewPaymentProgress(payments []*payment.Payment) PaymentProgress {
	total := decimal.Zero
	paid := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
		if p.PaymentStatus == types.PaymentStatusPaid {
			paid = paid.Add(p.Amount)
		}
	}

	percent := decimal.Zero
	if total.GreaterThan(decimal.Zero) {
		percent = paid.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return PaymentProgress{
		TotalAmount: total,
		PaidAmount:  paid,
		Percent:     percent,
	}
}
