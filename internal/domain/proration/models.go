package proration

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProrationParams holds all necessary input for computing the residual value
// of a subscription period and the net amount payable when switching plans.
type ProrationParams struct {
	// Current subscription period
	StartDate   time.Time       // Start of the current subscription period
	EndDate     time.Time       // End of the current subscription period
	TotalAmount decimal.Decimal // Amount paid for the current period

	// Change details
	NewPlanAmountDue decimal.Decimal // Full price or first installment of the target plan
	ProrationDate    time.Time       // Evaluation instant ("now")
}

// ProrationResult holds the output of a proration calculation.
type ProrationResult struct {
	// RemainingValue is the unconsumed monetary value of the current period
	// at the proration date.
	RemainingValue decimal.Decimal `json:"remaining_value"`

	// NetAmountDue is max(0, NewPlanAmountDue - RemainingValue). A residual
	// value worth more than the new plan yields zero due now, never a
	// refund.
	NetAmountDue decimal.Decimal `json:"net_amount_due"`

	// ProrationDate is the evaluation instant used for the calculation.
	ProrationDate time.Time `json:"proration_date"`
}
