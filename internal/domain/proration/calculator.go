// Package proration computes the residual value of an in-flight
// subscription period and the net amount payable on a plan change.
package proration

import (
	"context"

	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/shopspring/decimal"
)

// Calculator performs proration calculations. It is pure: no side effects,
// no persistence, currency formatting left to the caller.
type Calculator interface {
	Calculate(ctx context.Context, params ProrationParams) (*ProrationResult, error)

	// RemainingValue computes just the residual value of the period at the
	// proration date, without a target plan.
	RemainingValue(ctx context.Context, params ProrationParams) (decimal.Decimal, error)
}

// NewCalculator returns the second-based proration calculator. Second
// granularity preserves sub-day precision in the remaining/total ratio.
func NewCalculator() Calculator {
	return &secondBasedCalculator{}
}

type secondBasedCalculator struct{}

func (c *secondBasedCalculator) Calculate(ctx context.Context, params ProrationParams) (*ProrationResult, error) {
	remaining, err := c.RemainingValue(ctx, params)
	if err != nil {
		return nil, err
	}

	netDue := params.NewPlanAmountDue.Sub(remaining)
	if netDue.LessThan(decimal.Zero) {
		netDue = decimal.Zero
	}

	return &ProrationResult{
		RemainingValue: remaining,
		NetAmountDue:   netDue,
		ProrationDate:  params.ProrationDate,
	}, nil
}

func (c *secondBasedCalculator) RemainingValue(ctx context.Context, params ProrationParams) (decimal.Decimal, error) {
	if err := validateParams(params); err != nil {
		return decimal.Zero, err
	}

	now := params.ProrationDate

	// Not yet started: nothing has been consumed, the full amount remains.
	if params.StartDate.After(now) {
		return params.TotalAmount, nil
	}

	// Already ended: nothing remains.
	if now.After(params.EndDate) {
		return decimal.Zero, nil
	}

	totalSeconds := params.EndDate.Sub(params.StartDate).Seconds()
	remainingSeconds := params.EndDate.Sub(now).Seconds()

	coefficient := decimal.NewFromFloat(remainingSeconds).Div(decimal.NewFromFloat(totalSeconds))
	return params.TotalAmount.Mul(coefficient), nil
}

func validateParams(params ProrationParams) error {
	if params.ProrationDate.IsZero() {
		return ierr.NewError("proration date is required").
			WithHint("Proration date is required").
			Mark(ierr.ErrValidation)
	}

	if params.StartDate.IsZero() || params.EndDate.IsZero() {
		return ierr.NewError("subscription period start and end dates are required").
			WithHint("Subscription period start and end dates are required").
			Mark(ierr.ErrValidation)
	}

	// start_date == end_date is rejected at subscription creation; a zero
	// length period reaching this point is an invariant violation.
	if !params.EndDate.After(params.StartDate) {
		return ierr.NewError("subscription period end date must be after start date").
			WithHint("Subscription period is invalid").
			WithReportableDetails(map[string]any{
				"start_date": params.StartDate,
				"end_date":   params.EndDate,
			}).
			Mark(ierr.ErrInvariantViolation)
	}

	if params.TotalAmount.LessThan(decimal.Zero) {
		return ierr.NewError("subscription total amount cannot be negative").
			WithHint("Subscription total amount cannot be negative").
			Mark(ierr.ErrValidation)
	}

	if params.NewPlanAmountDue.LessThan(decimal.Zero) {
		return ierr.NewError("new plan amount due cannot be negative").
			WithHint("New plan amount cannot be negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}
