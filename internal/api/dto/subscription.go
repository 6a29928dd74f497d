package dto

import (
	"time"

	"github.com/deskhive/deskhive/internal/domain/subscription"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/deskhive/deskhive/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateSubscriptionRequest struct {
	CustomerID  string                      `json:"customer_id" validate:"required"`
	PlanID      string                      `json:"plan_id" validate:"required"`
	PaymentType types.PaymentType           `json:"payment_type" validate:"required"`
	StartType   types.SubscriptionStartType `json:"start_type" validate:"required"`

	// StartDate is required when StartType is scheduled
	StartDate *time.Time `json:"start_date,omitempty"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.PaymentType.Validate(); err != nil {
		return err
	}
	if err := r.StartType.Validate(); err != nil {
		return err
	}
	if r.StartType == types.SubscriptionStartTypeScheduled && r.StartDate == nil {
		return ierr.NewError("start date is required for scheduled subscriptions").
			WithHint("Provide a start date when scheduling a subscription").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (r *CancelSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type ChangePlanRequest struct {
	TargetPlanID string                      `json:"target_plan_id" validate:"required"`
	PaymentType  types.PaymentType           `json:"payment_type" validate:"required"`
	StartType    types.SubscriptionStartType `json:"start_type" validate:"required"`

	// StartDate is required when StartType is scheduled
	StartDate *time.Time `json:"start_date,omitempty"`
}

func (r *ChangePlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.PaymentType.Validate(); err != nil {
		return err
	}
	if err := r.StartType.Validate(); err != nil {
		return err
	}
	if r.StartType == types.SubscriptionStartTypeScheduled && r.StartDate == nil {
		return ierr.NewError("start date is required for scheduled plan changes").
			WithHint("Provide a start date when scheduling a plan change").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type SubscriptionResponse struct {
	*subscription.Subscription
}

type ListSubscriptionsResponse struct {
	Items []*SubscriptionResponse `json:"items"`
	Total int                     `json:"total"`
}

// ChangePlanResponse is the outcome of a plan change preview or execution.
type ChangePlanResponse struct {
	// ChangeType classifies the requested change relative to the current plan
	ChangeType types.PlanChangeType `json:"change_type"`

	// RemainingValue is the unconsumed value of the current subscription
	RemainingValue decimal.Decimal `json:"remaining_value"`

	// AmountDue is the net amount payable now
	AmountDue decimal.Decimal `json:"amount_due"`

	// Currency of the amounts above
	Currency string `json:"currency"`

	// NewSubscription is set when the change was executed
	NewSubscription *SubscriptionResponse `json:"new_subscription,omitempty"`

	// CancelledSubscriptionID is the superseded subscription, when executed
	CancelledSubscriptionID string `json:"cancelled_subscription_id,omitempty"`
}
