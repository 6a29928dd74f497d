package types

import (
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus is the status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

var SubscriptionStatusValues = []SubscriptionStatus{
	SubscriptionStatusPending,
	SubscriptionStatusActive,
	SubscriptionStatusExpired,
	SubscriptionStatusCancelled,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	if !lo.Contains(SubscriptionStatusValues, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": SubscriptionStatusValues,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether the status permits no further transitions.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusExpired || s == SubscriptionStatusCancelled
}

// SubscriptionStartType determines when a new subscription takes effect.
type SubscriptionStartType string

const (
	SubscriptionStartTypeImmediate SubscriptionStartType = "immediate"
	SubscriptionStartTypeScheduled SubscriptionStartType = "scheduled"
)

var SubscriptionStartTypeValues = []SubscriptionStartType{
	SubscriptionStartTypeImmediate,
	SubscriptionStartTypeScheduled,
}

func (t SubscriptionStartType) String() string {
	return string(t)
}

func (t SubscriptionStartType) Validate() error {
	if !lo.Contains(SubscriptionStartTypeValues, t) {
		return ierr.NewError("invalid subscription start type").
			WithHint("Start type must be either immediate or scheduled").
			WithReportableDetails(map[string]any{
				"allowed_values": SubscriptionStartTypeValues,
				"provided_value": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Well-known cancellation reasons recorded when a subscription is
// superseded by a plan change.
const (
	CancellationReasonSupersededByUpgrade   = "superseded by upgrade"
	CancellationReasonSupersededByDowngrade = "superseded by downgrade"
)

// SubscriptionFilter represents the filter for listing subscriptions
type SubscriptionFilter struct {
	*QueryFilter

	CustomerID         string              `form:"customer_id"`
	PlanID             string              `form:"plan_id"`
	SubscriptionStatus *SubscriptionStatus `form:"subscription_status"`
}

// NewNoLimitSubscriptionFilter creates a new subscription filter with no limit
func NewNoLimitSubscriptionFilter() *SubscriptionFilter {
	return &SubscriptionFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// Validate validates the subscription filter
func (f *SubscriptionFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.SubscriptionStatus != nil {
		if err := f.SubscriptionStatus.Validate(); err != nil {
			return err
		}
	}
	if f.QueryFilter == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

// GetLimit implements BaseFilter interface
func (f *SubscriptionFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *SubscriptionFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}
