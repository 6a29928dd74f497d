package types

import (
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/samber/lo"
)

// PlanTier is a canonical duration bucket used to classify plan changes.
type PlanTier string

const (
	PlanTierDaily     PlanTier = "daily"
	PlanTierWeekly    PlanTier = "weekly"
	PlanTierMonthly   PlanTier = "monthly"
	PlanTierQuarterly PlanTier = "quarterly"
	PlanTierYearly    PlanTier = "yearly"
)

func (t PlanTier) String() string {
	return string(t)
}

// PlanChangeType classifies a plan change relative to the current plan.
type PlanChangeType string

const (
	PlanChangeTypeCurrent   PlanChangeType = "current"
	PlanChangeTypeUpgrade   PlanChangeType = "upgrade"
	PlanChangeTypeDowngrade PlanChangeType = "downgrade"
)

func (t PlanChangeType) String() string {
	return string(t)
}

// PaymentType determines how a subscription is paid for.
type PaymentType string

const (
	PaymentTypeFull        PaymentType = "full"
	PaymentTypeInstallment PaymentType = "installment"
)

var PaymentTypeValues = []PaymentType{
	PaymentTypeFull,
	PaymentTypeInstallment,
}

func (t PaymentType) String() string {
	return string(t)
}

func (t PaymentType) Validate() error {
	if !lo.Contains(PaymentTypeValues, t) {
		return ierr.NewError("invalid payment type").
			WithHint("Payment type must be either full or installment").
			WithReportableDetails(map[string]any{
				"allowed_values": PaymentTypeValues,
				"provided_value": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PlanFilter represents the filter for listing plans
type PlanFilter struct {
	*QueryFilter

	PlanIDs []string `form:"plan_ids"`
}

// NewNoLimitPlanFilter creates a new plan filter with no limit
func NewNoLimitPlanFilter() *PlanFilter {
	return &PlanFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// Validate validates the plan filter
func (f *PlanFilter) Validate() error {
	if f == nil || f.QueryFilter == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

// GetLimit implements BaseFilter interface
func (f *PlanFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *PlanFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}
