package plan

import (
	"github.com/deskhive/deskhive/internal/types"
)

// TierDefinition maps a canonical plan duration to its semantic tier name.
type TierDefinition struct {
	DurationDays int
	Tier         types.PlanTier
}

// TierList is an ordered list of canonical tier definitions, lowest tier
// first. It is injected into the comparator as configuration data rather
// than read from a mutable global.
type TierList []TierDefinition

// DefaultTierList returns the canonical tier ordering.
func DefaultTierList() TierList {
	return TierList{
		{DurationDays: 1, Tier: types.PlanTierDaily},
		{DurationDays: 7, Tier: types.PlanTierWeekly},
		{DurationDays: 30, Tier: types.PlanTierMonthly},
		{DurationDays: 90, Tier: types.PlanTierQuarterly},
		{DurationDays: 365, Tier: types.PlanTierYearly},
	}
}

// IndexOf returns the zero-based list position of the given duration, or -1
// if the duration is not a canonical tier duration. The index is the list
// position, not derived from the raw day count.
func (l TierList) IndexOf(durationDays int) int {
	for i, def := range l {
		if def.DurationDays == durationDays {
			return i
		}
	}
	return -1
}

// TierOf returns the semantic tier name for the given duration.
func (l TierList) TierOf(durationDays int) (types.PlanTier, bool) {
	idx := l.IndexOf(durationDays)
	if idx < 0 {
		return "", false
	}
	return l[idx].Tier, true
}

// Classify classifies a plan change as current, upgrade or downgrade.
//
// Equality is decided on tier indices: two durations on the same tier are
// "current". An unknown duration carries the -1 not-found index, so it never
// equals a known tier and behaves as a strictly lower tier for the equality
// check; two unknown durations compare equal. Direction for non-equal tiers
// is decided on the raw day counts, not the indices.
func (l TierList) Classify(currentDurationDays, targetDurationDays int) types.PlanChangeType {
	currentLevel := l.IndexOf(currentDurationDays)
	targetLevel := l.IndexOf(targetDurationDays)

	if currentLevel == targetLevel {
		return types.PlanChangeTypeCurrent
	}

	if targetDurationDays > currentDurationDays {
		return types.PlanChangeTypeUpgrade
	}
	return types.PlanChangeTypeDowngrade
}
