package subscription

import (
	"time"

	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/samber/lo"
)

// The subscription state machine:
//
//	pending -> active -> {expired, cancelled}
//	pending -> cancelled
//	active  -> active (renewal, extends the period)
//	cancelled -> active (reactivation within the grace window)
//
// Illegal transitions fail with a typed error; state is never coerced.

func invalidTransition(from types.SubscriptionStatus, to types.SubscriptionStatus) error {
	return ierr.NewError("invalid subscription state transition").
		WithHintf("Cannot transition subscription from %s to %s", from, to).
		WithReportableDetails(map[string]any{
			"from": from,
			"to":   to,
		}).
		Mark(ierr.ErrInvalidTransition)
}

// Activate transitions a pending subscription to active. The external
// scheduler calls this when the scheduled start date arrives.
func (s *Subscription) Activate(now time.Time) error {
	if s.SubscriptionStatus != types.SubscriptionStatusPending {
		return invalidTransition(s.SubscriptionStatus, types.SubscriptionStatusActive)
	}

	s.SubscriptionStatus = types.SubscriptionStatusActive
	s.UpdatedAt = now
	return nil
}

// Expire transitions an active subscription past its end date to expired.
func (s *Subscription) Expire(now time.Time) error {
	if s.SubscriptionStatus != types.SubscriptionStatusActive {
		return invalidTransition(s.SubscriptionStatus, types.SubscriptionStatusExpired)
	}

	s.SubscriptionStatus = types.SubscriptionStatusExpired
	s.UpdatedAt = now
	return nil
}

// Cancel transitions a pending or active subscription to cancelled and
// records the reason. Cancelling an already-cancelled subscription fails
// with a typed error instead of silently succeeding.
func (s *Subscription) Cancel(now time.Time, reason string) error {
	if s.SubscriptionStatus == types.SubscriptionStatusCancelled {
		return ierr.NewError("subscription is already cancelled").
			WithHint("The subscription has already been cancelled").
			WithReportableDetails(map[string]any{
				"subscription_id": s.ID,
				"cancelled_at":    s.CancelledAt,
			}).
			Mark(ierr.ErrAlreadyCancelled)
	}

	if s.SubscriptionStatus != types.SubscriptionStatusPending &&
		s.SubscriptionStatus != types.SubscriptionStatusActive {
		return invalidTransition(s.SubscriptionStatus, types.SubscriptionStatusCancelled)
	}

	s.SubscriptionStatus = types.SubscriptionStatusCancelled
	s.CancelledAt = lo.ToPtr(now)
	s.CancellationReason = lo.ToPtr(reason)
	s.UpdatedAt = now
	return nil
}

// Renew extends an active or expired subscription by one plan period. The
// new end date anchors on the later of now and the old end date, so an early
// renewal stacks on top of the remaining period while a lapsed one restarts
// from now. Identity is preserved.
func (s *Subscription) Renew(now time.Time, durationDays int) error {
	if s.SubscriptionStatus != types.SubscriptionStatusActive &&
		s.SubscriptionStatus != types.SubscriptionStatusExpired {
		return invalidTransition(s.SubscriptionStatus, types.SubscriptionStatusActive)
	}

	anchor := s.EndDate
	if now.After(anchor) {
		anchor = now
	}

	s.EndDate = anchor.AddDate(0, 0, durationDays)
	s.SubscriptionStatus = types.SubscriptionStatusActive
	s.UpdatedAt = now
	return nil
}

// Reactivate restores a cancelled subscription to active, provided the
// cancellation happened within the grace window.
func (s *Subscription) Reactivate(now time.Time, graceWindow time.Duration) error {
	if s.SubscriptionStatus != types.SubscriptionStatusCancelled {
		return invalidTransition(s.SubscriptionStatus, types.SubscriptionStatusActive)
	}

	if s.CancelledAt == nil || now.Sub(*s.CancelledAt) > graceWindow {
		return ierr.NewError("reactivation window has expired").
			WithHint("The subscription can no longer be reactivated").
			WithReportableDetails(map[string]any{
				"subscription_id": s.ID,
				"cancelled_at":    s.CancelledAt,
				"grace_window":    graceWindow.String(),
			}).
			Mark(ierr.ErrReactivationWindowExpired)
	}

	s.SubscriptionStatus = types.SubscriptionStatusActive
	s.CancelledAt = nil
	s.CancellationReason = nil
	s.UpdatedAt = now
	return nil
}

// CheckIn records a workstation check-in on an active subscription.
func (s *Subscription) CheckIn(now time.Time) error {
	if s.SubscriptionStatus != types.SubscriptionStatusActive {
		return ierr.NewError("subscription is not active").
			WithHint("Only active subscriptions can check in").
			WithReportableDetails(map[string]any{
				"subscription_id": s.ID,
				"status":          s.SubscriptionStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	s.CheckedInAt = lo.ToPtr(now)
	s.CheckedOutAt = nil
	s.UpdatedAt = now
	return nil
}

// CheckOut records a workstation check-out after a check-in.
func (s *Subscription) CheckOut(now time.Time) error {
	if s.CheckedInAt == nil || s.CheckedOutAt != nil {
		return ierr.NewError("subscription is not checked in").
			WithHint("Check in before checking out").
			WithReportableDetails(map[string]any{
				"subscription_id": s.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	s.CheckedOutAt = lo.ToPtr(now)
	s.UpdatedAt = now
	return nil
}
