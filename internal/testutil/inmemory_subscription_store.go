package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/deskhive/deskhive/internal/domain/subscription"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
)

// InMemorySubscriptionStore implements subscription.Repository
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
}

// NewInMemorySubscriptionStore creates a new in-memory subscription store
func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
	}
}

// subscriptionFilterFn implements filtering logic for subscriptions
func subscriptionFilterFn(ctx context.Context, sub *subscription.Subscription, filter interface{}) bool {
	if sub == nil {
		return false
	}

	f, ok := filter.(*types.SubscriptionFilter)
	if !ok {
		return true
	}

	if tenantID, ok := ctx.Value(types.CtxTenantID).(string); ok {
		if sub.TenantID != tenantID {
			return false
		}
	}

	if f.CustomerID != "" && sub.CustomerID != f.CustomerID {
		return false
	}
	if f.PlanID != "" && sub.PlanID != f.PlanID {
		return false
	}
	if f.SubscriptionStatus != nil && sub.SubscriptionStatus != *f.SubscriptionStatus {
		return false
	}

	return true
}

// subscriptionSortFn implements sorting logic for subscriptions
func subscriptionSortFn(i, j *subscription.Subscription) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemorySubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	if sub == nil {
		return fmt.Errorf("subscription cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, sub.ID, sub)
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	sub, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("subscription not found").
			WithHintf("No subscription found for %s", id).
			Mark(ierr.ErrNotFound)
	}
	return sub, nil
}

func (s *InMemorySubscriptionStore) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	return s.InMemoryStore.List(ctx, filter, subscriptionFilterFn, subscriptionSortFn)
}

func (s *InMemorySubscriptionStore) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, subscriptionFilterFn)
}

func (s *InMemorySubscriptionStore) Update(ctx context.Context, sub *subscription.Subscription) error {
	if sub == nil {
		return fmt.Errorf("subscription cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, sub.ID, sub)
}

func (s *InMemorySubscriptionStore) GetActiveByCustomer(ctx context.Context, customerID string) (*subscription.Subscription, error) {
	subs, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var latest *subscription.Subscription
	for _, sub := range subs {
		if sub.CustomerID != customerID || sub.SubscriptionStatus != types.SubscriptionStatusActive {
			continue
		}
		if latest == nil || sub.EndDate.After(latest.EndDate) {
			latest = sub
		}
	}
	if latest == nil {
		return nil, ierr.NewError("subscription not found").
			WithHintf("No active subscription found for %s", customerID).
			Mark(ierr.ErrNotFound)
	}
	return latest, nil
}

func (s *InMemorySubscriptionStore) ListPendingDue(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	subs, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var due []*subscription.Subscription
	for _, sub := range subs {
		if sub.SubscriptionStatus == types.SubscriptionStatusPending && !sub.StartDate.After(now) {
			due = append(due, sub)
		}
	}
	return due, nil
}

func (s *InMemorySubscriptionStore) ListActivePastEnd(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	subs, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var overdue []*subscription.Subscription
	for _, sub := range subs {
		if sub.SubscriptionStatus == types.SubscriptionStatusActive && sub.EndDate.Before(now) {
			overdue = append(overdue, sub)
		}
	}
	return overdue, nil
}
