package subscription

import (
	"context"
	"time"

	"github.com/deskhive/deskhive/internal/types"
)

// Repository defines the interface for subscription persistence
type Repository interface {
	Create(ctx context.Context, subscription *Subscription) error
	Get(ctx context.Context, id string) (*Subscription, error)
	List(ctx context.Context, filter *types.SubscriptionFilter) ([]*Subscription, error)
	Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error)
	Update(ctx context.Context, subscription *Subscription) error

	// GetActiveByCustomer returns the customer's active subscription, if any.
	// The persistence layer guarantees at most one committed active
	// subscription per customer.
	GetActiveByCustomer(ctx context.Context, customerID string) (*Subscription, error)

	// ListPendingDue returns pending subscriptions whose start date has arrived
	ListPendingDue(ctx context.Context, now time.Time) ([]*Subscription, error)

	// ListActivePastEnd returns active subscriptions past their end date
	ListActivePastEnd(ctx context.Context, now time.Time) ([]*Subscription, error)
}
