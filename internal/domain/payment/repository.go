package payment

import (
	"context"
	"time"
)

// Repository defines the interface for payment persistence
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	CreateBulk(ctx context.Context, payments []*Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	ListBySubscription(ctx context.Context, subscriptionID string) ([]*Payment, error)
	Update(ctx context.Context, payment *Payment) error

	// ListPendingPastDue returns pending payments whose due date has passed
	ListPendingPastDue(ctx context.Context, now time.Time) ([]*Payment, error)
}
