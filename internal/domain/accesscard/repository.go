package accesscard

import (
	"context"
)

// Repository defines the interface for access card persistence
type Repository interface {
	Create(ctx context.Context, card *AccessCard) error
	Get(ctx context.Context, id string) (*AccessCard, error)
	GetBySubscription(ctx context.Context, subscriptionID string) (*AccessCard, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*AccessCard, error)
	Update(ctx context.Context, card *AccessCard) error
}
