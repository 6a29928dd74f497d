package wallet

import (
	"context"
)

// Repository defines the read-only interface for wallet balances
type Repository interface {
	GetByCustomer(ctx context.Context, customerID string) (*Wallet, error)
}
