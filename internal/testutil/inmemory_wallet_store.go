package testutil

import (
	"context"
	"fmt"

	"github.com/deskhive/deskhive/internal/domain/wallet"
	ierr "github.com/deskhive/deskhive/internal/errors"
)

// InMemoryWalletStore implements wallet.Repository
type InMemoryWalletStore struct {
	*InMemoryStore[*wallet.Wallet]
}

// NewInMemoryWalletStore creates a new in-memory wallet store
func NewInMemoryWalletStore() *InMemoryWalletStore {
	return &InMemoryWalletStore{
		InMemoryStore: NewInMemoryStore[*wallet.Wallet](),
	}
}

// Add seeds a wallet for tests.
func (s *InMemoryWalletStore) Add(ctx context.Context, w *wallet.Wallet) error {
	if w == nil {
		return fmt.Errorf("wallet cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, w.ID, w)
}

func (s *InMemoryWalletStore) GetByCustomer(ctx context.Context, customerID string) (*wallet.Wallet, error) {
	wallets, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	for _, w := range wallets {
		if w.CustomerID == customerID {
			return w, nil
		}
	}
	return nil, ierr.NewError("wallet not found").
		WithHintf("No wallet found for customer %s", customerID).
		Mark(ierr.ErrNotFound)
}
