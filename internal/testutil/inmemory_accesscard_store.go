package testutil

import (
	"context"
	"fmt"

	"github.com/deskhive/deskhive/internal/domain/accesscard"
	ierr "github.com/deskhive/deskhive/internal/errors"
)

// InMemoryAccessCardStore implements accesscard.Repository
type InMemoryAccessCardStore struct {
	*InMemoryStore[*accesscard.AccessCard]
}

// NewInMemoryAccessCardStore creates a new in-memory access card store
func NewInMemoryAccessCardStore() *InMemoryAccessCardStore {
	return &InMemoryAccessCardStore{
		InMemoryStore: NewInMemoryStore[*accesscard.AccessCard](),
	}
}

func (s *InMemoryAccessCardStore) Create(ctx context.Context, card *accesscard.AccessCard) error {
	if card == nil {
		return fmt.Errorf("access card cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, card.ID, card)
}

func (s *InMemoryAccessCardStore) Get(ctx context.Context, id string) (*accesscard.AccessCard, error) {
	card, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("access card not found").
			WithHintf("No access card found for %s", id).
			Mark(ierr.ErrNotFound)
	}
	return card, nil
}

func (s *InMemoryAccessCardStore) GetBySubscription(ctx context.Context, subscriptionID string) (*accesscard.AccessCard, error) {
	cards, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var latest *accesscard.AccessCard
	for _, card := range cards {
		if card.SubscriptionID != subscriptionID {
			continue
		}
		if latest == nil || card.CreatedAt.After(latest.CreatedAt) {
			latest = card
		}
	}
	if latest == nil {
		return nil, ierr.NewError("access card not found").
			WithHintf("No access card found for subscription %s", subscriptionID).
			Mark(ierr.ErrNotFound)
	}
	return latest, nil
}

func (s *InMemoryAccessCardStore) ListByCustomer(ctx context.Context, customerID string) ([]*accesscard.AccessCard, error) {
	cards, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var result []*accesscard.AccessCard
	for _, card := range cards {
		if card.CustomerID == customerID {
			result = append(result, card)
		}
	}
	return result, nil
}

func (s *InMemoryAccessCardStore) Update(ctx context.Context, card *accesscard.AccessCard) error {
	if card == nil {
		return fmt.Errorf("access card cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, card.ID, card)
}
