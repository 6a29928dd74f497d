package testutil

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/deskhive/deskhive/internal/domain/payment"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

// NewInMemoryPaymentStore creates a new in-memory payment store
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return fmt.Errorf("payment cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryPaymentStore) CreateBulk(ctx context.Context, payments []*payment.Payment) error {
	for _, p := range payments {
		if err := s.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("payment not found").
			WithHintf("No payment found for %s", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPaymentStore) ListBySubscription(ctx context.Context, subscriptionID string) ([]*payment.Payment, error) {
	payments, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var result []*payment.Payment
	for _, p := range payments {
		if p.SubscriptionID == subscriptionID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

func (s *InMemoryPaymentStore) Update(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return fmt.Errorf("payment cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, p.ID, p)
}

func (s *InMemoryPaymentStore) ListPendingPastDue(ctx context.Context, now time.Time) ([]*payment.Payment, error) {
	payments, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var pastDue []*payment.Payment
	for _, p := range payments {
		if p.PaymentStatus == types.PaymentStatusPending && p.DueDate.Before(now) {
			pastDue = append(pastDue, p)
		}
	}
	return pastDue, nil
}
