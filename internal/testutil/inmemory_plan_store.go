package testutil

import (
	"context"
	"fmt"

	"github.com/deskhive/deskhive/internal/domain/plan"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan]
}

// NewInMemoryPlanStore creates a new in-memory plan store
func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.Plan](),
	}
}

// planFilterFn implements filtering logic for plans
func planFilterFn(ctx context.Context, p *plan.Plan, filter interface{}) bool {
	if p == nil {
		return false
	}

	f, ok := filter.(*types.PlanFilter)
	if !ok {
		return true
	}

	if tenantID, ok := ctx.Value(types.CtxTenantID).(string); ok {
		if p.TenantID != tenantID {
			return false
		}
	}

	if f.QueryFilter != nil && f.Status != nil && p.Status != *f.Status {
		return false
	}

	if len(f.PlanIDs) > 0 {
		found := false
		for _, id := range f.PlanIDs {
			if p.ID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// planSortFn implements sorting logic for plans
func planSortFn(i, j *plan.Plan) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	if p == nil {
		return fmt.Errorf("plan cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("plan not found").
			WithHintf("No plan found for %s", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPlanStore) GetByLookupKey(ctx context.Context, lookupKey string) (*plan.Plan, error) {
	plans, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		if p.LookupKey == lookupKey && p.Status == types.StatusActive {
			return p, nil
		}
	}
	return nil, ierr.NewError("plan not found").
		WithHintf("No plan found for lookup key %s", lookupKey).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryPlanStore) List(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	return s.InMemoryStore.List(ctx, filter, planFilterFn, planSortFn)
}

func (s *InMemoryPlanStore) Count(ctx context.Context, filter *types.PlanFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, planFilterFn)
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.Plan) error {
	if p == nil {
		return fmt.Errorf("plan cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, p.ID, p)
}

func (s *InMemoryPlanStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}
