package service

import (
	"context"

	"github.com/deskhive/deskhive/internal/api/dto"
	"github.com/deskhive/deskhive/internal/cache"
	planDomain "github.com/deskhive/deskhive/internal/domain/plan"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/samber/lo"
)

type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	GetPlans(ctx context.Context, filter *types.PlanFilter) (*dto.ListPlansResponse, error)
	UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	DeletePlan(ctx context.Context, id string) error
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid plan data provided").
			Mark(ierr.ErrValidation)
	}

	plan := req.ToPlan(ctx)
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.Logger.Infow("created plan",
		"plan_id", plan.ID,
		"duration_days", plan.DurationDays)

	return dto.NewPlanResponse(plan, s.TierList), nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	// The catalog is read-heavy and only descriptive fields ever change, so
	// plan reads go through the cache.
	key := planCacheKey(ctx, id)
	if cached, found := s.Cache.Get(ctx, key); found {
		if plan, ok := cached.(*planDomain.Plan); ok {
			return dto.NewPlanResponse(plan, s.TierList), nil
		}
	}

	plan, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, key, plan, cache.DefaultExpiration)

	return dto.NewPlanResponse(plan, s.TierList), nil
}

func (s *planService) GetPlans(ctx context.Context, filter *types.PlanFilter) (*dto.ListPlansResponse, error) {
	if filter == nil {
		filter = &types.PlanFilter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	plans, err := s.PlanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.PlanRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(plans, func(p *planDomain.Plan, _ int) *dto.PlanResponse {
		return dto.NewPlanResponse(p, s.TierList)
	})

	return &dto.ListPlansResponse{
		Items: items,
		Total: count,
	}, nil
}

func (s *planService) UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	plan, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Pricing, duration and installment terms are immutable once published;
	// only descriptive fields may change.
	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}

	if err := s.PlanRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, planCacheKey(ctx, id))

	return dto.NewPlanResponse(plan, s.TierList), nil
}

func (s *planService) DeletePlan(ctx context.Context, id string) error {
	if _, err := s.PlanRepo.Get(ctx, id); err != nil {
		return err
	}

	subCount, err := s.SubRepo.Count(ctx, &types.SubscriptionFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		PlanID:      id,
	})
	if err != nil {
		return err
	}
	if subCount > 0 {
		return ierr.NewError("plan has subscriptions").
			WithHint("Plans with existing subscriptions cannot be deleted").
			WithReportableDetails(map[string]any{
				"plan_id":            id,
				"subscription_count": subCount,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.PlanRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.Delete(ctx, planCacheKey(ctx, id))

	return nil
}

func planCacheKey(ctx context.Context, id string) string {
	return cache.GenerateKey(cache.PrefixPlan, types.GetTenantID(ctx), id)
}
