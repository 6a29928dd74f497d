package service

import (
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/api/dto"
	"github.com/deskhive/deskhive/internal/cache"
	planDomain "github.com/deskhive/deskhive/internal/domain/plan"
	"github.com/deskhive/deskhive/internal/domain/proration"
	"github.com/deskhive/deskhive/internal/domain/subscription"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/testutil"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PlanServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PlanService
	params  ServiceParams
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:              s.GetLogger(),
		Config:              s.GetConfig(),
		DB:                  s.GetDB(),
		Cache:               cache.NewInMemoryCache(),
		TierList:            planDomain.DefaultTierList(),
		ProrationCalculator: proration.NewCalculator(),
		PlanRepo:            stores.PlanRepo,
		SubRepo:             stores.SubRepo,
		PaymentRepo:         stores.PaymentRepo,
		AccessCardRepo:      stores.AccessCardRepo,
		WalletRepo:          stores.WalletRepo,
	}
	s.service = NewPlanService(s.params)
}

func (s *PlanServiceSuite) TestCreatePlan() {
	resp, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:         "Monthly Desk",
		LookupKey:    "monthly-desk",
		Price:        decimal.NewFromInt(10000),
		Currency:     "usd",
		DurationDays: 30,
	})
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Equal(types.PlanTierMonthly, resp.Tier)
}

func (s *PlanServiceSuite) TestCreatePlanNonCanonicalDuration() {
	_, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:         "Fortnight Desk",
		LookupKey:    "fortnight-desk",
		Price:        decimal.NewFromInt(5000),
		Currency:     "usd",
		DurationDays: 14,
	})
	s.Error(err)
}

func (s *PlanServiceSuite) TestUpdatePlanKeepsPricing() {
	created, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:         "Monthly Desk",
		LookupKey:    "monthly-desk",
		Price:        decimal.NewFromInt(10000),
		Currency:     "usd",
		DurationDays: 30,
	})
	s.NoError(err)

	updated, err := s.service.UpdatePlan(s.GetContext(), created.ID, dto.UpdatePlanRequest{
		Name: lo.ToPtr("Monthly Hot Desk"),
	})
	s.NoError(err)
	s.Equal("Monthly Hot Desk", updated.Name)
	s.True(updated.Price.Equal(decimal.NewFromInt(10000)))
}

func (s *PlanServiceSuite) TestGetPlanServedFromCache() {
	created, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:         "Monthly Desk",
		LookupKey:    "monthly-desk",
		Price:        decimal.NewFromInt(10000),
		Currency:     "usd",
		DurationDays: 30,
	})
	s.NoError(err)

	// First read populates the cache
	_, err = s.service.GetPlan(s.GetContext(), created.ID)
	s.NoError(err)

	// Remove the row behind the service's back; the cached copy still serves
	s.NoError(s.params.PlanRepo.Delete(s.GetContext(), created.ID))

	resp, err := s.service.GetPlan(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(created.ID, resp.ID)
}

func (s *PlanServiceSuite) TestUpdatePlanInvalidatesCache() {
	created, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:         "Monthly Desk",
		LookupKey:    "monthly-desk",
		Price:        decimal.NewFromInt(10000),
		Currency:     "usd",
		DurationDays: 30,
	})
	s.NoError(err)

	_, err = s.service.GetPlan(s.GetContext(), created.ID)
	s.NoError(err)

	_, err = s.service.UpdatePlan(s.GetContext(), created.ID, dto.UpdatePlanRequest{
		Name: lo.ToPtr("Monthly Hot Desk"),
	})
	s.NoError(err)

	resp, err := s.service.GetPlan(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal("Monthly Hot Desk", resp.Name)
}

func (s *PlanServiceSuite) TestDeletePlanWithSubscriptions() {
	created, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:         "Monthly Desk",
		LookupKey:    "monthly-desk",
		Price:        decimal.NewFromInt(10000),
		Currency:     "usd",
		DurationDays: 30,
	})
	s.NoError(err)

	start := time.Now().UTC()
	sub, err := subscription.New(s.GetContext(), "cust_1", created.ID,
		start, start.AddDate(0, 0, 30), decimal.NewFromInt(10000), "usd",
		types.PaymentTypeFull, types.SubscriptionStatusActive)
	s.NoError(err)
	s.NoError(s.params.SubRepo.Create(s.GetContext(), sub))

	err = s.service.DeletePlan(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PlanServiceSuite) TestDeletePlanWithoutSubscriptions() {
	created, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:         "Day Pass",
		LookupKey:    "day-pass",
		Price:        decimal.NewFromInt(500),
		Currency:     "usd",
		DurationDays: 1,
	})
	s.NoError(err)

	s.NoError(s.service.DeletePlan(s.GetContext(), created.ID))

	_, err = s.service.GetPlan(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
