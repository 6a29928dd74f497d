package service

import (
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/api/dto"
	"github.com/deskhive/deskhive/internal/cache"
	planDomain "github.com/deskhive/deskhive/internal/domain/plan"
	"github.com/deskhive/deskhive/internal/domain/proration"
	"github.com/deskhive/deskhive/internal/domain/wallet"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/testutil"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service     SubscriptionService
	params      ServiceParams
	monthlyPlan *planDomain.Plan
	yearlyPlan  *planDomain.Plan
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
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
	s.service = NewSubscriptionService(s.params)

	s.monthlyPlan = s.seedPlan("Monthly Desk", 30, decimal.NewFromInt(10000), true)
	s.yearlyPlan = s.seedPlan("Yearly Desk", 365, decimal.NewFromInt(24000), false)
	s.seedWallet("cust_1", decimal.NewFromInt(100000))
}

func (s *SubscriptionServiceSuite) seedPlan(name string, durationDays int, price decimal.Decimal, installment bool) *planDomain.Plan {
	p := &planDomain.Plan{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:         name,
		Price:        price,
		Currency:     "usd",
		DurationDays: durationDays,
		BaseModel:    types.GetDefaultBaseModel(s.GetContext()),
	}
	if installment {
		p.InstallmentAllowed = true
		p.InstallmentMonths = 12
		p.InstallmentAmount = price.Div(decimal.NewFromInt(12)).Round(2)
	}
	s.NoError(s.params.PlanRepo.Create(s.GetContext(), p))
	return p
}

func (s *SubscriptionServiceSuite) seedWallet(customerID string, balance decimal.Decimal) {
	store := s.params.WalletRepo.(*testutil.InMemoryWalletStore)
	s.NoError(store.Add(s.GetContext(), &wallet.Wallet{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WALLET),
		CustomerID: customerID,
		Currency:   "usd",
		Balance:    balance,
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))
}

func (s *SubscriptionServiceSuite) createSubscription(planID string) *dto.SubscriptionResponse {
	resp, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:  "cust_1",
		PlanID:      planID,
		PaymentType: types.PaymentTypeFull,
		StartType:   types.SubscriptionStartTypeImmediate,
	})
	s.NoError(err)
	return resp
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionImmediate() {
	resp := s.createSubscription(s.monthlyPlan.ID)

	s.Equal(types.SubscriptionStatusActive, resp.SubscriptionStatus)
	s.Equal("cust_1", resp.CustomerID)
	s.True(resp.TotalAmount.Equal(s.monthlyPlan.Price))
	s.Equal(resp.StartDate.AddDate(0, 0, 30), resp.EndDate)

	// One pending payment for the full price
	payments, err := s.params.PaymentRepo.ListBySubscription(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Len(payments, 1)
	s.Equal(types.PaymentStatusPending, payments[0].PaymentStatus)
	s.True(payments[0].Amount.Equal(s.monthlyPlan.Price))

	// Access card issued and aligned with the period end
	card, err := s.params.AccessCardRepo.GetBySubscription(s.GetContext(), resp.ID)
	s.NoError(err)
	s.True(card.Active)
	s.Equal(resp.EndDate, card.ValidUntil)
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionScheduled() {
	startDate := time.Now().UTC().AddDate(0, 0, 7)
	resp, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:  "cust_1",
		PlanID:      s.monthlyPlan.ID,
		PaymentType: types.PaymentTypeFull,
		StartType:   types.SubscriptionStartTypeScheduled,
		StartDate:   lo.ToPtr(startDate),
	})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusPending, resp.SubscriptionStatus)

	// No card until activation
	_, err = s.params.AccessCardRepo.GetBySubscription(s.GetContext(), resp.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionInstallment() {
	resp, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:  "cust_1",
		PlanID:      s.monthlyPlan.ID,
		PaymentType: types.PaymentTypeInstallment,
		StartType:   types.SubscriptionStartTypeImmediate,
	})
	s.NoError(err)

	payments, err := s.params.PaymentRepo.ListBySubscription(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Len(payments, 12)
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionInstallmentNotAllowed() {
	_, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:  "cust_1",
		PlanID:      s.yearlyPlan.ID,
		PaymentType: types.PaymentTypeInstallment,
		StartType:   types.SubscriptionStartTypeImmediate,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionInsufficientBalance() {
	s.seedWallet("cust_poor", decimal.NewFromInt(100))

	_, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:  "cust_poor",
		PlanID:      s.monthlyPlan.ID,
		PaymentType: types.PaymentTypeFull,
		StartType:   types.SubscriptionStartTypeImmediate,
	})
	s.Error(err)
	s.True(ierr.IsInsufficientBalance(err))
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionDuplicateActive() {
	s.createSubscription(s.monthlyPlan.ID)

	_, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:  "cust_1",
		PlanID:      s.monthlyPlan.ID,
		PaymentType: types.PaymentTypeFull,
		StartType:   types.SubscriptionStartTypeImmediate,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *SubscriptionServiceSuite) TestGetCurrentSubscription() {
	created := s.createSubscription(s.monthlyPlan.ID)

	current, err := s.service.GetCurrentSubscription(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Equal(created.ID, current.ID)
}

func (s *SubscriptionServiceSuite) TestCancelSubscription() {
	created := s.createSubscription(s.monthlyPlan.ID)

	resp, err := s.service.CancelSubscription(s.GetContext(), created.ID, dto.CancelSubscriptionRequest{
		Reason: "moving out",
	})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, resp.SubscriptionStatus)
	s.Equal("moving out", *resp.CancellationReason)

	card, err := s.params.AccessCardRepo.GetBySubscription(s.GetContext(), created.ID)
	s.NoError(err)
	s.False(card.Active)
}

func (s *SubscriptionServiceSuite) TestCancelSubscriptionTwice() {
	created := s.createSubscription(s.monthlyPlan.ID)

	_, err := s.service.CancelSubscription(s.GetContext(), created.ID, dto.CancelSubscriptionRequest{Reason: "first"})
	s.NoError(err)

	_, err = s.service.CancelSubscription(s.GetContext(), created.ID, dto.CancelSubscriptionRequest{Reason: "second"})
	s.Error(err)
	s.True(ierr.IsAlreadyCancelled(err))
}

func (s *SubscriptionServiceSuite) TestRenewSubscription() {
	created := s.createSubscription(s.monthlyPlan.ID)
	oldEnd := created.EndDate

	resp, err := s.service.RenewSubscription(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(oldEnd.AddDate(0, 0, 30), resp.EndDate)

	// Renewal adds a second payment row
	payments, err := s.params.PaymentRepo.ListBySubscription(s.GetContext(), created.ID)
	s.NoError(err)
	s.Len(payments, 2)

	// Card validity follows the new end date
	card, err := s.params.AccessCardRepo.GetBySubscription(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(resp.EndDate, card.ValidUntil)
}

func (s *SubscriptionServiceSuite) TestReactivateSubscription() {
	created := s.createSubscription(s.monthlyPlan.ID)

	_, err := s.service.CancelSubscription(s.GetContext(), created.ID, dto.CancelSubscriptionRequest{Reason: "pausing"})
	s.NoError(err)

	resp, err := s.service.ReactivateSubscription(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, resp.SubscriptionStatus)
	s.Nil(resp.CancelledAt)

	card, err := s.params.AccessCardRepo.GetBySubscription(s.GetContext(), created.ID)
	s.NoError(err)
	s.True(card.Active)
}

func (s *SubscriptionServiceSuite) TestReactivatePastGraceWindow() {
	created := s.createSubscription(s.monthlyPlan.ID)

	sub, err := s.params.SubRepo.Get(s.GetContext(), created.ID)
	s.NoError(err)
	cancelledAt := time.Now().UTC().AddDate(0, 0, -45)
	s.NoError(sub.Cancel(cancelledAt, "long ago"))
	s.NoError(s.params.SubRepo.Update(s.GetContext(), sub))

	_, err = s.service.ReactivateSubscription(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsReactivationWindowExpired(err))
}

func (s *SubscriptionServiceSuite) TestCheckInAndOut() {
	created := s.createSubscription(s.monthlyPlan.ID)

	resp, err := s.service.CheckIn(s.GetContext(), created.ID)
	s.NoError(err)
	s.NotNil(resp.CheckedInAt)

	resp, err = s.service.CheckOut(s.GetContext(), created.ID)
	s.NoError(err)
	s.NotNil(resp.CheckedOutAt)
}

func (s *SubscriptionServiceSuite) TestActivateDueSubscriptions() {
	startDate := time.Now().UTC().Add(time.Minute)
	resp, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:  "cust_1",
		PlanID:      s.monthlyPlan.ID,
		PaymentType: types.PaymentTypeFull,
		StartType:   types.SubscriptionStartTypeScheduled,
		StartDate:   lo.ToPtr(startDate),
	})
	s.NoError(err)

	// Pull the start date into the past so the scheduler sees it as due
	sub, err := s.params.SubRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	sub.StartDate = time.Now().UTC().Add(-time.Hour)
	s.NoError(s.params.SubRepo.Update(s.GetContext(), sub))

	activated, err := s.service.ActivateDueSubscriptions(s.GetContext())
	s.NoError(err)
	s.Equal(1, activated)

	updated, err := s.params.SubRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, updated.SubscriptionStatus)

	card, err := s.params.AccessCardRepo.GetBySubscription(s.GetContext(), resp.ID)
	s.NoError(err)
	s.True(card.Active)
}

func (s *SubscriptionServiceSuite) TestExpireOverdueSubscriptions() {
	created := s.createSubscription(s.monthlyPlan.ID)

	sub, err := s.params.SubRepo.Get(s.GetContext(), created.ID)
	s.NoError(err)
	sub.EndDate = time.Now().UTC().Add(-time.Hour)
	s.NoError(s.params.SubRepo.Update(s.GetContext(), sub))

	expired, err := s.service.ExpireOverdueSubscriptions(s.GetContext())
	s.NoError(err)
	s.Equal(1, expired)

	updated, err := s.params.SubRepo.Get(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusExpired, updated.SubscriptionStatus)

	card, err := s.params.AccessCardRepo.GetBySubscription(s.GetContext(), created.ID)
	s.NoError(err)
	s.False(card.Active)
}
