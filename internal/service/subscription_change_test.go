package service

import (
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/api/dto"
	"github.com/deskhive/deskhive/internal/cache"
	planDomain "github.com/deskhive/deskhive/internal/domain/plan"
	"github.com/deskhive/deskhive/internal/domain/proration"
	"github.com/deskhive/deskhive/internal/domain/subscription"
	"github.com/deskhive/deskhive/internal/domain/wallet"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/testutil"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SubscriptionChangeServiceSuite struct {
	testutil.BaseServiceTestSuite
	service     SubscriptionChangeService
	params      ServiceParams
	dailyPlan   *planDomain.Plan
	monthlyPlan *planDomain.Plan
	yearlyPlan  *planDomain.Plan
}

func TestSubscriptionChangeService(t *testing.T) {
	suite.Run(t, new(SubscriptionChangeServiceSuite))
}

func (s *SubscriptionChangeServiceSuite) SetupTest() {
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
	s.service = NewSubscriptionChangeService(s.params)

	s.dailyPlan = s.seedPlan("Day Pass", 1, decimal.NewFromInt(500))
	s.monthlyPlan = s.seedPlan("Monthly Desk", 30, decimal.NewFromInt(10000))
	s.yearlyPlan = s.seedPlan("Yearly Desk", 365, decimal.NewFromInt(24000))

	store := s.params.WalletRepo.(*testutil.InMemoryWalletStore)
	s.NoError(store.Add(s.GetContext(), &wallet.Wallet{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WALLET),
		CustomerID: "cust_1",
		Currency:   "usd",
		Balance:    decimal.NewFromInt(100000),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))
}

func (s *SubscriptionChangeServiceSuite) seedPlan(name string, durationDays int, price decimal.Decimal) *planDomain.Plan {
	p := &planDomain.Plan{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:         name,
		Price:        price,
		Currency:     "usd",
		DurationDays: durationDays,
		BaseModel:    types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.params.PlanRepo.Create(s.GetContext(), p))
	return p
}

// seedSubscription creates an active subscription on the monthly plan with
// 10 elapsed and 20 remaining days.
func (s *SubscriptionChangeServiceSuite) seedSubscription() *subscription.Subscription {
	start := time.Now().UTC().AddDate(0, 0, -10)
	sub, err := subscription.New(s.GetContext(), "cust_1", s.monthlyPlan.ID,
		start, start.AddDate(0, 0, 30), s.monthlyPlan.Price, "usd",
		types.PaymentTypeFull, types.SubscriptionStatusActive)
	s.NoError(err)
	s.NoError(s.params.SubRepo.Create(s.GetContext(), sub))
	return sub
}

// seedPendingSubscription creates a pending subscription on the monthly plan
// starting daysFromNow days in the future.
func (s *SubscriptionChangeServiceSuite) seedPendingSubscription(daysFromNow int) *subscription.Subscription {
	start := time.Now().UTC().AddDate(0, 0, daysFromNow)
	sub, err := subscription.New(s.GetContext(), "cust_1", s.monthlyPlan.ID,
		start, start.AddDate(0, 0, 30), s.monthlyPlan.Price, "usd",
		types.PaymentTypeFull, types.SubscriptionStatusPending)
	s.NoError(err)
	s.NoError(s.params.SubRepo.Create(s.GetContext(), sub))
	return sub
}

func (s *SubscriptionChangeServiceSuite) TestPreviewUpgrade() {
	sub := s.seedSubscription()

	resp, err := s.service.PreviewChange(s.GetContext(), sub.ID, dto.ChangePlanRequest{
		TargetPlanID: s.yearlyPlan.ID,
		PaymentType:  types.PaymentTypeFull,
		StartType:    types.SubscriptionStartTypeImmediate,
	})
	s.NoError(err)
	s.Equal(types.PlanChangeTypeUpgrade, resp.ChangeType)

	// 20 of 30 days remain on a 10000 subscription
	s.InDelta(6666.67, resp.RemainingValue.InexactFloat64(), 1.0)
	s.InDelta(17333.33, resp.AmountDue.InexactFloat64(), 1.0)
	s.Nil(resp.NewSubscription)

	// Preview writes nothing
	unchanged, err := s.params.SubRepo.Get(s.GetContext(), sub.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, unchanged.SubscriptionStatus)
}

func (s *SubscriptionChangeServiceSuite) TestPreviewSameTier() {
	sub := s.seedSubscription()

	resp, err := s.service.PreviewChange(s.GetContext(), sub.ID, dto.ChangePlanRequest{
		TargetPlanID: s.monthlyPlan.ID,
		PaymentType:  types.PaymentTypeFull,
		StartType:    types.SubscriptionStartTypeImmediate,
	})
	s.NoError(err)
	s.Equal(types.PlanChangeTypeCurrent, resp.ChangeType)
	s.True(resp.AmountDue.IsZero())
}

func (s *SubscriptionChangeServiceSuite) TestExecuteUpgrade() {
	sub := s.seedSubscription()

	resp, err := s.service.ExecuteChange(s.GetContext(), sub.ID, dto.ChangePlanRequest{
		TargetPlanID: s.yearlyPlan.ID,
		PaymentType:  types.PaymentTypeFull,
		StartType:    types.SubscriptionStartTypeImmediate,
	})
	s.NoError(err)
	s.Equal(types.PlanChangeTypeUpgrade, resp.ChangeType)
	s.Equal(sub.ID, resp.CancelledSubscriptionID)
	s.Require().NotNil(resp.NewSubscription)

	// Old subscription is superseded
	old, err := s.params.SubRepo.Get(s.GetContext(), sub.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, old.SubscriptionStatus)
	s.Equal(types.CancellationReasonSupersededByUpgrade, *old.CancellationReason)

	// New subscription is active on the yearly plan
	newSub, err := s.params.SubRepo.Get(s.GetContext(), resp.NewSubscription.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, newSub.SubscriptionStatus)
	s.Equal(s.yearlyPlan.ID, newSub.PlanID)
	s.True(newSub.TotalAmount.Equal(s.yearlyPlan.Price))

	// First payment carries the prorated net due
	payments, err := s.params.PaymentRepo.ListBySubscription(s.GetContext(), newSub.ID)
	s.NoError(err)
	s.Require().Len(payments, 1)
	s.InDelta(17333.33, payments[0].Amount.InexactFloat64(), 1.0)
	s.Equal(types.PaymentStatusPending, payments[0].PaymentStatus)

	// New card issued for the new subscription
	card, err := s.params.AccessCardRepo.GetBySubscription(s.GetContext(), newSub.ID)
	s.NoError(err)
	s.True(card.Active)
}

func (s *SubscriptionChangeServiceSuite) TestExecuteDowngradeFullyCovered() {
	sub := s.seedSubscription()

	resp, err := s.service.ExecuteChange(s.GetContext(), sub.ID, dto.ChangePlanRequest{
		TargetPlanID: s.dailyPlan.ID,
		PaymentType:  types.PaymentTypeFull,
		StartType:    types.SubscriptionStartTypeImmediate,
	})
	s.NoError(err)
	s.Equal(types.PlanChangeTypeDowngrade, resp.ChangeType)
	s.True(resp.AmountDue.IsZero(), "residual credit should cover the daily plan")

	old, err := s.params.SubRepo.Get(s.GetContext(), sub.ID)
	s.NoError(err)
	s.Equal(types.CancellationReasonSupersededByDowngrade, *old.CancellationReason)

	// The zero net due payment is settled immediately
	payments, err := s.params.PaymentRepo.ListBySubscription(s.GetContext(), resp.NewSubscription.ID)
	s.NoError(err)
	s.Require().Len(payments, 1)
	s.Equal(types.PaymentStatusPaid, payments[0].PaymentStatus)
	s.True(payments[0].Amount.IsZero())
}

func (s *SubscriptionChangeServiceSuite) TestExecuteSameTierNoOp() {
	sub := s.seedSubscription()

	resp, err := s.service.ExecuteChange(s.GetContext(), sub.ID, dto.ChangePlanRequest{
		TargetPlanID: s.monthlyPlan.ID,
		PaymentType:  types.PaymentTypeFull,
		StartType:    types.SubscriptionStartTypeImmediate,
	})
	s.NoError(err)
	s.Equal(types.PlanChangeTypeCurrent, resp.ChangeType)
	s.Nil(resp.NewSubscription)
	s.Empty(resp.CancelledSubscriptionID)

	unchanged, err := s.params.SubRepo.Get(s.GetContext(), sub.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, unchanged.SubscriptionStatus)
}

func (s *SubscriptionChangeServiceSuite) TestExecuteInsufficientBalance() {
	sub := s.seedSubscription()

	store := s.params.WalletRepo.(*testutil.InMemoryWalletStore)
	w, err := store.GetByCustomer(s.GetContext(), "cust_1")
	s.NoError(err)
	w.Balance = decimal.NewFromInt(10)

	_, err = s.service.ExecuteChange(s.GetContext(), sub.ID, dto.ChangePlanRequest{
		TargetPlanID: s.yearlyPlan.ID,
		PaymentType:  types.PaymentTypeFull,
		StartType:    types.SubscriptionStartTypeImmediate,
	})
	s.Error(err)
	s.True(ierr.IsInsufficientBalance(err))
}

func (s *SubscriptionChangeServiceSuite) TestScheduledChangeOnPendingAlongsideActive() {
	active := s.seedSubscription()
	pending := s.seedPendingSubscription(5)

	newStart := time.Now().UTC().AddDate(0, 0, 7)
	resp, err := s.service.ExecuteChange(s.GetContext(), pending.ID, dto.ChangePlanRequest{
		TargetPlanID: s.yearlyPlan.ID,
		PaymentType:  types.PaymentTypeFull,
		StartType:    types.SubscriptionStartTypeScheduled,
		StartDate:    &newStart,
	})
	s.NoError(err)
	s.Equal(types.PlanChangeTypeUpgrade, resp.ChangeType)
	s.Equal(pending.ID, resp.CancelledSubscriptionID)

	// The pending subscription is superseded
	old, err := s.params.SubRepo.Get(s.GetContext(), pending.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, old.SubscriptionStatus)

	// The customer's active subscription is untouched
	untouched, err := s.params.SubRepo.Get(s.GetContext(), active.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, untouched.SubscriptionStatus)
}

func (s *SubscriptionChangeServiceSuite) TestImmediateChangeOnPendingAlongsideActive() {
	s.seedSubscription()
	pending := s.seedPendingSubscription(5)

	_, err := s.service.ExecuteChange(s.GetContext(), pending.ID, dto.ChangePlanRequest{
		TargetPlanID: s.yearlyPlan.ID,
		PaymentType:  types.PaymentTypeFull,
		StartType:    types.SubscriptionStartTypeImmediate,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *SubscriptionChangeServiceSuite) TestChangeOnCancelledSubscription() {
	sub := s.seedSubscription()
	s.NoError(sub.Cancel(time.Now().UTC(), "gone"))
	s.NoError(s.params.SubRepo.Update(s.GetContext(), sub))

	_, err := s.service.ExecuteChange(s.GetContext(), sub.ID, dto.ChangePlanRequest{
		TargetPlanID: s.yearlyPlan.ID,
		PaymentType:  types.PaymentTypeFull,
		StartType:    types.SubscriptionStartTypeImmediate,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}
