package service

import (
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/cache"
	"github.com/deskhive/deskhive/internal/domain/payment"
	planDomain "github.com/deskhive/deskhive/internal/domain/plan"
	"github.com/deskhive/deskhive/internal/domain/proration"
	"github.com/deskhive/deskhive/internal/domain/subscription"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/testutil"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentService
	params  ServiceParams
	sub     *subscription.Subscription
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
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
	s.service = NewPaymentService(s.params)

	start := time.Now().UTC()
	sub, err := subscription.New(s.GetContext(), "cust_1", "plan_1",
		start, start.AddDate(0, 0, 30), decimal.NewFromInt(6000), "usd",
		types.PaymentTypeInstallment, types.SubscriptionStatusActive)
	s.NoError(err)
	s.NoError(s.params.SubRepo.Create(s.GetContext(), sub))
	s.sub = sub

	schedule := payment.NewSchedule(s.GetContext(), sub.ID, "usd",
		types.PaymentTypeInstallment, decimal.NewFromInt(2000), decimal.NewFromInt(2000), 3, start)
	s.NoError(s.params.PaymentRepo.CreateBulk(s.GetContext(), schedule))
}

func (s *PaymentServiceSuite) TestGetPaymentsBySubscription() {
	resp, err := s.service.GetPaymentsBySubscription(s.GetContext(), s.sub.ID)
	s.NoError(err)
	s.Len(resp.Items, 3)
	s.True(resp.Progress.TotalAmount.Equal(decimal.NewFromInt(6000)))
	s.True(resp.Progress.PaidAmount.IsZero())
	s.True(resp.Progress.Percent.IsZero())
}

func (s *PaymentServiceSuite) TestMarkPaymentPaidUpdatesProgress() {
	list, err := s.service.GetPaymentsBySubscription(s.GetContext(), s.sub.ID)
	s.NoError(err)

	paid, err := s.service.MarkPaymentPaid(s.GetContext(), list.Items[0].ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, paid.PaymentStatus)
	s.NotNil(paid.PaidAt)

	resp, err := s.service.GetPaymentsBySubscription(s.GetContext(), s.sub.ID)
	s.NoError(err)
	s.True(resp.Progress.PaidAmount.Equal(decimal.NewFromInt(2000)))
	s.Equal("33.33", resp.Progress.Percent.String())
}

func (s *PaymentServiceSuite) TestMarkPaymentPaidTwice() {
	list, err := s.service.GetPaymentsBySubscription(s.GetContext(), s.sub.ID)
	s.NoError(err)

	_, err = s.service.MarkPaymentPaid(s.GetContext(), list.Items[0].ID)
	s.NoError(err)

	_, err = s.service.MarkPaymentPaid(s.GetContext(), list.Items[0].ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestMarkOverduePayments() {
	list, err := s.service.GetPaymentsBySubscription(s.GetContext(), s.sub.ID)
	s.NoError(err)

	// Pull the first due date into the past
	p, err := s.params.PaymentRepo.Get(s.GetContext(), list.Items[0].ID)
	s.NoError(err)
	p.DueDate = time.Now().UTC().AddDate(0, 0, -2)
	s.NoError(s.params.PaymentRepo.Update(s.GetContext(), p))

	marked, err := s.service.MarkOverduePayments(s.GetContext())
	s.NoError(err)
	s.Equal(1, marked)

	updated, err := s.params.PaymentRepo.Get(s.GetContext(), p.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusOverdue, updated.PaymentStatus)
}
