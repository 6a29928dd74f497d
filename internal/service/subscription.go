package service

import (
	"context"
	"time"

	"github.com/deskhive/deskhive/internal/api/dto"
	"github.com/deskhive/deskhive/internal/domain/accesscard"
	"github.com/deskhive/deskhive/internal/domain/payment"
	"github.com/deskhive/deskhive/internal/domain/subscription"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	GetSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error)
	GetCurrentSubscription(ctx context.Context, customerID string) (*dto.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, id string, req dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error)
	RenewSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	ReactivateSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	CheckIn(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	CheckOut(ctx context.Context, id string) (*dto.SubscriptionResponse, error)

	// Cron operations driven by the external scheduler
	ActivateDueSubscriptions(ctx context.Context) (int, error)
	ExpireOverdueSubscriptions(ctx context.Context) (int, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{ServiceParams: params}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	plan, err := s.PlanRepo.Get(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	if req.PaymentType == types.PaymentTypeInstallment && !plan.InstallmentAllowed {
		return nil, ierr.NewError("plan does not allow installment payment").
			WithHint("This plan must be paid in full").
			WithReportableDetails(map[string]any{
				"plan_id": plan.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	now := time.Now().UTC()
	startDate := now
	status := types.SubscriptionStatusActive
	if req.StartType == types.SubscriptionStartTypeScheduled {
		startDate = req.StartDate.UTC()
		if !startDate.After(now) {
			return nil, ierr.NewError("scheduled start date must be in the future").
				WithHint("Use an immediate start for subscriptions starting now").
				Mark(ierr.ErrValidation)
		}
		status = types.SubscriptionStatusPending
	}
	endDate := startDate.AddDate(0, 0, plan.DurationDays)

	if err := s.checkBalance(ctx, req.CustomerID, plan.AmountDue(req.PaymentType)); err != nil {
		return nil, err
	}

	sub, err := subscription.New(ctx, req.CustomerID, req.PlanID, startDate, endDate,
		plan.TotalAmount(req.PaymentType), plan.Currency, req.PaymentType, status)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.SubRepo.GetActiveByCustomer(ctx, req.CustomerID)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if existing != nil && status == types.SubscriptionStatusActive {
			return ierr.NewError("customer already has an active subscription").
				WithHint("Cancel or change the existing subscription first").
				WithReportableDetails(map[string]any{
					"subscription_id": existing.ID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}

		if err := s.SubRepo.Create(ctx, sub); err != nil {
			return err
		}

		schedule := payment.NewSchedule(ctx, sub.ID, sub.Currency, req.PaymentType,
			plan.AmountDue(req.PaymentType), plan.InstallmentAmount, plan.InstallmentMonths, startDate)
		if err := s.PaymentRepo.CreateBulk(ctx, schedule); err != nil {
			return err
		}

		if status == types.SubscriptionStatusActive {
			card := accesscard.New(ctx, sub.ID, sub.CustomerID, sub.EndDate)
			if err := s.AccessCardRepo.Create(ctx, card); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription",
		"subscription_id", sub.ID,
		"customer_id", sub.CustomerID,
		"plan_id", sub.PlanID,
		"status", sub.SubscriptionStatus)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error) {
	if filter == nil {
		filter = &types.SubscriptionFilter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	subs, err := s.SubRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.SubRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(subs, func(sub *subscription.Subscription, _ int) *dto.SubscriptionResponse {
		return &dto.SubscriptionResponse{Subscription: sub}
	})

	return &dto.ListSubscriptionsResponse{
		Items: items,
		Total: count,
	}, nil
}

func (s *subscriptionService) GetCurrentSubscription(ctx context.Context, customerID string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.GetActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, id string, req dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := sub.Cancel(now, req.Reason); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.SubRepo.Update(ctx, sub); err != nil {
			return err
		}
		return s.deactivateCard(ctx, sub.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("cancelled subscription",
		"subscription_id", sub.ID,
		"reason", req.Reason)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) RenewSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, err := s.PlanRepo.Get(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}

	amountDue := plan.AmountDue(sub.PaymentType)
	if err := s.checkBalance(ctx, sub.CustomerID, amountDue); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	renewalStart := sub.EndDate
	if now.After(renewalStart) {
		renewalStart = now
	}

	if err := sub.Renew(now, plan.DurationDays); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.SubRepo.Update(ctx, sub); err != nil {
			return err
		}

		schedule := payment.NewSchedule(ctx, sub.ID, sub.Currency, sub.PaymentType,
			amountDue, plan.InstallmentAmount, plan.InstallmentMonths, renewalStart)
		if err := s.PaymentRepo.CreateBulk(ctx, schedule); err != nil {
			return err
		}

		return s.extendCard(ctx, sub, now)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("renewed subscription",
		"subscription_id", sub.ID,
		"end_date", sub.EndDate)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) ReactivateSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	graceWindow := time.Duration(s.Config.Subscription.ReactivationGracePeriodDays) * 24 * time.Hour

	if err := sub.Reactivate(now, graceWindow); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.SubRepo.GetActiveByCustomer(ctx, sub.CustomerID)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if existing != nil && existing.ID != sub.ID {
			return ierr.NewError("customer already has an active subscription").
				WithHint("Cancel the current subscription before reactivating an old one").
				WithReportableDetails(map[string]any{
					"subscription_id": existing.ID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}

		if err := s.SubRepo.Update(ctx, sub); err != nil {
			return err
		}

		return s.extendCard(ctx, sub, now)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("reactivated subscription", "subscription_id", sub.ID)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) CheckIn(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sub.CheckIn(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) CheckOut(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sub.CheckOut(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

// ActivateDueSubscriptions flips pending subscriptions whose scheduled start
// date has arrived to active and issues their access cards.
func (s *subscriptionService) ActivateDueSubscriptions(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	due, err := s.SubRepo.ListPendingDue(ctx, now)
	if err != nil {
		return 0, err
	}

	activated := 0
	for _, sub := range due {
		err := s.DB.WithTx(ctx, func(ctx context.Context) error {
			if err := sub.Activate(now); err != nil {
				return err
			}
			if err := s.SubRepo.Update(ctx, sub); err != nil {
				return err
			}
			card := accesscard.New(ctx, sub.ID, sub.CustomerID, sub.EndDate)
			return s.AccessCardRepo.Create(ctx, card)
		})
		if err != nil {
			s.Logger.Errorw("failed to activate subscription",
				"subscription_id", sub.ID,
				"error", err)
			continue
		}
		activated++
	}

	return activated, nil
}

// ExpireOverdueSubscriptions flips active subscriptions past their end date
// to expired and deactivates their access cards.
func (s *subscriptionService) ExpireOverdueSubscriptions(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	overdue, err := s.SubRepo.ListActivePastEnd(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, sub := range overdue {
		err := s.DB.WithTx(ctx, func(ctx context.Context) error {
			if err := sub.Expire(now); err != nil {
				return err
			}
			if err := s.SubRepo.Update(ctx, sub); err != nil {
				return err
			}
			return s.deactivateCard(ctx, sub.ID, now)
		})
		if err != nil {
			s.Logger.Errorw("failed to expire subscription",
				"subscription_id", sub.ID,
				"error", err)
			continue
		}
		expired++
	}

	return expired, nil
}

// checkBalance compares the customer's wallet balance against the amount
// due. The wallet itself is never mutated here; debiting is the payment
// collaborator's job.
func (s *subscriptionService) checkBalance(ctx context.Context, customerID string, amountDue decimal.Decimal) error {
	w, err := s.WalletRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return err
	}

	if !w.CanCover(amountDue) {
		return ierr.NewError("insufficient wallet balance").
			WithHint("Top up the wallet before subscribing").
			WithReportableDetails(map[string]any{
				"balance":    w.Balance,
				"amount_due": amountDue,
			}).
			Mark(ierr.ErrInsufficientBalance)
	}

	return nil
}

func (s *subscriptionService) deactivateCard(ctx context.Context, subscriptionID string, now time.Time) error {
	card, err := s.AccessCardRepo.GetBySubscription(ctx, subscriptionID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil
		}
		return err
	}

	card.Deactivate(now)
	return s.AccessCardRepo.Update(ctx, card)
}

func (s *subscriptionService) extendCard(ctx context.Context, sub *subscription.Subscription, now time.Time) error {
	card, err := s.AccessCardRepo.GetBySubscription(ctx, sub.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			card = accesscard.New(ctx, sub.ID, sub.CustomerID, sub.EndDate)
			return s.AccessCardRepo.Create(ctx, card)
		}
		return err
	}

	card.ValidUntil = sub.EndDate
	card.Active = true
	card.UpdatedAt = now
	return s.AccessCardRepo.Update(ctx, card)
}
