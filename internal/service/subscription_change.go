package service

import (
	"context"
	"time"

	"github.com/deskhive/deskhive/internal/api/dto"
	"github.com/deskhive/deskhive/internal/domain/accesscard"
	"github.com/deskhive/deskhive/internal/domain/payment"
	planDomain "github.com/deskhive/deskhive/internal/domain/plan"
	"github.com/deskhive/deskhive/internal/domain/proration"
	"github.com/deskhive/deskhive/internal/domain/subscription"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/shopspring/decimal"
)

// SubscriptionChangeService handles moving a customer between plans. A change
// supersedes the current subscription with a new one; the residual value of
// the old period is credited against the new plan's first charge.
type SubscriptionChangeService interface {
	PreviewChange(ctx context.Context, subscriptionID string, req dto.ChangePlanRequest) (*dto.ChangePlanResponse, error)
	ExecuteChange(ctx context.Context, subscriptionID string, req dto.ChangePlanRequest) (*dto.ChangePlanResponse, error)
}

type subscriptionChangeService struct {
	ServiceParams
}

func NewSubscriptionChangeService(params ServiceParams) SubscriptionChangeService {
	return &subscriptionChangeService{ServiceParams: params}
}

// changeQuote holds everything both preview and execute need.
type changeQuote struct {
	sub        *subscription.Subscription
	current    *planDomain.Plan
	target     *planDomain.Plan
	changeType types.PlanChangeType
	remaining  decimal.Decimal
	netDue     decimal.Decimal
	now        time.Time
}

func (s *subscriptionChangeService) quote(ctx context.Context, subscriptionID string, req dto.ChangePlanRequest) (*changeQuote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if sub.SubscriptionStatus != types.SubscriptionStatusActive &&
		sub.SubscriptionStatus != types.SubscriptionStatusPending {
		return nil, ierr.NewError("subscription cannot change plans").
			WithHintf("Cannot change plans on a %s subscription", sub.SubscriptionStatus).
			WithReportableDetails(map[string]any{
				"subscription_id": sub.ID,
				"status":          sub.SubscriptionStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	current, err := s.PlanRepo.Get(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}

	target, err := s.PlanRepo.Get(ctx, req.TargetPlanID)
	if err != nil {
		return nil, err
	}

	if req.PaymentType == types.PaymentTypeInstallment && !target.InstallmentAllowed {
		return nil, ierr.NewError("target plan does not allow installment payment").
			WithHint("This plan must be paid in full").
			WithReportableDetails(map[string]any{
				"plan_id": target.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	now := time.Now().UTC()
	changeType := s.TierList.Classify(current.DurationDays, target.DurationDays)

	result, err := s.ProrationCalculator.Calculate(ctx, proration.ProrationParams{
		StartDate:        sub.StartDate,
		EndDate:          sub.EndDate,
		TotalAmount:      sub.TotalAmount,
		NewPlanAmountDue: target.AmountDue(req.PaymentType),
		ProrationDate:    now,
	})
	if err != nil {
		return nil, err
	}

	return &changeQuote{
		sub:        sub,
		current:    current,
		target:     target,
		changeType: changeType,
		remaining:  result.RemainingValue,
		netDue:     result.NetAmountDue,
		now:        now,
	}, nil
}

func (s *subscriptionChangeService) PreviewChange(ctx context.Context, subscriptionID string, req dto.ChangePlanRequest) (*dto.ChangePlanResponse, error) {
	q, err := s.quote(ctx, subscriptionID, req)
	if err != nil {
		return nil, err
	}

	resp := &dto.ChangePlanResponse{
		ChangeType:     q.changeType,
		RemainingValue: q.remaining,
		AmountDue:      q.netDue,
		Currency:       q.target.Currency,
	}
	if q.changeType == types.PlanChangeTypeCurrent {
		resp.AmountDue = decimal.Zero
	}
	return resp, nil
}

func (s *subscriptionChangeService) ExecuteChange(ctx context.Context, subscriptionID string, req dto.ChangePlanRequest) (*dto.ChangePlanResponse, error) {
	q, err := s.quote(ctx, subscriptionID, req)
	if err != nil {
		return nil, err
	}

	// Same tier is a no-op: nothing is cancelled, nothing is charged.
	if q.changeType == types.PlanChangeTypeCurrent {
		return &dto.ChangePlanResponse{
			ChangeType:     q.changeType,
			RemainingValue: q.remaining,
			AmountDue:      decimal.Zero,
			Currency:       q.target.Currency,
		}, nil
	}

	w, err := s.WalletRepo.GetByCustomer(ctx, q.sub.CustomerID)
	if err != nil {
		return nil, err
	}
	if !w.CanCover(q.netDue) {
		return nil, ierr.NewError("insufficient wallet balance").
			WithHint("Top up the wallet before changing plans").
			WithReportableDetails(map[string]any{
				"balance":    w.Balance,
				"amount_due": q.netDue,
			}).
			Mark(ierr.ErrInsufficientBalance)
	}

	startDate := q.now
	status := types.SubscriptionStatusActive
	if req.StartType == types.SubscriptionStartTypeScheduled {
		startDate = req.StartDate.UTC()
		if !startDate.After(q.now) {
			return nil, ierr.NewError("scheduled start date must be in the future").
				WithHint("Use an immediate start for changes taking effect now").
				Mark(ierr.ErrValidation)
		}
		status = types.SubscriptionStatusPending
	}
	endDate := startDate.AddDate(0, 0, q.target.DurationDays)

	newSub, err := subscription.New(ctx, q.sub.CustomerID, q.target.ID, startDate, endDate,
		q.target.TotalAmount(req.PaymentType), q.target.Currency, req.PaymentType, status)
	if err != nil {
		return nil, err
	}

	reason := types.CancellationReasonSupersededByUpgrade
	if q.changeType == types.PlanChangeTypeDowngrade {
		reason = types.CancellationReasonSupersededByDowngrade
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		// Re-read the target under a row lock so two concurrent changes
		// cannot both supersede the same subscription.
		locked, err := s.SubRepo.Get(ctx, q.sub.ID)
		if err != nil {
			return err
		}
		if locked.SubscriptionStatus != types.SubscriptionStatusActive &&
			locked.SubscriptionStatus != types.SubscriptionStatusPending {
			return ierr.NewError("subscription changed concurrently").
				WithHint("The subscription was replaced by another change, retry against the current one").
				WithReportableDetails(map[string]any{
					"subscription_id": locked.ID,
					"status":          locked.SubscriptionStatus,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		// A pending target does not hold the customer's active slot, so an
		// immediate change must not create a second active subscription.
		if status == types.SubscriptionStatusActive &&
			locked.SubscriptionStatus == types.SubscriptionStatusPending {
			existing, err := s.SubRepo.GetActiveByCustomer(ctx, q.sub.CustomerID)
			if err != nil && !ierr.IsNotFound(err) {
				return err
			}
			if existing != nil && existing.ID != locked.ID {
				return ierr.NewError("customer already has an active subscription").
					WithHint("Change the active subscription instead").
					WithReportableDetails(map[string]any{
						"subscription_id": existing.ID,
					}).
					Mark(ierr.ErrAlreadyExists)
			}
		}

		if err := locked.Cancel(q.now, reason); err != nil {
			return err
		}
		if err := s.SubRepo.Update(ctx, locked); err != nil {
			return err
		}
		if err := s.deactivateCardForChange(ctx, locked.ID, q.now); err != nil {
			return err
		}

		if err := s.SubRepo.Create(ctx, newSub); err != nil {
			return err
		}

		schedule := payment.NewSchedule(ctx, newSub.ID, newSub.Currency, req.PaymentType,
			q.netDue, q.target.InstallmentAmount, q.target.InstallmentMonths, startDate)
		if q.netDue.IsZero() && len(schedule) > 0 {
			// The residual credit fully covered the first charge.
			schedule[0].MarkPaid(q.now)
		}
		if err := s.PaymentRepo.CreateBulk(ctx, schedule); err != nil {
			return err
		}

		if status == types.SubscriptionStatusActive {
			card := accesscard.New(ctx, newSub.ID, newSub.CustomerID, newSub.EndDate)
			if err := s.AccessCardRepo.Create(ctx, card); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("executed plan change",
		"change_type", q.changeType,
		"old_subscription_id", q.sub.ID,
		"new_subscription_id", newSub.ID,
		"remaining_value", q.remaining,
		"amount_due", q.netDue)

	return &dto.ChangePlanResponse{
		ChangeType:              q.changeType,
		RemainingValue:          q.remaining,
		AmountDue:               q.netDue,
		Currency:                q.target.Currency,
		NewSubscription:         &dto.SubscriptionResponse{Subscription: newSub},
		CancelledSubscriptionID: q.sub.ID,
	}, nil
}

func (s *subscriptionChangeService) deactivateCardForChange(ctx context.Context, subscriptionID string, now time.Time) error {
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
