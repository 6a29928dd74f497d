package service

import (
	"context"
	"time"

	"github.com/deskhive/deskhive/internal/api/dto"
	paymentDomain "github.com/deskhive/deskhive/internal/domain/payment"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/samber/lo"
)

type PaymentService interface {
	GetPaymentsBySubscription(ctx context.Context, subscriptionID string) (*dto.ListPaymentsResponse, error)

	// MarkPaymentPaid is called on behalf of the external payment processor
	// when a charge is confirmed.
	MarkPaymentPaid(ctx context.Context, id string) (*dto.PaymentResponse, error)

	// MarkOverduePayments flips pending payments past their due date to
	// overdue. Driven by the external scheduler.
	MarkOverduePayments(ctx context.Context) (int, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

func (s *paymentService) GetPaymentsBySubscription(ctx context.Context, subscriptionID string) (*dto.ListPaymentsResponse, error) {
	if _, err := s.SubRepo.Get(ctx, subscriptionID); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	items := lo.Map(payments, func(p *paymentDomain.Payment, _ int) *dto.PaymentResponse {
		return &dto.PaymentResponse{Payment: p}
	})

	return &dto.ListPaymentsResponse{
		Items:    items,
		Progress: dto.NewPaymentProgress(payments),
	}, nil
}

func (s *paymentService) MarkPaymentPaid(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.PaymentStatus == types.PaymentStatusPaid {
		return nil, ierr.NewError("payment is already paid").
			WithHint("The payment has already been confirmed").
			WithReportableDetails(map[string]any{
				"payment_id": p.ID,
				"paid_at":    p.PaidAt,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	p.MarkPaid(time.Now().UTC())
	if err := s.PaymentRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("marked payment paid",
		"payment_id", p.ID,
		"subscription_id", p.SubscriptionID,
		"amount", p.Amount)

	return &dto.PaymentResponse{Payment: p}, nil
}

func (s *paymentService) MarkOverduePayments(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	pastDue, err := s.PaymentRepo.ListPendingPastDue(ctx, now)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, p := range pastDue {
		p.MarkOverdue(now)
		if err := s.PaymentRepo.Update(ctx, p); err != nil {
			s.Logger.Errorw("failed to mark payment overdue",
				"payment_id", p.ID,
				"error", err)
			continue
		}
		marked++
	}

	return marked, nil
}
