package service

import (
	"context"

	"github.com/deskhive/deskhive/internal/api/dto"
	cardDomain "github.com/deskhive/deskhive/internal/domain/accesscard"
	"github.com/samber/lo"
)

type AccessCardService interface {
	GetAccessCard(ctx context.Context, id string) (*dto.AccessCardResponse, error)
	GetAccessCardBySubscription(ctx context.Context, subscriptionID string) (*dto.AccessCardResponse, error)
	GetAccessCardsByCustomer(ctx context.Context, customerID string) ([]*dto.AccessCardResponse, error)
}

type accessCardService struct {
	ServiceParams
}

func NewAccessCardService(params ServiceParams) AccessCardService {
	return &accessCardService{ServiceParams: params}
}

func (s *accessCardService) GetAccessCard(ctx context.Context, id string) (*dto.AccessCardResponse, error) {
	card, err := s.AccessCardRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.AccessCardResponse{AccessCard: card}, nil
}

func (s *accessCardService) GetAccessCardBySubscription(ctx context.Context, subscriptionID string) (*dto.AccessCardResponse, error) {
	card, err := s.AccessCardRepo.GetBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return &dto.AccessCardResponse{AccessCard: card}, nil
}

func (s *accessCardService) GetAccessCardsByCustomer(ctx context.Context, customerID string) ([]*dto.AccessCardResponse, error) {
	cards, err := s.AccessCardRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return lo.Map(cards, func(c *cardDomain.AccessCard, _ int) *dto.AccessCardResponse {
		return &dto.AccessCardResponse{AccessCard: c}
	}), nil
}
