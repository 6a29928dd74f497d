package service

import (
	"github.com/deskhive/deskhive/internal/cache"
	"github.com/deskhive/deskhive/internal/config"
	"github.com/deskhive/deskhive/internal/domain/accesscard"
	"github.com/deskhive/deskhive/internal/domain/payment"
	"github.com/deskhive/deskhive/internal/domain/plan"
	"github.com/deskhive/deskhive/internal/domain/proration"
	"github.com/deskhive/deskhive/internal/domain/subscription"
	"github.com/deskhive/deskhive/internal/domain/wallet"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Cache holds read-heavy lookups, keyed per tenant
	Cache cache.Cache

	// TierList is the canonical plan tier ordering used for change
	// classification
	TierList plan.TierList

	// ProrationCalculator computes residual value and net due on plan changes
	ProrationCalculator proration.Calculator

	// Repositories
	PlanRepo       plan.Repository
	SubRepo        subscription.Repository
	PaymentRepo    payment.Repository
	AccessCardRepo accesscard.Repository
	WalletRepo     wallet.Repository
}

// NewServiceParams assembles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *postgres.DB,
	cacheClient cache.Cache,
	planRepo plan.Repository,
	subRepo subscription.Repository,
	paymentRepo payment.Repository,
	accessCardRepo accesscard.Repository,
	walletRepo wallet.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:              logger,
		Config:              config,
		DB:                  db,
		Cache:               cacheClient,
		TierList:            plan.DefaultTierList(),
		ProrationCalculator: proration.NewCalculator(),
		PlanRepo:            planRepo,
		SubRepo:             subRepo,
		PaymentRepo:         paymentRepo,
		AccessCardRepo:      accessCardRepo,
		WalletRepo:          walletRepo,
	}
}
