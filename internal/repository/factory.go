package repository

import (
	"github.com/deskhive/deskhive/internal/domain/accesscard"
	"github.com/deskhive/deskhive/internal/domain/payment"
	"github.com/deskhive/deskhive/internal/domain/plan"
	"github.com/deskhive/deskhive/internal/domain/subscription"
	"github.com/deskhive/deskhive/internal/domain/wallet"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/postgres"
	postgresRepo "github.com/deskhive/deskhive/internal/repository/postgres"
)

func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return postgresRepo.NewPlanRepository(db, logger)
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(db, logger)
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return postgresRepo.NewPaymentRepository(db, logger)
}

func NewAccessCardRepository(db *postgres.DB, logger *logger.Logger) accesscard.Repository {
	return postgresRepo.NewAccessCardRepository(db, logger)
}

func NewWalletRepository(db *postgres.DB, logger *logger.Logger) wallet.Repository {
	return postgresRepo.NewWalletRepository(db, logger)
}
