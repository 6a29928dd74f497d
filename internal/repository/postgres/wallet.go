package postgres

import (
	"context"

	"github.com/deskhive/deskhive/internal/domain/wallet"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/postgres"
	"github.com/deskhive/deskhive/internal/types"
)

type walletRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewWalletRepository(db *postgres.DB, logger *logger.Logger) wallet.Repository {
	return &walletRepository{db: db, logger: logger}
}

func (r *walletRepository) GetByCustomer(ctx context.Context, customerID string) (*wallet.Wallet, error) {
	query := `
		SELECT * FROM wallets
		WHERE
			customer_id = :customer_id AND
			tenant_id = :tenant_id
		LIMIT 1
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"customer_id": customerID,
		"tenant_id":   types.GetTenantID(ctx),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get wallet").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("wallet not found").
			WithHintf("No wallet found for customer %s", customerID).
			Mark(ierr.ErrNotFound)
	}

	var w wallet.Wallet
	if err := rows.StructScan(&w); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan wallet").
			Mark(ierr.ErrDatabase)
	}

	return &w, nil
}
