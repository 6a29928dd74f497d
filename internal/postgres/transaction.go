package postgres

import (
	"context"

	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/jmoiron/sqlx"
)

// IClient is the transaction-scoping interface services depend on. The
// engine decides what to write; this boundary makes the writes atomic.
type IClient interface {
	// WithTx wraps the given function in a transaction carried through the
	// context. Nested calls join the existing transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// WithTx implements IClient for DB
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := GetTx(ctx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to begin transaction").
			Mark(ierr.ErrDatabase)
	}

	txCtx := context.WithValue(ctx, types.CtxDBTransaction, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Errorw("failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit transaction").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

// GetTx returns the transaction from context if it exists
func GetTx(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(types.CtxDBTransaction).(*sqlx.Tx)
	return tx, ok
}
