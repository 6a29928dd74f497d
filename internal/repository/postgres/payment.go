package postgres

import (
	"context"
	"time"

	"github.com/deskhive/deskhive/internal/domain/payment"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/postgres"
	"github.com/deskhive/deskhive/internal/types"
)

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

const insertPaymentQuery = `
	INSERT INTO payments (
		id,
		subscription_id,
		amount,
		currency,
		due_date,
		payment_status,
		installment_sequence,
		paid_at,
		tenant_id,
		status,
		created_at,
		updated_at,
		created_by,
		updated_by
	) VALUES (
		:id,
		:subscription_id,
		:amount,
		:currency,
		:due_date,
		:payment_status,
		:installment_sequence,
		:paid_at,
		:tenant_id,
		:status,
		:created_at,
		:updated_at,
		:created_by,
		:updated_by
	)
`

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if _, err := r.db.NamedExecContext(ctx, insertPaymentQuery, p); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) CreateBulk(ctx context.Context, payments []*payment.Payment) error {
	for _, p := range payments {
		if err := r.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	query := `
		SELECT * FROM payments
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"id":        id,
		"tenant_id": types.GetTenantID(ctx),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("payment not found").
			WithHintf("Payment with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	var p payment.Payment
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan payment").
			Mark(ierr.ErrDatabase)
	}

	return &p, nil
}

func (r *paymentRepository) ListBySubscription(ctx context.Context, subscriptionID string) ([]*payment.Payment, error) {
	query := `
		SELECT * FROM payments
		WHERE
			subscription_id = :subscription_id AND
			tenant_id = :tenant_id
		ORDER BY installment_sequence ASC, due_date ASC
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"subscription_id": subscriptionID,
		"tenant_id":       types.GetTenantID(ctx),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var payments []*payment.Payment
	for rows.Next() {
		var p payment.Payment
		if err := rows.StructScan(&p); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan payment").
				Mark(ierr.ErrDatabase)
		}
		payments = append(payments, &p)
	}

	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	query := `
		UPDATE payments SET
			payment_status = :payment_status,
			paid_at = :paid_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update payment").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *paymentRepository) ListPendingPastDue(ctx context.Context, now time.Time) ([]*payment.Payment, error) {
	query := `
		SELECT * FROM payments
		WHERE
			payment_status = :pending AND
			due_date < :now
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"pending": types.PaymentStatusPending,
		"now":     now,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list overdue payments").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var payments []*payment.Payment
	for rows.Next() {
		var p payment.Payment
		if err := rows.StructScan(&p); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan payment").
				Mark(ierr.ErrDatabase)
		}
		payments = append(payments, &p)
	}

	return payments, nil
}
