package postgres

import (
	"context"
	"time"

	"github.com/deskhive/deskhive/internal/domain/subscription"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/postgres"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/jmoiron/sqlx"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id,
			customer_id,
			plan_id,
			subscription_status,
			start_date,
			end_date,
			total_amount,
			currency,
			payment_type,
			cancelled_at,
			cancellation_reason,
			checked_in_at,
			checked_out_at,
			tenant_id,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:customer_id,
			:plan_id,
			:subscription_status,
			:start_date,
			:end_date,
			:total_amount,
			:currency,
			:payment_type,
			:cancelled_at,
			:cancellation_reason,
			:checked_in_at,
			:checked_out_at,
			:tenant_id,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create subscription").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

// Get returns a subscription by id. Inside a transaction the row is locked
// so lifecycle transitions on the same subscription serialize.
func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	if _, inTx := postgres.GetTx(ctx); inTx {
		query += ` FOR UPDATE`
	}

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"id":        id,
		"tenant_id": types.GetTenantID(ctx),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	return scanOne(rows, id)
}

func (r *subscriptionRepository) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE
			tenant_id = :tenant_id AND
			(:customer_id = '' OR customer_id = :customer_id) AND
			(:plan_id = '' OR plan_id = :plan_id) AND
			(:subscription_status = '' OR subscription_status = :subscription_status)
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	subscriptionStatus := ""
	if filter.SubscriptionStatus != nil {
		subscriptionStatus = filter.SubscriptionStatus.String()
	}

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"tenant_id":           types.GetTenantID(ctx),
		"customer_id":         filter.CustomerID,
		"plan_id":             filter.PlanID,
		"subscription_status": subscriptionStatus,
		"limit":               limitArg(filter),
		"offset":              filter.GetOffset(),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscriptions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	return scanAll(rows)
}

func (r *subscriptionRepository) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	query := `
		SELECT COUNT(*) FROM subscriptions
		WHERE
			tenant_id = :tenant_id AND
			(:customer_id = '' OR customer_id = :customer_id) AND
			(:plan_id = '' OR plan_id = :plan_id)
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"tenant_id":   types.GetTenantID(ctx),
		"customer_id": filter.CustomerID,
		"plan_id":     filter.PlanID,
	})
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count subscriptions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to scan subscription count").
				Mark(ierr.ErrDatabase)
		}
	}

	return count, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		UPDATE subscriptions SET
			subscription_status = :subscription_status,
			start_date = :start_date,
			end_date = :end_date,
			cancelled_at = :cancelled_at,
			cancellation_reason = :cancellation_reason,
			checked_in_at = :checked_in_at,
			checked_out_at = :checked_out_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update subscription").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

// GetActiveByCustomer takes a row lock on the customer's active subscription
// so that a concurrent plan change cannot commit two active rows.
func (r *subscriptionRepository) GetActiveByCustomer(ctx context.Context, customerID string) (*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE
			customer_id = :customer_id AND
			tenant_id = :tenant_id AND
			subscription_status = :active
		ORDER BY end_date DESC
		LIMIT 1
	`

	if _, inTx := postgres.GetTx(ctx); inTx {
		query += ` FOR UPDATE`
	}

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"customer_id": customerID,
		"tenant_id":   types.GetTenantID(ctx),
		"active":      types.SubscriptionStatusActive,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get active subscription").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	return scanOne(rows, customerID)
}

func (r *subscriptionRepository) ListPendingDue(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE
			subscription_status = :pending AND
			start_date <= :now
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"pending": types.SubscriptionStatusPending,
		"now":     now,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list due pending subscriptions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	return scanAll(rows)
}

func (r *subscriptionRepository) ListActivePastEnd(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE
			subscription_status = :active AND
			end_date < :now
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"active": types.SubscriptionStatusActive,
		"now":    now,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list expired active subscriptions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	return scanAll(rows)
}

func scanOne(rows *sqlx.Rows, id string) (*subscription.Subscription, error) {
	if !rows.Next() {
		return nil, ierr.NewError("subscription not found").
			WithHintf("No subscription found for %s", id).
			Mark(ierr.ErrNotFound)
	}

	var sub subscription.Subscription
	if err := rows.StructScan(&sub); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan subscription").
			Mark(ierr.ErrDatabase)
	}

	return &sub, nil
}

func scanAll(rows *sqlx.Rows) ([]*subscription.Subscription, error) {
	var subs []*subscription.Subscription
	for rows.Next() {
		var sub subscription.Subscription
		if err := rows.StructScan(&sub); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan subscription").
				Mark(ierr.ErrDatabase)
		}
		subs = append(subs, &sub)
	}
	return subs, nil
}
