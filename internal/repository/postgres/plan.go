package postgres

import (
	"context"

	"github.com/deskhive/deskhive/internal/domain/plan"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/postgres"
	"github.com/deskhive/deskhive/internal/types"
)

type planRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return &planRepository{db: db, logger: logger}
}

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO plans (
			id,
			name,
			lookup_key,
			description,
			price,
			currency,
			duration_days,
			installment_allowed,
			installment_months,
			installment_amount,
			locker_included,
			dedicated_support,
			meeting_room_hours,
			print_page_limit,
			tenant_id,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:name,
			:lookup_key,
			:description,
			:price,
			:currency,
			:duration_days,
			:installment_allowed,
			:installment_months,
			:installment_amount,
			:locker_included,
			:dedicated_support,
			:meeting_room_hours,
			:print_page_limit,
			:tenant_id,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create plan").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	query := `
		SELECT * FROM plans
		WHERE
			id = :id AND
			tenant_id = :tenant_id AND
			status != :deleted
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"id":        id,
		"tenant_id": types.GetTenantID(ctx),
		"deleted":   types.StatusDeleted,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("plan not found").
			WithHintf("Plan with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	var p plan.Plan
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan plan").
			Mark(ierr.ErrDatabase)
	}

	return &p, nil
}

func (r *planRepository) GetByLookupKey(ctx context.Context, lookupKey string) (*plan.Plan, error) {
	query := `
		SELECT * FROM plans
		WHERE
			lookup_key = :lookup_key AND
			tenant_id = :tenant_id AND
			status != :deleted
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"lookup_key": lookupKey,
		"tenant_id":  types.GetTenantID(ctx),
		"deleted":    types.StatusDeleted,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan by lookup key").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("plan not found").
			WithHintf("Plan with lookup key %s was not found", lookupKey).
			Mark(ierr.ErrNotFound)
	}

	var p plan.Plan
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan plan").
			Mark(ierr.ErrDatabase)
	}

	return &p, nil
}

func (r *planRepository) List(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	query := `
		SELECT * FROM plans
		WHERE
			tenant_id = :tenant_id AND
			status != :deleted
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"deleted":   types.StatusDeleted,
		"limit":     limitArg(filter),
		"offset":    filter.GetOffset(),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plans").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		var p plan.Plan
		if err := rows.StructScan(&p); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan plan").
				Mark(ierr.ErrDatabase)
		}
		plans = append(plans, &p)
	}

	return plans, nil
}

func (r *planRepository) Count(ctx context.Context, filter *types.PlanFilter) (int, error) {
	query := `
		SELECT COUNT(*) FROM plans
		WHERE
			tenant_id = :tenant_id AND
			status != :deleted
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"deleted":   types.StatusDeleted,
	})
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count plans").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to scan plan count").
				Mark(ierr.ErrDatabase)
		}
	}

	return count, nil
}

func (r *planRepository) Update(ctx context.Context, p *plan.Plan) error {
	query := `
		UPDATE plans SET
			name = :name,
			description = :description,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update plan").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE plans SET
			status = :deleted,
			updated_at = NOW()
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	if _, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":        id,
		"tenant_id": types.GetTenantID(ctx),
		"deleted":   types.StatusDeleted,
	}); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete plan").
			Mark(ierr.ErrDatabase)
	}

	return nil
}
