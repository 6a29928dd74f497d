package postgres

import (
	"context"

	"github.com/deskhive/deskhive/internal/domain/accesscard"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/postgres"
	"github.com/deskhive/deskhive/internal/types"
)

type accessCardRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAccessCardRepository(db *postgres.DB, logger *logger.Logger) accesscard.Repository {
	return &accessCardRepository{db: db, logger: logger}
}

func (r *accessCardRepository) Create(ctx context.Context, card *accesscard.AccessCard) error {
	query := `
		INSERT INTO access_cards (
			id,
			subscription_id,
			customer_id,
			card_number,
			valid_until,
			qr_payload,
			active,
			tenant_id,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:subscription_id,
			:customer_id,
			:card_number,
			:valid_until,
			:qr_payload,
			:active,
			:tenant_id,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, card); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create access card").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *accessCardRepository) Get(ctx context.Context, id string) (*accesscard.AccessCard, error) {
	query := `
		SELECT * FROM access_cards
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
			WithHint("Failed to get access card").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("access card not found").
			WithHintf("Access card with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	var card accesscard.AccessCard
	if err := rows.StructScan(&card); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan access card").
			Mark(ierr.ErrDatabase)
	}

	return &card, nil
}

func (r *accessCardRepository) GetBySubscription(ctx context.Context, subscriptionID string) (*accesscard.AccessCard, error) {
	query := `
		SELECT * FROM access_cards
		WHERE
			subscription_id = :subscription_id AND
			tenant_id = :tenant_id
		ORDER BY created_at DESC
		LIMIT 1
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"subscription_id": subscriptionID,
		"tenant_id":       types.GetTenantID(ctx),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get access card").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("access card not found").
			WithHintf("No access card found for subscription %s", subscriptionID).
			Mark(ierr.ErrNotFound)
	}

	var card accesscard.AccessCard
	if err := rows.StructScan(&card); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan access card").
			Mark(ierr.ErrDatabase)
	}

	return &card, nil
}

func (r *accessCardRepository) ListByCustomer(ctx context.Context, customerID string) ([]*accesscard.AccessCard, error) {
	query := `
		SELECT * FROM access_cards
		WHERE
			customer_id = :customer_id AND
			tenant_id = :tenant_id
		ORDER BY created_at DESC
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"customer_id": customerID,
		"tenant_id":   types.GetTenantID(ctx),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list access cards").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var cards []*accesscard.AccessCard
	for rows.Next() {
		var card accesscard.AccessCard
		if err := rows.StructScan(&card); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan access card").
				Mark(ierr.ErrDatabase)
		}
		cards = append(cards, &card)
	}

	return cards, nil
}

func (r *accessCardRepository) Update(ctx context.Context, card *accesscard.AccessCard) error {
	query := `
		UPDATE access_cards SET
			valid_until = :valid_until,
			active = :active,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	if _, err := r.db.NamedExecContext(ctx, query, card); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update access card").
			Mark(ierr.ErrDatabase)
	}

	return nil
}
