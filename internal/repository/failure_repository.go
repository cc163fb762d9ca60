package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// failureRepository implements the FailureRepository interface using PostgreSQL.
type failureRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewFailureRepository creates a new PostgreSQL-backed recovery ledger.
func NewFailureRepository(pool *pgxpool.Pool, logger zerolog.Logger) FailureRepository {
	return &failureRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "subscription-failure").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *failureRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateFailure inserts a failure record within the provided transaction.
func (r *failureRepository) CreateFailure(ctx context.Context, tx pgx.Tx, failure *model.SubscriptionFailure) error {
	query := `
		INSERT INTO subscription_failures (
			id, order_id, customer_id, customer_email, order_total, currency_code,
			error_message, recovery_instructions, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query,
		failure.ID,
		failure.OrderID,
		failure.CustomerID,
		failure.CustomerEmail,
		failure.OrderTotal,
		failure.CurrencyCode,
		failure.ErrorMessage,
		failure.RecoveryInstructions,
		failure.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", failure.OrderID).
			Msg("failed to create subscription failure")
		return fmt.Errorf("failed to create subscription failure: %w", err)
	}

	r.logger.Debug().
		Str("failure_id", failure.ID.String()).
		Str("order_id", failure.OrderID).
		Msg("subscription failure recorded")

	return nil
}

// CreateFailureItems inserts the failure's subscription items within the provided transaction.
func (r *failureRepository) CreateFailureItems(ctx context.Context, tx pgx.Tx, items []model.SubscriptionFailureItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO subscription_failure_items (id, failure_id, variant_id, product_id, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.FailureID, item.VariantID, item.ProductID, item.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("failure_id", items[i].FailureID.String()).
				Str("variant_id", items[i].VariantID).
				Msg("failed to create subscription failure item")
			return fmt.Errorf("failed to create subscription failure item: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a failure with its items. Returns nil when not found.
func (r *failureRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SubscriptionFailure, error) {
	query := `
		SELECT id, order_id, customer_id, customer_email, order_total, currency_code,
			error_message, recovery_instructions, created_at, resolved_at
		FROM subscription_failures
		WHERE id = $1
	`

	failure, err := scanFailure(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("failure_id", id.String()).Msg("subscription failure not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("failure_id", id.String()).Msg("failed to query subscription failure")
		return nil, fmt.Errorf("failed to query subscription failure: %w", err)
	}

	itemsQuery := `
		SELECT id, failure_id, variant_id, product_id, quantity
		FROM subscription_failure_items
		WHERE failure_id = $1
		ORDER BY variant_id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("failure_id", id.String()).Msg("failed to query failure items")
		return nil, fmt.Errorf("failed to query failure items: %w", err)
	}
	defer rows.Close()

	failure.Items = []model.SubscriptionFailureItem{}
	for rows.Next() {
		var item model.SubscriptionFailureItem
		if err := rows.Scan(&item.ID, &item.FailureID, &item.VariantID, &item.ProductID, &item.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan failure item row")
			return nil, fmt.Errorf("failed to scan failure item: %w", err)
		}
		failure.Items = append(failure.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating failure item rows")
		return nil, fmt.Errorf("error iterating failure items: %w", err)
	}

	return failure, nil
}

// List retrieves failures newest first with pagination support. Items are not loaded.
func (r *failureRepository) List(ctx context.Context, limit, offset int, unresolvedOnly bool) ([]model.SubscriptionFailure, error) {
	query := `
		SELECT id, order_id, customer_id, customer_email, order_total, currency_code,
			error_message, recovery_instructions, created_at, resolved_at
		FROM subscription_failures
		WHERE ($3 = FALSE OR resolved_at IS NULL)
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset, unresolvedOnly)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to list subscription failures")
		return nil, fmt.Errorf("failed to list subscription failures: %w", err)
	}
	defer rows.Close()

	failures := []model.SubscriptionFailure{}
	for rows.Next() {
		failure, err := scanFailure(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan subscription failure row")
			return nil, fmt.Errorf("failed to scan subscription failure: %w", err)
		}
		failures = append(failures, *failure)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription failures: %w", err)
	}

	return failures, nil
}

// MarkResolved stamps a failure as resolved. Returns false when not found.
func (r *failureRepository) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscription_failures SET resolved_at = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("failure_id", id.String()).Msg("failed to resolve subscription failure")
		return false, fmt.Errorf("failed to resolve subscription failure: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanFailure(row pgx.Row) (*model.SubscriptionFailure, error) {
	var f model.SubscriptionFailure
	err := row.Scan(
		&f.ID,
		&f.OrderID,
		&f.CustomerID,
		&f.CustomerEmail,
		&f.OrderTotal,
		&f.CurrencyCode,
		&f.ErrorMessage,
		&f.RecoveryInstructions,
		&f.CreatedAt,
		&f.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
