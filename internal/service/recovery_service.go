package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultFailureLimit = 50
	maxFailureLimit     = 200
)

// recoveryService implements RecoveryService.
type recoveryService struct {
	failureRepo repository.FailureRepository
	now         func() time.Time
	logger      zerolog.Logger
}

// NewRecoveryService creates a new recovery ledger service.
func NewRecoveryService(failureRepo repository.FailureRepository, logger zerolog.Logger) RecoveryService {
	return &recoveryService{
		failureRepo: failureRepo,
		now:         time.Now,
		logger:      logger.With().Str("service", "recovery").Logger(),
	}
}

// Record stores a failure with its items in one transaction.
func (s *recoveryService) Record(ctx context.Context, failure *model.SubscriptionFailure) (err error) {
	tx, err := s.failureRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to record failure: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.failureRepo.CreateFailure(ctx, tx, failure); err != nil {
		return fmt.Errorf("failed to record failure: %w", err)
	}

	if err = s.failureRepo.CreateFailureItems(ctx, tx, failure.Items); err != nil {
		return fmt.Errorf("failed to record failure items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("failure_id", failure.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to record failure: %w", err)
	}

	s.logger.Info().
		Str("failure_id", failure.ID.String()).
		Str("order_id", failure.OrderID).
		Int("item_count", len(failure.Items)).
		Msg("subscription failure recorded")

	return nil
}

// List returns failures newest first. Limits are clamped to a sane page size.
func (s *recoveryService) List(ctx context.Context, limit, offset int, unresolvedOnly bool) ([]model.SubscriptionFailure, error) {
	if limit <= 0 {
		limit = defaultFailureLimit
	}
	if limit > maxFailureLimit {
		limit = maxFailureLimit
	}
	if offset < 0 {
		offset = 0
	}

	failures, err := s.failureRepo.List(ctx, limit, offset, unresolvedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list failures: %w", err)
	}
	return failures, nil
}

// Get returns a single failure with its items.
func (s *recoveryService) Get(ctx context.Context, id uuid.UUID) (*model.SubscriptionFailure, error) {
	failure, err := s.failureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get failure: %w", err)
	}
	if failure == nil {
		return nil, model.ErrFailureNotFound
	}
	return failure, nil
}

// Resolve marks a failure as handled.
func (s *recoveryService) Resolve(ctx context.Context, id uuid.UUID) error {
	found, err := s.failureRepo.MarkResolved(ctx, id, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to resolve failure: %w", err)
	}
	if !found {
		return model.ErrFailureNotFound
	}

	s.logger.Info().Str("failure_id", id.String()).Msg("subscription failure resolved")

	return nil
}
