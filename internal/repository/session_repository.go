package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// sessionPrefix namespaces session-scoped keys.
const sessionPrefix = "session"

type checkoutStateRepository struct {
	store  redisStore
	logger zerolog.Logger
}

// NewCheckoutStateRepository creates a Redis-backed checkout state store.
// Entries expire ttl after the last save.
func NewCheckoutStateRepository(client *redis.Client, ttl time.Duration, logger zerolog.Logger) CheckoutStateRepository {
	return &checkoutStateRepository{
		store:  redisStore{client: client, prefix: sessionPrefix, ttl: ttl},
		logger: logger.With().Str("repository", "checkout-state").Logger(),
	}
}

// Load returns the session's checkout state, or nil when none is stored.
func (r *checkoutStateRepository) Load(ctx context.Context, sessionID string) (*model.CheckoutState, error) {
	var state model.CheckoutState
	found, err := r.store.getJSON(ctx, sessionID, CheckoutStateKey, &state)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load checkout state")
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &state, nil
}

// Save replaces the session's checkout state.
func (r *checkoutStateRepository) Save(ctx context.Context, sessionID string, state *model.CheckoutState) error {
	if err := r.store.setJSON(ctx, sessionID, CheckoutStateKey, state); err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to save checkout state")
		return err
	}
	r.logger.Debug().
		Str("session_id", sessionID).
		Str("step", string(state.CurrentStep)).
		Msg("checkout state saved")
	return nil
}

// Delete removes the session's checkout state.
func (r *checkoutStateRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, sessionID, CheckoutStateKey)
}

type cartSessionRepository struct {
	store  redisStore
	logger zerolog.Logger
}

// NewCartSessionRepository creates a Redis-backed store for the session cart ID.
func NewCartSessionRepository(client *redis.Client, ttl time.Duration, logger zerolog.Logger) CartSessionRepository {
	return &cartSessionRepository{
		store:  redisStore{client: client, prefix: sessionPrefix, ttl: ttl},
		logger: logger.With().Str("repository", "cart-session").Logger(),
	}
}

// GetCartID returns the session's cart ID, or "" when none is stored.
func (r *cartSessionRepository) GetCartID(ctx context.Context, sessionID string) (string, error) {
	cartID, err := r.store.client.Get(ctx, r.store.key(sessionID, CartIDKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to read cart id")
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return cartID, nil
}

// SetCartID stores the session's cart ID.
func (r *cartSessionRepository) SetCartID(ctx context.Context, sessionID, cartID string) error {
	if err := r.store.client.Set(ctx, r.store.key(sessionID, CartIDKey), cartID, r.store.ttl).Err(); err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to store cart id")
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ClearCartID forgets the session's cart.
func (r *cartSessionRepository) ClearCartID(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, sessionID, CartIDKey)
}

type enrollmentRepository struct {
	store  redisStore
	logger zerolog.Logger
}

// NewEnrollmentRepository creates a Redis-backed MFA wizard store.
func NewEnrollmentRepository(client *redis.Client, ttl time.Duration, logger zerolog.Logger) EnrollmentRepository {
	return &enrollmentRepository{
		store:  redisStore{client: client, prefix: sessionPrefix, ttl: ttl},
		logger: logger.With().Str("repository", "mfa-enrollment").Logger(),
	}
}

// Load returns the session's wizard, or nil when none is stored.
func (r *enrollmentRepository) Load(ctx context.Context, sessionID string) (*model.MFAWizard, error) {
	var wizard model.MFAWizard
	found, err := r.store.getJSON(ctx, sessionID, EnrollmentKey, &wizard)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load enrollment wizard")
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &wizard, nil
}

// Save replaces the session's wizard.
func (r *enrollmentRepository) Save(ctx context.Context, sessionID string, wizard *model.MFAWizard) error {
	return r.store.setJSON(ctx, sessionID, EnrollmentKey, wizard)
}

// Delete removes the session's wizard.
func (r *enrollmentRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, sessionID, EnrollmentKey)
}
