package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// devicePrefix namespaces durable, per-browser keys.
const devicePrefix = "device"

type dismissalRepository struct {
	client *redis.Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewDismissalRepository creates a Redis-backed durable store for banner
// dismissals. Values are RFC 3339 expiry timestamps.
func NewDismissalRepository(client *redis.Client, logger zerolog.Logger) DismissalRepository {
	return &dismissalRepository{
		client: client,
		logger: logger.With().Str("repository", "dismissal").Logger(),
		now:    time.Now,
	}
}

func (r *dismissalRepository) key(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", devicePrefix, scope, key)
}

// Get returns the stored expiry for key, or nil when none is stored.
func (r *dismissalRepository) Get(ctx context.Context, scope, key string) (*time.Time, error) {
	value, err := r.client.Get(ctx, r.key(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	expiry, err := time.Parse(time.RFC3339, value)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("ignoring malformed dismissal timestamp")
		return nil, nil
	}
	return &expiry, nil
}

// Set stores expiry for key; the entry disappears once expiry passes.
func (r *dismissalRepository) Set(ctx context.Context, scope, key string, expiry time.Time) error {
	ttl := expiry.Sub(r.now())
	if ttl <= 0 {
		return r.client.Del(ctx, r.key(scope, key)).Err()
	}
	if err := r.client.Set(ctx, r.key(scope, key), expiry.UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
