package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key names within a scope.
const (
	CheckoutStateKey = "checkout-state"
	CartIDKey        = "cart-id"
	EnrollmentKey    = "mfa-enrollment"
)

// redisStore holds JSON values under "<prefix>:<scope>:<name>".
type redisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (s redisStore) key(scope, name string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, scope, name)
}

// getJSON decodes the value into out. It reports false when the key is absent.
func (s redisStore) getJSON(ctx context.Context, scope, name string, out any) (bool, error) {
	data, err := s.client.Get(ctx, s.key(scope, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("unmarshal %s failed: %w", name, err)
	}
	return true, nil
}

func (s redisStore) setJSON(ctx context.Context, scope, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", name, err)
	}
	if err := s.client.Set(ctx, s.key(scope, name), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s redisStore) delete(ctx context.Context, scope, name string) error {
	if err := s.client.Del(ctx, s.key(scope, name)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
