package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/layer-3/siws/ports"
)

// RedisStore is a Redis implementation of the VerificationStore interface.
// Records ride on native key expiry, so an expired challenge simply stops
// existing.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis verification store
func NewRedisStore(client *redis.Client) ports.VerificationStore {
	return &RedisStore{
		client: client,
		prefix: "siws:challenge:",
	}
}

// Create stores a challenge value under identifier until expiresAt,
// replacing any previous value for the same identifier.
func (s *RedisStore) Create(ctx context.Context, identifier, value string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("challenge expiry is in the past")
	}

	if err := s.client.Set(ctx, s.prefix+identifier, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	return nil
}

// Find returns the stored record, or nil when none exists
func (s *RedisStore) Find(ctx context.Context, identifier string) (*ports.VerificationRecord, error) {
	key := s.prefix + identifier

	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up challenge: %w", err)
	}

	return &ports.VerificationRecord{
		Value:     getCmd.Val(),
		ExpiresAt: time.Now().Add(ttlCmd.Val()),
	}, nil
}

// Delete removes the record, reporting whether anything was there. DEL's
// removed-key count is what makes concurrent consumption race-safe.
func (s *RedisStore) Delete(ctx context.Context, identifier string) (bool, error) {
	removed, err := s.client.Del(ctx, s.prefix+identifier).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete challenge: %w", err)
	}
	return removed > 0, nil
}
