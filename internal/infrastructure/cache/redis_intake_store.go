package cache

import (
	"context"
	"fmt"
	"time"

	quoteapp "github.com/beanport/backend/internal/application/quote"
	"github.com/beanport/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisIntakeStore implements the intake IdempotencyStore using Redis.
// Suitable for distributed deployments where multiple instances share
// submission state.
type RedisIntakeStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIntakeStore creates a new Redis-based intake store
func NewRedisIntakeStore(cfg config.RedisConfig) (*RedisIntakeStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisIntakeStore{
		client:    client,
		keyPrefix: "intake:submission:",
	}, nil
}

// NewRedisIntakeStoreWithClient creates a store with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisIntakeStoreWithClient(client *redis.Client, keyPrefix string) *RedisIntakeStore {
	if keyPrefix == "" {
		keyPrefix = "intake:submission:"
	}
	return &RedisIntakeStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Reserve claims an intake key with a TTL. SETNX makes the claim atomic
// across instances; false means another submission already holds the key.
func (s *RedisIntakeStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve intake key: %w", err)
	}
	return result, nil
}

// Release frees a reserved key so the submission can be retried
func (s *RedisIntakeStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release intake key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisIntakeStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisIntakeStore) GetClient() *redis.Client {
	return s.client
}

// Ensure RedisIntakeStore implements the intake IdempotencyStore
var _ quoteapp.IdempotencyStore = (*RedisIntakeStore)(nil)
