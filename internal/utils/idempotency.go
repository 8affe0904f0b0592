package utils

import (
	"context" // Context for Redis operations
	"time"    // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// IdempotencyStore remembers request keys for a limited time
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisIdempotencyStore keeps idempotency keys in Redis
type RedisIdempotencyStore struct {
	rdb *redis.Client // Redis client
}

// NewRedisIdempotencyStore creates a store on top of a Redis client
func NewRedisIdempotencyStore(rdb *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb}
}

// Reserve stores key with a TTL and reports false if it was already taken
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, "1", ttl).Result() // Atomic set-if-absent
}

// Release deletes a key so the request can be retried
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err() // Delete key from Redis
}
