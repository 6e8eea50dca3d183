package cache

import (
	"context"
	"time"

	"dealflow/internal/redis"
)

// RedisStore backs the cache with redis so entries survive restarts and are
// shared across instances. Expiry is native redis TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.client.Get(ctx, key)
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl)
}

func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.client.Keys(ctx, prefix+"*")
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	return s.client.Delete(ctx, keys...)
}
