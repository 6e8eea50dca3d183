// Package cache provides a read-through TTL cache for metered upstream
// lookups. Concurrent misses on the same key collapse into a single compute
// so a burst of identical queries costs one upstream call.
package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"dealflow/internal/common/logging"
)

// Store is the expiring key-value backend behind the cache. Get reports a
// miss through its second return; expired entries are misses.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, keys ...string) error
}

type Cache struct {
	store      Store
	group      singleflight.Group
	defaultTTL time.Duration
	logger     logging.Logger
}

func New(store Store, defaultTTL time.Duration, logger logging.Logger) *Cache {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Cache{
		store:      store,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

// GetOrFetch returns the cached value for key, or runs compute on a miss and
// caches its result for ttl (the default TTL when ttl is zero).
//
// Concurrent callers missing on the same key share one compute invocation.
// The compute runs detached from any single caller: a caller whose context
// ends gets its context error back, but the computation keeps going and its
// result still lands in the store for everyone else. Compute errors are
// returned to every waiting caller and never cached, so the next request
// retries.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	value, found, err := c.store.Get(ctx, key)
	if err != nil {
		// A broken store degrades to a miss rather than failing the lookup
		c.logger.Warn("cache store lookup failed",
			logging.String("key", key),
			logging.Err(err),
		)
	}
	if found {
		c.logger.Debug("cache hit", logging.String("key", key))
		return value, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		result, err := compute(context.Background())
		if err != nil {
			return nil, err
		}
		if setErr := c.store.Set(context.Background(), key, result, ttl); setErr != nil {
			c.logger.Warn("cache store write failed",
				logging.String("key", key),
				logging.Err(setErr),
			)
		}
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		c.logger.Debug("cache miss computed",
			logging.String("key", key),
			logging.Bool("shared", res.Shared),
		)
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate removes every entry under prefix.
func (c *Cache) Invalidate(ctx context.Context, prefix string) error {
	keys, err := c.store.Keys(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.Delete(ctx, keys...)
}

// Key derives a cache key from a base name and query parameters. Parameter
// names are sorted first so the same query always maps to the same key
// regardless of map iteration order.
func Key(base string, params map[string]string) string {
	if len(params) == 0 {
		return base
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(base)
	for _, name := range names {
		b.WriteByte('|')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}
	return b.String()
}
