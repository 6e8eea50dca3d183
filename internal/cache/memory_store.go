package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is the in-process Store used when no redis is configured. A
// background janitor sweeps expired entries so memory does not grow with
// dead keys.
type MemoryStore struct {
	entries *gocache.Cache
}

func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	janitorInterval := defaultTTL / 2
	if janitorInterval > time.Minute {
		janitorInterval = time.Minute
	}
	return &MemoryStore{
		entries: gocache.New(defaultTTL, janitorInterval),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, found := s.entries.Get(key)
	if !found {
		return nil, false, nil
	}
	return value.([]byte), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.entries.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	items := s.entries.Items()
	keys := make([]string, 0, len(items))
	for key := range items {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.entries.Delete(key)
	}
	return nil
}
