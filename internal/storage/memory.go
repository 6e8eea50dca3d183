package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-process Storage used for tests and local development.
// It enforces the same content-hash uniqueness as the database adapters.
type MemoryStorage struct {
	mu     sync.RWMutex
	byID   map[string]*DealRecord
	byHash map[string]*DealRecord
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID:   make(map[string]*DealRecord),
		byHash: make(map[string]*DealRecord),
	}
}

func (m *MemoryStorage) FindByContentHash(ctx context.Context, hash string) (*DealRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byHash[hash]
	if !ok {
		return nil, nil
	}
	copy := *record
	return &copy, nil
}

func (m *MemoryStorage) Create(ctx context.Context, record *DealRecord) (*DealRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byHash[record.ContentHash]; exists {
		return nil, ErrDuplicateHash
	}

	stored := *record
	stored.CreatedAt = time.Now().UTC()
	m.byID[stored.ID] = &stored
	m.byHash[stored.ContentHash] = &stored

	copy := stored
	return &copy, nil
}

func (m *MemoryStorage) Get(ctx context.Context, id string) (*DealRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	copy := *record
	return &copy, nil
}

func (m *MemoryStorage) Health() error { return nil }

func (m *MemoryStorage) Close() error { return nil }
