// Package storage persists ingested deal records. The contract is
// deliberately narrow: find by content hash, create, get. Records are
// append-only from this subsystem's point of view; retention is an external
// concern.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrDuplicateHash is returned by Create when a record with the same content
// hash already exists. The unique index behind it is the true idempotency
// boundary for concurrent deliveries of the same payload; callers treat this
// error as "already processed", not as a failure.
var ErrDuplicateHash = errors.New("record with identical content hash already exists")

// DealRecord is a persisted ingestion result.
type DealRecord struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id,omitempty"`
	Sender      string          `json:"sender"`
	Subject     string          `json:"subject"`
	ContentHash string          `json:"content_hash"`
	Fields      json.RawMessage `json:"fields,omitempty"` // extraction output, opaque here; may legitimately be empty
	ReceivedAt  time.Time       `json:"received_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Storage is the persistence collaborator for the ingestion pipeline.
type Storage interface {
	// FindByContentHash returns the record for a fingerprint, or (nil, nil)
	// when none exists.
	FindByContentHash(ctx context.Context, hash string) (*DealRecord, error)

	// Create inserts a new record, assigning CreatedAt. Returns
	// ErrDuplicateHash when the content hash is already present.
	Create(ctx context.Context, record *DealRecord) (*DealRecord, error)

	// Get returns a record by id, or (nil, nil) when none exists.
	Get(ctx context.Context, id string) (*DealRecord, error)

	Health() error
	Close() error
}
