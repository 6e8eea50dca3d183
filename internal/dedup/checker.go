package dedup

import (
	"context"

	"dealflow/internal/common/logging"
	"dealflow/internal/storage"
)

// Lookup is the slice of the persistence contract the checker needs.
type Lookup interface {
	FindByContentHash(ctx context.Context, hash string) (*storage.DealRecord, error)
}

// Checker answers whether a fingerprint has already been processed.
//
// There is deliberately no lock between the check and the later insert: two
// concurrent deliveries of an identical payload may both see a miss here. The
// store's unique index on the content hash is the real idempotency boundary;
// the pipeline treats an insert conflict as "already processed".
type Checker struct {
	store  Lookup
	logger logging.Logger
}

// NewChecker creates a checker over the given store.
func NewChecker(store Lookup, logger logging.Logger) *Checker {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Checker{store: store, logger: logger}
}

// CheckAndReserve looks up the fingerprint. A hit returns the identifier the
// fingerprint already produced; the caller must short-circuit and report
// success, since provider retries are normal behavior, not errors.
func (c *Checker) CheckAndReserve(ctx context.Context, fingerprint string) (existingID string, duplicate bool, err error) {
	record, err := c.store.FindByContentHash(ctx, fingerprint)
	if err != nil {
		return "", false, err
	}
	if record == nil {
		return "", false, nil
	}

	c.logger.Info("Duplicate webhook short-circuited",
		logging.String("content_hash", fingerprint),
		logging.String("existing_id", record.ID),
	)
	return record.ID, true, nil
}
