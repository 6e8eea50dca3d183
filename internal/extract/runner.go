package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dealflow/internal/common/logging"
)

// ErrTimeout is returned by WithDeadline when the operation loses the race
// against the deadline timer.
var ErrTimeout = errors.New("extraction deadline exceeded")

// DefaultDeadline sits comfortably under typical platform request-timeout
// ceilings.
const DefaultDeadline = 25 * time.Second

// Extractor is the enrichment collaborator. Implementations may call an AI
// model, an external service, or run locally; the runner does not care.
type Extractor interface {
	Extract(ctx context.Context, subject, body string) (*DealFields, error)
}

// WithDeadline races op against a wall-clock deadline. The deadline is
// propagated through the context so cooperative operations can stop
// themselves; a non-cooperative operation keeps running after its result is
// abandoned, consuming resources until it finishes. Only the caller's wait is
// bounded — that asymmetry is accepted, not hidden.
//
// The timer is stopped as soon as the operation wins, so completed requests
// leave no pending timer behind.
func WithDeadline[T any](ctx context.Context, deadline time.Duration, op func(context.Context) (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}

	opCtx, cancel := context.WithTimeout(ctx, deadline)

	ch := make(chan outcome, 1)
	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				var zero T
				ch <- outcome{zero, fmt.Errorf("operation panicked: %v", r)}
			}
		}()
		value, err := op(opCtx)
		ch <- outcome{value, err}
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case out := <-ch:
		return out.value, out.err
	case <-timer.C:
		var zero T
		return zero, ErrTimeout
	}
}

// Runner wraps an Extractor with the deadline and the degrade-to-empty
// policy: enrichment is additive and never fails the request.
type Runner struct {
	backend  Extractor
	deadline time.Duration
	logger   logging.Logger
}

// NewRunner creates a runner. A non-positive deadline falls back to
// DefaultDeadline.
func NewRunner(backend Extractor, deadline time.Duration, logger logging.Logger) *Runner {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Runner{
		backend:  backend,
		deadline: deadline,
		logger:   logger,
	}
}

// Extract runs the backend under the deadline. Timeout, backend error, or
// panic all produce the empty DealFields sentinel; the caller persists the
// record either way.
func (r *Runner) Extract(ctx context.Context, subject, body string) *DealFields {
	fields, err := WithDeadline(ctx, r.deadline, func(opCtx context.Context) (*DealFields, error) {
		return r.backend.Extract(opCtx, subject, body)
	})

	if err != nil {
		if errors.Is(err, ErrTimeout) {
			r.logger.Warn("Extraction timed out, continuing with empty result",
				logging.Duration("deadline", r.deadline),
				logging.Int("body_len", len(body)),
			)
		} else {
			r.logger.Warn("Extraction failed, continuing with empty result",
				logging.Err(err),
				logging.Int("body_len", len(body)),
			)
		}
		return &DealFields{}
	}

	if fields == nil {
		return &DealFields{}
	}
	return fields
}
