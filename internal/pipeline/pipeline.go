// Package pipeline runs an inbound email webhook through ingestion: verify
// the signature on the raw body, parse the provider payload, deduplicate by
// content fingerprint, run bounded extraction, persist.
//
// Logging along this path is PII-safe. Until a request is verified nothing
// from the payload is logged at all; after verification only lengths, hashes,
// identifiers and booleans appear in log fields, never sender, subject or
// body text.
package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"dealflow/internal/common/errors"
	"dealflow/internal/common/logging"
	"dealflow/internal/dedup"
	"dealflow/internal/email"
	"dealflow/internal/extract"
	"dealflow/internal/signature"
	"dealflow/internal/storage"
)

// State is where a webhook is in its ingestion lifecycle.
type State string

const (
	StateReceived       State = "received"
	StateVerified       State = "verified"
	StateParsed         State = "parsed"
	StateDedupChecked   State = "dedup_checked"
	StateShortCircuited State = "short_circuited"
	StateExtracted      State = "extracted"
	StatePersisted      State = "persisted"
	StateAcknowledged   State = "acknowledged"
	StateRejected       State = "rejected"
	StateFailed         State = "failed"
)

// Request is one inbound delivery as received off the wire. RawBody is the
// exact byte sequence the provider signed.
type Request struct {
	RawBody         []byte
	ContentType     string
	SignatureHeader string
	TimestampHeader string
}

// Result is a successful ingestion outcome. Duplicate reports whether the
// delivery was recognized as a retry of an already-processed payload, in
// which case ID is the prior record's identifier.
type Result struct {
	ID        string
	UserID    string
	Duplicate bool
	State     State
}

type Pipeline struct {
	verifier *signature.Verifier
	checker  *dedup.Checker
	runner   *extract.Runner
	store    storage.Storage
	logger   logging.Logger
	now      func() time.Time
}

func New(verifier *signature.Verifier, checker *dedup.Checker, runner *extract.Runner, store storage.Storage, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Pipeline{
		verifier: verifier,
		checker:  checker,
		runner:   runner,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Process takes a delivery from Received to Acknowledged. Errors carry the
// failure class the handler needs: VerificationError for rejection before
// trust, AppError validation for unrecognized payloads, AppError internal for
// persistence faults.
func (p *Pipeline) Process(ctx context.Context, req *Request) (*Result, error) {
	p.logger.Debug("Webhook received",
		logging.Int("body_length", len(req.RawBody)),
		logging.Bool("has_signature", req.SignatureHeader != ""),
	)

	if err := p.verifier.Verify(req.RawBody, req.SignatureHeader, req.TimestampHeader); err != nil {
		p.logger.Warn("Webhook rejected before trust",
			logging.Int("body_length", len(req.RawBody)),
			logging.Err(err),
		)
		return nil, err
	}

	inbound, err := email.ParsePayload(req.ContentType, req.RawBody)
	if err != nil {
		p.logger.Warn("Webhook payload not recognized",
			logging.Int("body_length", len(req.RawBody)),
			logging.Err(err),
		)
		return nil, err
	}

	userID := email.ExtractUserID(inbound.To)
	body := inbound.Body()
	fingerprint := dedup.Fingerprint(inbound.From, inbound.Subject, body)

	log := p.logger.WithFields(
		logging.String("content_hash", fingerprint),
		logging.String("user_id", userID),
		logging.Int("body_length", len(body)),
	)

	existingID, duplicate, err := p.checker.CheckAndReserve(ctx, fingerprint)
	if err != nil {
		log.Error("Dedup lookup failed", err)
		return nil, errors.InternalError("failed to check for duplicate delivery", err)
	}
	if duplicate {
		return &Result{
			ID:        existingID,
			UserID:    userID,
			Duplicate: true,
			State:     StateShortCircuited,
		}, nil
	}

	fields := p.runner.Extract(ctx, inbound.Subject, body)

	record := &storage.DealRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Sender:      inbound.From,
		Subject:     inbound.Subject,
		ContentHash: fingerprint,
		Fields:      extract.MarshalFields(fields),
		ReceivedAt:  p.now().UTC(),
	}

	created, err := p.store.Create(ctx, record)
	if err != nil {
		if stderrors.Is(err, storage.ErrDuplicateHash) {
			return p.resolveInsertConflict(ctx, fingerprint, userID, log)
		}
		log.Error("Failed to persist deal record", err)
		return nil, errors.InternalError("failed to persist deal record", err)
	}

	log.Info("Webhook ingested",
		logging.String("record_id", created.ID),
		logging.Bool("fields_extracted", !fields.Empty()),
	)

	return &Result{
		ID:        created.ID,
		UserID:    userID,
		Duplicate: false,
		State:     StateAcknowledged,
	}, nil
}

// resolveInsertConflict handles the race where two identical deliveries both
// passed the dedup check. The loser's insert hits the unique index; the
// winning record's id is the answer.
func (p *Pipeline) resolveInsertConflict(ctx context.Context, fingerprint, userID string, log logging.Logger) (*Result, error) {
	existing, err := p.store.FindByContentHash(ctx, fingerprint)
	if err != nil || existing == nil {
		log.Error("Failed to resolve concurrent duplicate insert", err)
		return nil, errors.InternalError("failed to resolve concurrent duplicate insert", err)
	}

	log.Info("Concurrent duplicate resolved by unique index",
		logging.String("existing_id", existing.ID),
	)

	return &Result{
		ID:        existing.ID,
		UserID:    userID,
		Duplicate: true,
		State:     StateShortCircuited,
	}, nil
}
