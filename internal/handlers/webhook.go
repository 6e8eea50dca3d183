package handlers

import (
	"io"
	"net/http"

	"dealflow/internal/common/errors"
	"dealflow/internal/pipeline"
	"dealflow/internal/signature"
)

const (
	// Header names used by the inbound email provider
	signatureHeader = "X-Signature"
	timestampHeader = "X-Timestamp"

	maxWebhookBodyBytes = 10 << 20
)

type webhookResponse struct {
	Success   bool   `json:"success"`
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// HandleInboundEmail ingests a forwarded deal email
// @Summary Ingest inbound email webhook
// @Description Verifies the provider signature over the raw body, deduplicates by content fingerprint, extracts deal fields under a deadline and persists the record. Retried deliveries of an identical payload return the original record id.
// @Tags webhooks
// @Accept x-www-form-urlencoded,mpfd
// @Produce json
// @Param X-Signature header string true "Base64 provider signature over timestamp and raw body"
// @Param X-Timestamp header string true "Sender-declared unix timestamp in seconds"
// @Success 200 {object} webhookResponse
// @Failure 400 {string} string "Unrecognized payload"
// @Failure 401 {string} string "Signature verification failed"
// @Failure 500 {string} string "Ingestion failed"
// @Router /webhook/inbound-email [post]
func (h *Handlers) HandleInboundEmail(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := h.pipeline.Process(r.Context(), &pipeline.Request{
		RawBody:         body,
		ContentType:     r.Header.Get("Content-Type"),
		SignatureHeader: r.Header.Get(signatureHeader),
		TimestampHeader: r.Header.Get(timestampHeader),
	})
	if err != nil {
		// Rejections carry a category, never the verifier's internals
		if _, ok := signature.IsVerificationError(err); ok {
			h.writeError(w, http.StatusUnauthorized, "signature verification failed")
			return
		}
		if errors.IsType(err, errors.ErrTypeValidation) {
			h.writeError(w, http.StatusBadRequest, "unrecognized payload")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}

	h.writeJSON(w, http.StatusOK, webhookResponse{
		Success:   true,
		ID:        result.ID,
		Duplicate: result.Duplicate,
	})
}

// HandleInboundEmailStatus reports route liveness
// @Summary Inbound email route liveness
// @Description Static payload confirming the webhook route is mounted; used by provider configuration checks.
// @Tags webhooks
// @Produce json
// @Success 200 {object} map[string]string
// @Router /webhook/inbound-email [get]
func (h *Handlers) HandleInboundEmailStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"service":  "dealflow",
		"endpoint": "inbound-email",
		"status":   "ready",
	})
}
