// Package handlers holds the HTTP surface: the inbound webhook route, deal
// record reads, market-data lookups and health.
package handlers

import (
	"encoding/json"
	"net/http"

	"dealflow/internal/common/logging"
	"dealflow/internal/market"
	"dealflow/internal/pipeline"
	"dealflow/internal/redis"
	"dealflow/internal/storage"
)

type Handlers struct {
	pipeline *pipeline.Pipeline
	store    storage.Storage
	market   *market.Client
	redis    *redis.Client
	logger   logging.Logger
}

// NewHandlers wires the HTTP layer. redisClient may be nil when the service
// runs without redis.
func NewHandlers(p *pipeline.Pipeline, store storage.Storage, marketClient *market.Client, redisClient *redis.Client, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handlers{
		pipeline: p,
		store:    store,
		market:   marketClient,
		redis:    redisClient,
		logger:   logger,
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
