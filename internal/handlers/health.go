package handlers

import (
	"net/http"
	"time"
)

// HandleHealth reports service health
// @Summary Service health
// @Description Checks the persistence store and, when configured, redis. Returns 503 when any dependency is down.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{}
	healthy := true

	if err := h.store.Health(); err != nil {
		components["storage"] = err.Error()
		healthy = false
	} else {
		components["storage"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Health(); err != nil {
			components["redis"] = err.Error()
			healthy = false
		} else {
			components["redis"] = "ok"
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	h.writeJSON(w, status, map[string]interface{}{
		"status":     overall,
		"components": components,
		"time":       time.Now().UTC().Format(time.RFC3339),
	})
}
