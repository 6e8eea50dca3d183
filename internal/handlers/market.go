package handlers

import (
	"context"
	"net/http"

	"dealflow/internal/common/errors"
)

// HandleRentEstimate proxies a rent estimate lookup
// @Summary Rent estimate for an address
// @Description Fetches the provider's rent estimate through the coalescing TTL cache; repeated queries inside the TTL cost one metered upstream call.
// @Tags market
// @Produce json
// @Param address query string true "Street address"
// @Param zip query string true "Zip code"
// @Success 200 {object} object
// @Failure 400 {string} string "Missing parameters"
// @Failure 502 {string} string "Upstream unavailable"
// @Router /api/market/rent-estimate [get]
func (h *Handlers) HandleRentEstimate(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	zip := r.URL.Query().Get("zip")
	if address == "" || zip == "" {
		h.writeError(w, http.StatusBadRequest, "address and zip are required")
		return
	}

	h.serveMarketPayload(w, r, func(ctx context.Context) ([]byte, error) {
		return h.market.RentEstimate(ctx, address, zip)
	})
}

// HandleComparables proxies a comparable-sales lookup
// @Summary Comparable sales near an address
// @Tags market
// @Produce json
// @Param address query string true "Street address"
// @Param zip query string true "Zip code"
// @Success 200 {object} object
// @Failure 400 {string} string "Missing parameters"
// @Failure 502 {string} string "Upstream unavailable"
// @Router /api/market/comparables [get]
func (h *Handlers) HandleComparables(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	zip := r.URL.Query().Get("zip")
	if address == "" || zip == "" {
		h.writeError(w, http.StatusBadRequest, "address and zip are required")
		return
	}

	h.serveMarketPayload(w, r, func(ctx context.Context) ([]byte, error) {
		return h.market.Comparables(ctx, address, zip)
	})
}

// HandleAreaStats proxies an area statistics lookup
// @Summary Market statistics for a zip code
// @Tags market
// @Produce json
// @Param zip query string true "Zip code"
// @Success 200 {object} object
// @Failure 400 {string} string "Missing parameters"
// @Failure 502 {string} string "Upstream unavailable"
// @Router /api/market/area-stats [get]
func (h *Handlers) HandleAreaStats(w http.ResponseWriter, r *http.Request) {
	zip := r.URL.Query().Get("zip")
	if zip == "" {
		h.writeError(w, http.StatusBadRequest, "zip is required")
		return
	}

	h.serveMarketPayload(w, r, func(ctx context.Context) ([]byte, error) {
		return h.market.AreaStats(ctx, zip)
	})
}

// serveMarketPayload passes the provider payload through untouched; this
// service owns caching and resilience, not market-data semantics.
func (h *Handlers) serveMarketPayload(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]byte, error)) {
	if h.market == nil {
		h.writeError(w, http.StatusServiceUnavailable, "market data is not configured")
		return
	}

	payload, err := fetch(r.Context())
	if err != nil {
		if errors.IsType(err, errors.ErrTypeValidation) {
			h.writeError(w, http.StatusBadRequest, "market data provider rejected the query")
			return
		}
		h.logger.Error("Market data lookup failed", err)
		h.writeError(w, http.StatusBadGateway, "market data unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
