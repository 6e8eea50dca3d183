package app

import (
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"dealflow/internal/handlers"
	"dealflow/internal/middleware"
	"dealflow/internal/ratelimit"
)

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers, rateLimiter *ratelimit.Limiter) {
	router.Use(middleware.LoggingMiddleware)

	// Inbound webhook; rate limited when a limiter is configured
	webhook := router.PathPrefix("/webhook").Subrouter()
	if rateLimiter != nil {
		webhook.Use(rateLimiter.HTTPMiddleware(ratelimit.IPBasedKey))
	}
	webhook.HandleFunc("/inbound-email", h.HandleInboundEmail).Methods("POST")
	webhook.HandleFunc("/inbound-email", h.HandleInboundEmailStatus).Methods("GET")

	// Dashboard-facing API
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/deals/{id}", h.HandleGetDeal).Methods("GET")
	api.HandleFunc("/market/rent-estimate", h.HandleRentEstimate).Methods("GET")
	api.HandleFunc("/market/comparables", h.HandleComparables).Methods("GET")
	api.HandleFunc("/market/area-stats", h.HandleAreaStats).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
}
