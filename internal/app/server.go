package app

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"dealflow/internal/handlers"
	"dealflow/internal/server"
)

// RunServer starts the HTTP server with all handlers configured
func (app *App) RunServer() (*server.Server, http.Handler) {
	h := handlers.NewHandlers(
		app.Pipeline,
		app.Storage,
		app.Market,
		app.RedisClient,
		app.Logger,
	)

	router := mux.NewRouter()
	SetupRoutes(router, h, app.InitializeRateLimiter())

	srv := server.New(router, app.Config.Port)
	return srv, router
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown(ctx context.Context) error {
	close(app.shutdownCh)
	return nil
}
