// Package app wires configuration into running components: storage, redis,
// the market-data cache and the ingestion pipeline.
package app

import (
	"dealflow/internal/cache"
	"dealflow/internal/common/logging"
	"dealflow/internal/config"
	"dealflow/internal/market"
	"dealflow/internal/pipeline"
	"dealflow/internal/redis"
	"dealflow/internal/storage"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	Storage     storage.Storage
	RedisClient *redis.Client
	DataCache   *cache.Cache
	Market      *market.Client
	Pipeline    *pipeline.Pipeline
	Logger      logging.Logger
	shutdownCh  chan struct{}
}

// New creates a new application instance with all dependencies
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config:     cfg,
		Logger:     logging.GetGlobalLogger().WithFields(logging.String("component", "app")),
		shutdownCh: make(chan struct{}),
	}

	if err := app.initializeStorage(); err != nil {
		return nil, err
	}

	if err := app.initializeRedis(); err != nil {
		// Redis is optional; the cache and rate limiter degrade without it
		app.Logger.Warn("Redis initialization failed, continuing without Redis",
			logging.Err(err))
		app.RedisClient = nil
	}

	app.initializeCache()
	app.initializeMarket()

	if err := app.initializeIngestion(); err != nil {
		return nil, err
	}

	return app, nil
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.Storage != nil {
		app.Storage.Close()
	}
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
