package app

import (
	"dealflow/internal/cache"
	"dealflow/internal/common/logging"
	"dealflow/internal/market"
)

// initializeCache picks the cache backend. "auto" uses redis when connected
// and falls back to the in-process store; "redis" and "memory" force one.
func (app *App) initializeCache() {
	ttl := app.Config.CacheTTL()

	backend := app.Config.CacheBackend
	if backend == "auto" {
		if app.RedisClient != nil {
			backend = "redis"
		} else {
			backend = "memory"
		}
	}

	var store cache.Store
	switch backend {
	case "redis":
		if app.RedisClient == nil {
			app.Logger.Warn("Cache backend forced to redis but redis is unavailable, using memory")
			store = cache.NewMemoryStore(ttl)
			backend = "memory"
		} else {
			store = cache.NewRedisStore(app.RedisClient)
		}
	default:
		store = cache.NewMemoryStore(ttl)
		backend = "memory"
	}

	app.Logger.Info("Cache: initialized",
		logging.String("backend", backend),
		logging.Duration("ttl", ttl),
	)

	app.DataCache = cache.New(store, ttl, app.Logger)
}

func (app *App) initializeMarket() {
	if app.Config.MarketAPIURL == "" {
		app.Logger.Info("Market data: not configured")
		return
	}

	cfg := market.DefaultConfig()
	cfg.BaseURL = app.Config.MarketAPIURL
	cfg.APIKey = app.Config.MarketAPIKey

	app.Market = market.NewClient(cfg, app.DataCache, app.Logger)
	app.Logger.Info("Market data: configured", logging.String("base_url", app.Config.MarketAPIURL))
}
