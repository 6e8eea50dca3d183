package app

import (
	"strconv"
	"time"

	"dealflow/internal/common/logging"
	"dealflow/internal/ratelimit"
	"dealflow/internal/redis"
)

func (app *App) initializeRedis() error {
	if app.Config.RedisAddress == "" {
		app.Logger.Info("Redis: not configured (in-process cache, rate limiting disabled)")
		return nil
	}

	redisDB, _ := strconv.Atoi(app.Config.RedisDB)
	redisPoolSize, _ := strconv.Atoi(app.Config.RedisPoolSize)

	redisClient, err := redis.NewClient(&redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       redisDB,
		PoolSize: redisPoolSize,
	})
	if err != nil {
		return err
	}

	app.RedisClient = redisClient
	app.Logger.Info("Redis: connected", logging.String("address", app.Config.RedisAddress))
	return nil
}

// InitializeRateLimiter builds the webhook-route limiter. Without redis the
// limiter stays disabled; single-instance deployments accept that.
func (app *App) InitializeRateLimiter() *ratelimit.Limiter {
	if !app.Config.RateLimitEnabled || app.RedisClient == nil {
		return nil
	}

	limit, _ := strconv.Atoi(app.Config.RateLimitDefault)
	if limit <= 0 {
		limit = 100
	}
	window, err := time.ParseDuration(app.Config.RateLimitWindow)
	if err != nil || window <= 0 {
		window = time.Minute
	}

	app.Logger.Info("Rate limiting: enabled",
		logging.Int("limit", limit),
		logging.Duration("window", window),
	)

	return ratelimit.NewLimiter(app.RedisClient, &ratelimit.Config{
		Limit:   limit,
		Window:  window,
		Enabled: true,
	}, app.Logger)
}
