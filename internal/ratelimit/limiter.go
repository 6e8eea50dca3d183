// Package ratelimit protects the inbound webhook route with a redis-backed
// sliding-window limiter keyed by client IP.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dealflow/internal/common/errors"
	"dealflow/internal/common/logging"
	"dealflow/internal/redis"
)

type Limiter struct {
	redis  *redis.Client
	config *Config
	logger logging.Logger
}

type Config struct {
	Limit   int           `json:"limit"`
	Window  time.Duration `json:"window"`
	Enabled bool          `json:"enabled"`
}

type Result struct {
	Limit     int           `json:"limit"`
	Window    time.Duration `json:"window"`
	Remaining int           `json:"remaining"`
	ResetTime time.Time     `json:"reset_time"`
}

func NewLimiter(redisClient *redis.Client, config *Config, logger logging.Logger) *Limiter {
	if config == nil {
		config = &Config{
			Limit:   100,
			Window:  time.Minute,
			Enabled: true,
		}
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Limiter{
		redis:  redisClient,
		config: config,
		logger: logger,
	}
}

func (l *Limiter) Check(ctx context.Context, key string) (*Result, error) {
	if !l.config.Enabled || l.redis == nil {
		return &Result{
			Limit:     l.config.Limit,
			Window:    l.config.Window,
			Remaining: l.config.Limit,
			ResetTime: time.Now().Add(l.config.Window),
		}, nil
	}

	_, current, err := l.redis.CheckRateLimit(ctx, fmt.Sprintf("rate_limit:%s", key), l.config.Limit, l.config.Window)
	if err != nil {
		return nil, errors.InternalError("failed to check rate limit", err)
	}

	remaining := l.config.Limit - current
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Limit:     l.config.Limit,
		Window:    l.config.Window,
		Remaining: remaining,
		ResetTime: time.Now().Add(l.config.Window),
	}, nil
}

// HTTPMiddleware enforces the limit per keyFunc. Limiter failures fail open:
// an unreachable redis must not take email ingestion down with it.
func (l *Limiter) HTTPMiddleware(keyFunc func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := l.Check(r.Context(), key)
			if err != nil {
				l.logger.Warn("rate limit check failed, allowing request",
					logging.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime.Unix()))

			if result.Remaining <= 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(result.Window.Seconds())))
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IPBasedKey keys the limiter by the originating client address.
func IPBasedKey(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.Header.Get("X-Real-IP")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return fmt.Sprintf("ip:%s", ip)
}
