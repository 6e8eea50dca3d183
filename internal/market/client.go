// Package market talks to the metered market-data API. Every lookup is
// routed through the coalescing cache so repeated queries inside the TTL
// cost one upstream call, and the transport is guarded by a circuit breaker
// and bounded retry so a flapping provider cannot pile up requests.
package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"dealflow/internal/cache"
	"dealflow/internal/common/errors"
	"dealflow/internal/common/logging"
)

type Config struct {
	BaseURL        string        `json:"base_url"`
	APIKey         string        `json:"api_key"`
	RequestTimeout time.Duration `json:"request_timeout"`
	MaxRetries     uint64        `json:"max_retries"`
}

func DefaultConfig() *Config {
	return &Config{
		RequestTimeout: 10 * time.Second,
		MaxRetries:     2,
	}
}

// Client fetches market data. Responses are opaque JSON payloads passed
// through to the dashboard; this layer owns only caching and transport
// resilience.
type Client struct {
	config     *Config
	httpClient *http.Client
	cache      *cache.Cache
	breaker    *gobreaker.CircuitBreaker
	logger     logging.Logger
}

func NewClient(config *Config, dataCache *cache.Cache, logger logging.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "market-api",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				logging.String("breaker", name),
				logging.String("from", from.String()),
				logging.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Client errors are the caller's problem, not provider health
			return errors.IsType(err, errors.ErrTypeValidation)
		},
	})

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		cache:      dataCache,
		breaker:    breaker,
		logger:     logger,
	}
}

// RentEstimate returns the provider's rent estimate payload for an address.
func (c *Client) RentEstimate(ctx context.Context, address, zip string) ([]byte, error) {
	params := map[string]string{"address": address, "zip": zip}
	return c.cachedFetch(ctx, "market:rent_estimate", "/v1/rent-estimate", params)
}

// Comparables returns recently sold comparable properties near an address.
func (c *Client) Comparables(ctx context.Context, address, zip string) ([]byte, error) {
	params := map[string]string{"address": address, "zip": zip}
	return c.cachedFetch(ctx, "market:comparables", "/v1/comparables", params)
}

// AreaStats returns aggregate market statistics for a zip code.
func (c *Client) AreaStats(ctx context.Context, zip string) ([]byte, error) {
	params := map[string]string{"zip": zip}
	return c.cachedFetch(ctx, "market:area_stats", "/v1/area-stats", params)
}

func (c *Client) cachedFetch(ctx context.Context, keyBase, path string, params map[string]string) ([]byte, error) {
	key := cache.Key(keyBase, params)
	return c.cache.GetOrFetch(ctx, key, 0, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, path, params)
	})
}

func (c *Client) fetch(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	var payload []byte

	operation := func() error {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doRequest(ctx, path, params)
		})
		if err != nil {
			if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
				return backoff.Permanent(errors.UpstreamError("market API circuit open", err))
			}
			if errors.IsType(err, errors.ErrTypeValidation) {
				return backoff.Permanent(err)
			}
			return err
		}
		payload = result.([]byte)
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.config.MaxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	u, err := url.Parse(c.config.BaseURL + path)
	if err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("invalid market API URL: %v", err))
	}
	q := u.Query()
	for name, value := range params {
		q.Set(name, value)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.InternalError("failed to build market API request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("X-API-Key", c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.UpstreamError("market API request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.UpstreamError("failed to read market API response", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, errors.ValidationError(fmt.Sprintf("market API rejected request with status %d", resp.StatusCode))
	default:
		return nil, errors.UpstreamError(fmt.Sprintf("market API returned status %d", resp.StatusCode), nil)
	}
}
