package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealflow/internal/redis"
)

func setupLimiter(t *testing.T, config *Config) *Limiter {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient(&redis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewLimiter(client, config, nil)
}

func TestLimiter_Check(t *testing.T) {
	limiter := setupLimiter(t, &Config{Limit: 2, Window: time.Minute, Enabled: true})
	ctx := context.Background()

	first, err := limiter.Check(ctx, "client-a")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Remaining)

	second, err := limiter.Check(ctx, "client-a")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Remaining)

	third, err := limiter.Check(ctx, "client-a")
	require.NoError(t, err)
	assert.Equal(t, 0, third.Remaining)

	// Other clients keep their own budget
	other, err := limiter.Check(ctx, "client-b")
	require.NoError(t, err)
	assert.Equal(t, 2, other.Remaining)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(nil, &Config{Limit: 1, Window: time.Minute, Enabled: false}, nil)

	for i := 0; i < 10; i++ {
		result, err := limiter.Check(context.Background(), "anyone")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Remaining)
	}
}

func TestLimiter_HTTPMiddleware(t *testing.T) {
	limiter := setupLimiter(t, &Config{Limit: 2, Window: time.Minute, Enabled: true})

	handler := limiter.HTTPMiddleware(IPBasedKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhook/inbound-email", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := do("10.0.0.1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))

	rec = do("10.0.0.1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Different source address keeps its own window
	rec = do("10.0.0.2")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPBasedKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "ip:192.0.2.1:1234", IPBasedKey(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "ip:198.51.100.7", IPBasedKey(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "ip:203.0.113.9", IPBasedKey(req))
}
