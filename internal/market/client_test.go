package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealflow/internal/cache"
	"dealflow/internal/common/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	dataCache := cache.New(cache.NewMemoryStore(time.Minute), time.Minute, nil)
	client := NewClient(&Config{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		RequestTimeout: time.Second,
		MaxRetries:     2,
	}, dataCache, nil)

	return client, &hits
}

func TestClient_RentEstimate(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/rent-estimate", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "62704", r.URL.Query().Get("zip"))
		w.Write([]byte(`{"rent":1850}`))
	})

	payload, err := client.RentEstimate(context.Background(), "123 Main St", "62704")
	require.NoError(t, err)
	assert.JSONEq(t, `{"rent":1850}`, string(payload))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestClient_RepeatedLookupsHitCache(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rent":1850}`))
	})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := client.RentEstimate(ctx, "123 Main St", "62704")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(hits), "identical queries inside the TTL must cost one upstream call")

	// A different zip is a different key
	_, err := client.RentEstimate(ctx, "123 Main St", "97201")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var attempts int32
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"stats":{}}`))
	})

	payload, err := client.AreaStats(context.Background(), "62704")
	require.NoError(t, err)
	assert.JSONEq(t, `{"stats":{}}`, string(payload))
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestClient_ClientErrorsNotRetried(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	_, err := client.Comparables(context.Background(), "nowhere", "00000")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits), "4xx responses must not be retried")
}

func TestClient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ctx := context.Background()

	// One lookup burns through its retries and trips the breaker
	_, err := client.AreaStats(ctx, "62704")
	require.Error(t, err)
	hitsAfterFirst := atomic.LoadInt32(hits)
	assert.Equal(t, int32(3), hitsAfterFirst)

	// The next lookup is rejected without touching the upstream
	_, err = client.AreaStats(ctx, "62704")
	require.Error(t, err)
	assert.Equal(t, hitsAfterFirst, atomic.LoadInt32(hits))
}

func TestClient_FailuresNotCached(t *testing.T) {
	var failing int32 = 1
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&failing) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"rent":1850}`))
	})
	ctx := context.Background()

	_, err := client.RentEstimate(ctx, "123 Main St", "62704")
	require.Error(t, err)

	atomic.StoreInt32(&failing, 0)

	payload, err := client.RentEstimate(ctx, "123 Main St", "62704")
	require.NoError(t, err)
	assert.JSONEq(t, `{"rent":1850}`, string(payload))
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}
