package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	fields *DealFields
	err    error
	delay  time.Duration
	block  bool
	calls  int
	panics bool
}

func (s *stubExtractor) Extract(ctx context.Context, subject, body string) (*DealFields, error) {
	s.calls++
	if s.panics {
		panic("backend exploded")
	}
	if s.block {
		<-make(chan struct{}) // never resolves
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.fields, s.err
}

func TestWithDeadline_OperationWins(t *testing.T) {
	got, err := WithDeadline(context.Background(), time.Second, func(ctx context.Context) (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

func TestWithDeadline_TimerWins(t *testing.T) {
	start := time.Now()
	_, err := WithDeadline(context.Background(), 50*time.Millisecond, func(ctx context.Context) (string, error) {
		<-make(chan struct{}) // never resolves
		return "", nil
	})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, elapsed, 500*time.Millisecond, "must return shortly after the deadline")
}

func TestWithDeadline_PropagatesContextToOperation(t *testing.T) {
	var sawDeadline bool
	_, _ = WithDeadline(context.Background(), 50*time.Millisecond, func(ctx context.Context) (string, error) {
		_, sawDeadline = ctx.Deadline()
		return "", nil
	})
	assert.True(t, sawDeadline, "cooperative operations must be able to observe the deadline")
}

func TestWithDeadline_OperationError(t *testing.T) {
	opErr := errors.New("backend unavailable")
	_, err := WithDeadline(context.Background(), time.Second, func(ctx context.Context) (int, error) {
		return 0, opErr
	})
	assert.ErrorIs(t, err, opErr)
}

func TestRunner_Success(t *testing.T) {
	backend := &stubExtractor{fields: &DealFields{Address: "123 Main St", PurchasePrice: 250000}}
	runner := NewRunner(backend, time.Second, nil)

	fields := runner.Extract(context.Background(), "New Listing", "Price: $250,000")

	require.NotNil(t, fields)
	assert.Equal(t, "123 Main St", fields.Address)
	assert.Equal(t, 1, backend.calls)
}

func TestRunner_TimeoutDegradesToEmpty(t *testing.T) {
	backend := &stubExtractor{block: true}
	runner := NewRunner(backend, 50*time.Millisecond, nil)

	start := time.Now()
	fields := runner.Extract(context.Background(), "s", "b")

	assert.True(t, fields.Empty(), "timeout must yield the empty sentinel, not an error")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRunner_ErrorDegradesToEmpty(t *testing.T) {
	backend := &stubExtractor{err: errors.New("model returned garbage")}
	runner := NewRunner(backend, time.Second, nil)

	fields := runner.Extract(context.Background(), "s", "b")
	assert.True(t, fields.Empty())
}

func TestRunner_PanicDegradesToEmpty(t *testing.T) {
	backend := &stubExtractor{panics: true}
	runner := NewRunner(backend, time.Second, nil)

	fields := runner.Extract(context.Background(), "s", "b")
	assert.True(t, fields.Empty())
}

func TestRunner_NilResultBecomesEmpty(t *testing.T) {
	backend := &stubExtractor{fields: nil}
	runner := NewRunner(backend, time.Second, nil)

	fields := runner.Extract(context.Background(), "s", "b")
	require.NotNil(t, fields)
	assert.True(t, fields.Empty())
}

func TestMarshalFields(t *testing.T) {
	assert.Nil(t, MarshalFields(nil))
	assert.Nil(t, MarshalFields(&DealFields{}))

	data := MarshalFields(&DealFields{Address: "1 Elm St"})
	assert.Contains(t, string(data), "1 Elm St")
}
