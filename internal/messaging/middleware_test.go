package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketplace/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}

type fakeDLQ struct {
	mu    sync.Mutex
	items []string
	errs  []error
}

func (f *fakeDLQ) PublishToDLQ(ctx context.Context, key, value []byte, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, string(key))
	f.errs = append(f.errs, err)
	return nil
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("should retry transient errors until success", func(t *testing.T) {
		calls := 0
		handler := WithRetry(func(context.Context, []byte, []byte) error {
			calls++
			if calls < 3 {
				return errors.New("db timeout")
			}
			return nil
		}, fastRetry)

		require.NoError(t, handler(ctx, nil, nil))
		assert.Equal(t, 3, calls)
	})

	t.Run("should give up after max attempts", func(t *testing.T) {
		calls := 0
		handler := WithRetry(func(context.Context, []byte, []byte) error {
			calls++
			return errors.New("db timeout")
		}, fastRetry)

		err := handler(ctx, nil, nil)

		assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
		assert.Equal(t, 3, calls)
	})

	t.Run("should not retry validation errors", func(t *testing.T) {
		calls := 0
		handler := WithRetry(func(context.Context, []byte, []byte) error {
			calls++
			return apperror.Validation("bad payload")
		}, fastRetry)

		err := handler(ctx, nil, nil)

		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		assert.Equal(t, 1, calls)
	})
}

func TestWithDLQ(t *testing.T) {
	ctx := context.Background()

	t.Run("should park failed message and swallow error", func(t *testing.T) {
		dlq := &fakeDLQ{}
		boom := errors.New("boom")
		handler := WithDLQ(func(context.Context, []byte, []byte) error { return boom }, dlq)

		err := handler(ctx, []byte("pi_1"), []byte("{}"))

		require.NoError(t, err)
		assert.Equal(t, []string{"pi_1"}, dlq.items)
		assert.ErrorIs(t, dlq.errs[0], boom)
	})

	t.Run("should skip dlq on success", func(t *testing.T) {
		dlq := &fakeDLQ{}
		handler := WithDLQ(func(context.Context, []byte, []byte) error { return nil }, dlq)

		require.NoError(t, handler(ctx, []byte("pi_1"), nil))
		assert.Empty(t, dlq.items)
	})
}

func TestWithMetrics_PassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	handler := WithMetrics("webhooks.payments", "group", func(context.Context, []byte, []byte) error { return boom })

	assert.ErrorIs(t, handler(context.Background(), nil, nil), boom)
}

type fakeWorker struct {
	err    error
	closed bool
}

func (w *fakeWorker) Start(ctx context.Context, _ MessageHandler) error {
	if w.err != nil {
		return w.err
	}
	<-ctx.Done()
	return nil
}

func (w *fakeWorker) Close() error {
	w.closed = true
	return nil
}

func TestRunner_Start(t *testing.T) {
	failing := &fakeWorker{err: errors.New("broker gone")}
	idle := &fakeWorker{}

	err := NewRunner([]Worker{failing, idle}, nil).Start(context.Background())

	assert.EqualError(t, err, "broker gone")
	assert.True(t, failing.closed)
	assert.True(t, idle.closed)
}
