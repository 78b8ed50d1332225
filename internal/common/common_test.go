package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/gofinances/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errBoom
			}
			return nil
		}, fastRetry(5))

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return errBoom
		}, fastRetry(2))

		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return Permanent(errBoom)
		}, fastRetry(5))

		assert.Equal(t, errBoom, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("rate limit keeps retrying", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls == 1 {
				return &RetryableError{Err: ErrRateLimit, Retryable: true}
			}
			return nil
		}, fastRetry(3))

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return errBoom
		}, service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(Permanent(errors.New("x"))))
	assert.False(t, IsRetryable(ErrNotFound))
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not load transactions", ErrNotFound)

	assert.Equal(t, "could not load transactions: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "could not load transactions", userErr.UserMessage)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&buf, slog.LevelWarn, "json")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "transaction_id", "abc")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"transaction_id":"abc"`)

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
