package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/pinpoint/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		ShouldRetry:  IsRetryable,
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &RetryableError{Err: errors.New("boom"), Retryable: true}
			}
			return nil
		}, fastRetry(3))

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return ErrUnauthorized
		}, fastRetry(3))

		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausted attempts keep the last cause", func(t *testing.T) {
		cause := errors.New("upstream 503")
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: cause, Retryable: true}
		}, fastRetry(3))

		require.ErrorIs(t, err, ErrMaxRetries)
		require.ErrorIs(t, err, cause)
		assert.Equal(t, 3, calls)
	})

	t.Run("context cancellation interrupts backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		opts := fastRetry(5)
		opts.InitialDelay = time.Second

		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			cancel()
			return &RetryableError{Err: errors.New("slow"), Retryable: true}
		}, opts)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("default predicate only honors RetryableError", func(t *testing.T) {
		calls := 0
		opts := fastRetry(3)
		opts.ShouldRetry = nil
		err := WithRetry(context.Background(), func() error {
			calls++
			return errors.New("plain")
		}, opts)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: false}))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(ErrUnauthorized))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	err := NewUserError("Text extraction failed", errors.New("503"))
	assert.Equal(t, "Text extraction failed", UserMessage(err))
	assert.Equal(t, "Text extraction failed: 503", err.Error())
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}
