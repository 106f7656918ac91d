package llm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t  time.Time
	mu sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newFrozenLimiter(rpm, burst int) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(rpm, burst)
	rl.now = clock.Now
	rl.last = clock.Now()
	return rl, clock
}

func TestRateLimiter(t *testing.T) {
	t.Run("burst then refill", func(t *testing.T) {
		rl, clock := newFrozenLimiter(60, 3)

		for i := 0; i < 3; i++ {
			assert.True(t, rl.TryAcquire(), "attempt %d", i+1)
		}
		assert.False(t, rl.TryAcquire())

		clock.Advance(500 * time.Millisecond)
		assert.False(t, rl.TryAcquire())

		clock.Advance(500 * time.Millisecond)
		assert.True(t, rl.TryAcquire())
		assert.False(t, rl.TryAcquire())
	})

	t.Run("idle time never exceeds burst", func(t *testing.T) {
		rl, clock := newFrozenLimiter(60, 2)
		clock.Advance(time.Hour)

		assert.True(t, rl.TryAcquire())
		assert.True(t, rl.TryAcquire())
		assert.False(t, rl.TryAcquire())
	})

	t.Run("reports time until next token", func(t *testing.T) {
		rl, clock := newFrozenLimiter(60, 1)
		require.True(t, rl.TryAcquire())

		clock.Advance(250 * time.Millisecond)
		wait, ok := rl.reserve()
		assert.False(t, ok)
		assert.Equal(t, 750*time.Millisecond, wait)
	})

	t.Run("defaults", func(t *testing.T) {
		rl, _ := newFrozenLimiter(0, 0)

		for i := 0; i < 60; i++ {
			require.True(t, rl.TryAcquire())
		}
		assert.False(t, rl.TryAcquire())
	})

	t.Run("wait blocks until refill", func(t *testing.T) {
		// 600 per minute accrues one token every 100ms
		rl := NewRateLimiter(600, 1)
		require.True(t, rl.TryAcquire())

		start := time.Now()
		require.NoError(t, rl.Wait(context.Background()))
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("context cancellation", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		require.NoError(t, rl.Wait(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() {
			done <- rl.Wait(ctx)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		err := <-done
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, err.Error(), "rate limiter canceled")
	})

	t.Run("concurrent access", func(t *testing.T) {
		rl, _ := newFrozenLimiter(100, 100)

		var (
			acquired int
			mu       sync.Mutex
			wg       sync.WaitGroup
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					if rl.TryAcquire() {
						mu.Lock()
						acquired++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, acquired)
	})
}
