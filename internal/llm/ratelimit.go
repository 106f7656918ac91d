package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter spaces model calls to a requests-per-minute budget. Tokens
// accrue continuously up to burst and are counted on demand, so nothing runs
// in the background.
type RateLimiter struct {
	now      func() time.Time
	last     time.Time
	interval time.Duration
	tokens   float64
	burst    float64
	mu       sync.Mutex
}

// NewRateLimiter allows requestsPerMinute calls on average with at most burst
// issued back to back. A non-positive rate means 60; a non-positive burst
// means a full minute's worth.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = requestsPerMinute
	}

	rl := &RateLimiter{
		now:      time.Now,
		interval: time.Minute / time.Duration(requestsPerMinute),
		tokens:   float64(burst),
		burst:    float64(burst),
	}
	rl.last = rl.now()
	return rl
}

// Wait blocks until a call may proceed or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait, ok := rl.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(max(wait, time.Millisecond))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// TryAcquire takes a token if one is available.
func (rl *RateLimiter) TryAcquire() bool {
	_, ok := rl.reserve()
	return ok
}

// reserve takes a token, or reports how long until the next one accrues.
func (rl *RateLimiter) reserve() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if elapsed := now.Sub(rl.last); elapsed > 0 {
		rl.tokens = min(rl.burst, rl.tokens+float64(elapsed)/float64(rl.interval))
	}
	rl.last = now

	if rl.tokens >= 1 {
		rl.tokens--
		return 0, true
	}
	return time.Duration((1 - rl.tokens) * float64(rl.interval)), false
}
