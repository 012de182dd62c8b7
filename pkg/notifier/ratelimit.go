// ratelimit.go implements the fixed-window admission gate.

package notifier

import (
	"sync"
	"time"
)

// RateLimiter admits at most limit events per window. Windows are fixed, not
// sliding, so a burst of up to 2*limit can straddle a window boundary.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithClock replaces time.Now. Intended for tests.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRateLimiter creates a limiter. A limit of zero or less rejects everything.
func NewRateLimiter(limit int, window time.Duration, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.windowStart = r.now()
	return r
}

// Allow reports whether one more event may pass. Rejections do not count
// against the window.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.windowStart) > r.window {
		r.count = 0
		r.windowStart = now
	}

	if r.count >= r.limit {
		return false
	}
	r.count++
	return true
}
