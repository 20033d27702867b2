package frameio

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle enforces the fixed inter-request delay that keeps the
// harvester under the provider's rate limit. It is a token bucket of
// depth one, so requests issued back to back each pay the full delay.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a throttle with the given inter-request delay.
// A non-positive delay disables throttling (used by tests).
func NewThrottle(delay time.Duration) *Throttle {
	if delay <= 0 {
		return &Throttle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the next request is allowed or ctx is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
