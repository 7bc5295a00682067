package notifier

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter paces outgoing sends with a token bucket. It only delays a
// send; it never turns a failed send into a second attempt.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows up to burst sends immediately, then refills at
// requestsPerSecond.
//
//	limiter := NewRateLimiter(0.5, 3)  // Discord webhooks: 30 req/min
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Allow blocks until a token is available or the context is done.
func (r *RateLimiter) Allow(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Limit returns the configured sustained rate.
func (r *RateLimiter) Limit() float64 {
	return float64(r.limiter.Limit())
}
