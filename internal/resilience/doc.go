// Package resilience groups the fault tolerance helpers used by the tracker.
//
//   - circuitbreaker: breakers for the match provider, each destination and the watermark store
//   - retry: exponential backoff with jitter, used while the database comes up at startup
//
// Inside a poll run nothing is retried: a breaker only turns repeated
// failures into fast ones, and the next scheduled run is the retry.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.StratzAPIConfig())
//	err := cb.Run(func() error {
//	    return fetch(ctx)
//	})
package resilience
