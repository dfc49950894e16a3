// Package xsync adapts the concurrency-control and retry idioms used
// elsewhere in the codebase to the orchestration engine's needs: a
// context-aware bounded-concurrency semaphore, and a retry-with-backoff
// helper for the transient failure classes (ModelError, RetrievalError)
// that are expected to succeed on a later attempt.
package xsync

import "context"

// Limiter restricts the number of concurrent operations to a configurable
// maximum, the same semaphore-over-a-buffered-channel shape used
// elsewhere in the codebase, extended with a context-aware Acquire so a
// goroutine blocked waiting for a slot can still honor job cancellation.
type Limiter struct {
	semaphore chan struct{}
}

// NewLimiter returns a Limiter allowing at most max concurrent holders.
// Panics if max <= 0.
func NewLimiter(max int) *Limiter {
	if max <= 0 {
		panic("xsync: max must be > 0")
	}
	return &Limiter{semaphore: make(chan struct{}, max)}
}

// Acquire blocks until a slot is free or ctx is done, whichever comes
// first.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot acquired by Acquire.
func (l *Limiter) Release() {
	<-l.semaphore
}
