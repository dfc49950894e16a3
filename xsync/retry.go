package xsync

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy is the documented transient-failure retry schedule: up to
// three attempts beyond the first, waiting 1s, 2s, then 4s between them.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	Multiplier      float64
}

// DefaultRetryPolicy is the 1s/2s/4s, three-retry schedule applied to
// transient ModelError and RetrievalError failures.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: time.Second, Multiplier: 2}
}

// Retry runs fn, retrying according to p whenever isRetryable(err) reports
// true for the error fn returned. A non-retryable error, or exhausting
// MaxRetries, returns immediately with that error. ctx cancellation aborts
// the retry loop.
func Retry(ctx context.Context, p RetryPolicy, isRetryable func(error) bool, fn func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0 // bounded by MaxRetries below, not wall-clock time

	bounded := backoff.WithMaxRetries(b, uint64(p.MaxRetries))
	withCtx := backoff.WithContext(bounded, ctx)

	return backoff.Retry(func() error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, withCtx)
}
