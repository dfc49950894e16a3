package xsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient failure")
var errPermanent = errors.New("permanent failure")

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: time.Millisecond, Multiplier: 2}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastPolicy(), func(error) bool { return true }, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_NonRetryableErrorReturnsImmediately(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastPolicy(), func(error) bool { return false }, func(ctx context.Context) error {
		attempts++
		return errPermanent
	})

	assert.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, attempts)
}

func TestRetry_ExhaustingMaxRetriesReturnsLastError(t *testing.T) {
	attempts := 0
	policy := RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, Multiplier: 2}
	err := Retry(context.Background(), policy, func(error) bool { return true }, func(ctx context.Context) error {
		attempts++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, attempts, "1 initial attempt + 2 retries")
}

func TestRetry_ContextCancellationAbortsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Retry(ctx, RetryPolicy{MaxRetries: 10, InitialInterval: 20 * time.Millisecond, Multiplier: 2}, func(error) bool { return true }, func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			cancel()
		}
		return errTransient
	})

	assert.Error(t, err)
	assert.LessOrEqual(t, attempts, 2)
}
