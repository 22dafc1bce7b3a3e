package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy bounds how often a transient failure is retried. It is used
// for the text-source fetch; chunk processing is never retried, since a
// silently re-run chunk could mask an incomplete book.
type RetryPolicy struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	Jitter         bool
}

// DefaultRetryPolicy returns the policy applied to book fetches.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     2,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     15 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         true,
	}
}

// TransientError marks a failure as worth retrying. Anything not wrapped in
// it fails immediately.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// MarkTransient wraps err so Retry will attempt it again.
func MarkTransient(err error) error {
	return &TransientError{Err: err}
}

// IsTransient checks whether an error chain contains a transient marker.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var transient *TransientError
	return errors.As(err, &transient)
}

// Retry executes fn with exponential backoff until it succeeds, returns a
// non-transient error, or the policy's attempts are exhausted.
func Retry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if !IsTransient(err) {
			return err
		}

		if attempt == policy.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(backoffFor(policy, attempt)):
		}
	}

	return fmt.Errorf("max retries exceeded (%d): %w", policy.MaxRetries, lastErr)
}

// backoffFor computes the wait before the next attempt.
func backoffFor(policy RetryPolicy, attempt int) time.Duration {
	backoff := float64(policy.InitialBackoff) * math.Pow(policy.BackoffFactor, float64(attempt))
	if backoff > float64(policy.MaxBackoff) {
		backoff = float64(policy.MaxBackoff)
	}

	duration := time.Duration(backoff)

	if policy.Jitter {
		jitter := time.Duration((rand.Float64()*2 - 1) * 0.1 * float64(duration))
		duration += jitter
	}

	return duration
}
