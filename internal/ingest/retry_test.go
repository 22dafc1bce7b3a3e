package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func quickPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:     maxRetries,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), quickPolicy(3), func() error {
		attempts++
		if attempts < 3 {
			return MarkTransient(fmt.Errorf("attempt %d failed", attempts))
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), quickPolicy(3), func() error {
		attempts++
		return fmt.Errorf("permanent failure")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("a non-transient error must not be retried, got %d attempts", attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), quickPolicy(2), func() error {
		attempts++
		return MarkTransient(fmt.Errorf("still failing"))
	})

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("expected initial attempt plus 2 retries, got %d attempts", attempts)
	}
}

func TestRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Retry(ctx, quickPolicy(5), func() error {
		attempts++
		return MarkTransient(fmt.Errorf("transient"))
	})

	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt before cancellation, got %d", attempts)
	}
}

func TestIsTransient(t *testing.T) {
	if IsTransient(nil) {
		t.Error("nil is not transient")
	}
	if IsTransient(fmt.Errorf("plain")) {
		t.Error("a plain error is not transient")
	}
	if !IsTransient(MarkTransient(fmt.Errorf("flaky"))) {
		t.Error("a marked error must be transient")
	}
	if !IsTransient(fmt.Errorf("wrapped: %w", MarkTransient(fmt.Errorf("flaky")))) {
		t.Error("the marker must be found through wrapping")
	}
}

func TestErrorKinds(t *testing.T) {
	err := Errorf(KindFetchFailed, "fetch %s failed", "url")
	if kind := KindOf(err); kind != KindFetchFailed {
		t.Errorf("expected fetch_failed, got %s", kind)
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if kind := KindOf(wrapped); kind != KindFetchFailed {
		t.Errorf("kind must survive wrapping, got %s", kind)
	}

	if kind := KindOf(fmt.Errorf("plain")); kind != KindUnknown {
		t.Errorf("expected unknown kind for a plain error, got %s", kind)
	}
}
