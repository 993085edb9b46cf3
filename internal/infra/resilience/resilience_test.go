package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryWithBackoff_SucceedsFirstTry(t *testing.T) {
	cfg := Config{MaxRetries: 3, InitialBackoff: 1 * time.Millisecond}

	callCount := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetryWithBackoff_SucceedsAfterRetries(t *testing.T) {
	cfg := Config{MaxRetries: 3, InitialBackoff: 1 * time.Millisecond}

	callCount := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		callCount++
		if callCount < 3 {
			return errors.New("transient failure")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	cfg := Config{MaxRetries: 2, InitialBackoff: 1 * time.Millisecond}

	wantErr := errors.New("persistent failure")
	callCount := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		callCount++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("expected the last error, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls (1 + 2 retries), got %d", callCount)
	}
}

func TestRetryWithBackoff_RespectsContextCancellation(t *testing.T) {
	cfg := Config{MaxRetries: 10, InitialBackoff: 50 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := RetryWithBackoff(ctx, cfg, func() error {
		callCount++
		return errors.New("failure")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if callCount > 2 {
		t.Errorf("expected cancellation to stop retries early, got %d calls", callCount)
	}
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test")

	failing := func() (interface{}, error) {
		return nil, errors.New("downstream failure")
	}

	// Trip threshold: 5+ requests with a 60% failure ratio.
	for i := 0; i < 5; i++ {
		cb.Execute(failing)
	}

	_, err := cb.Execute(func() (interface{}, error) {
		return "ok", nil
	})
	if err == nil {
		t.Error("expected the open breaker to reject the call")
	}
}

func TestBulkhead_LimitsConcurrency(t *testing.T) {
	b := NewBulkhead(2)
	ctx := context.Background()

	if err := b.Acquire(ctx); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	if err := b.Acquire(ctx); err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}

	// Third slot is unavailable until a release.
	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := b.Acquire(timeoutCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded on a full bulkhead, got %v", err)
	}

	b.Release()
	if err := b.Acquire(ctx); err != nil {
		t.Errorf("acquire after release failed: %v", err)
	}
}

func TestBulkhead_MinimumCapacity(t *testing.T) {
	b := NewBulkhead(0)

	if err := b.Acquire(context.Background()); err != nil {
		t.Errorf("zero-capacity bulkhead should clamp to 1 slot: %v", err)
	}
}
