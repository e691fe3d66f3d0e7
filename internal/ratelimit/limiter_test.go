package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestBurstThenThrottle(t *testing.T) {
	rl := NewRateLimiter(1000.0, 3.0)

	for i := 0; i < 3; i++ {
		if !rl.tryAcquire() {
			t.Fatalf("burst acquire %d should succeed", i)
		}
	}
	if rl.tryAcquire() {
		t.Error("fourth immediate acquire should fail with empty bucket")
	}
}

func TestWaitRefills(t *testing.T) {
	rl := NewRateLimiter(100.0, 1.0)

	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	// Bucket is empty; the next token arrives after ~10ms.
	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("Expected Wait to block for refill, returned after %v", elapsed)
	}
}

func TestWaitRespectsContext(t *testing.T) {
	rl := NewRateLimiter(0.001, 1.0)
	if !rl.tryAcquire() {
		t.Fatal("initial acquire should succeed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}
