package worker

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	if got := limiter.getLimiter("version-space").Limit(); got != rate.Inf {
		t.Fatalf("expected unlimited rate, got %v", got)
	}

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := limiter.Wait(context.Background(), "version-space"); err != nil {
			t.Fatalf("wait %d failed: %v", i, err)
		}
	}
	if d := time.Since(start); d > 50*time.Millisecond {
		t.Errorf("expected unlimited waits to return at once, took %v", d)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "current-best"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "version-space"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitCanceled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := limiter.Wait(ctx, "k"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	cancel()
	if err := limiter.Wait(ctx, "k"); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if err := limiter.Wait(context.Background(), "version-space"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}
	if limiter.getLimiter("version-space").Allow() {
		t.Errorf("expected version-space tokens to be exhausted")
	}
	if !limiter.getLimiter("current-best").Allow() {
		t.Errorf("expected a token for current-best")
	}
}

func TestLimiter_SetKeyRate(t *testing.T) {
	limiter := NewLimiter(0, 3)
	limiter.SetKeyRate("version-space", 0.1, 1)

	vs := limiter.getLimiter("version-space")
	if vs.Limit() != 0.1 || vs.Burst() != 1 {
		t.Errorf("expected 0.1/s burst 1, got %v/s burst %d", vs.Limit(), vs.Burst())
	}
	if got := limiter.getLimiter("current-best").Limit(); got != rate.Inf {
		t.Errorf("expected other keys to keep the shared rate, got %v", got)
	}

	limiter.SetKeyRate("version-space", 0, 0)
	vs = limiter.getLimiter("version-space")
	if vs.Limit() != rate.Inf || vs.Burst() != 3 {
		t.Errorf("expected unlimited with default burst 3, got %v/s burst %d", vs.Limit(), vs.Burst())
	}
}
