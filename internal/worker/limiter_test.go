package worker

import (
	"context"
	"testing"
	"time"
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
	for i := 0; i < 100; i++ {
		if !limiter.Allow("ollama") {
			t.Fatalf("expected unlimited limiter to allow call %d", i)
		}
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1) // 100 rps, burst 1
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different provider should also work
	if err := limiter.Wait(ctx, "anthropic"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitCanceled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	limiter.Allow("openai")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "openai"); err == nil {
		t.Error("expected wait to fail when the deadline is shorter than the next token")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst 1 means the token is consumed
	if limiter.Allow("openai") {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Different provider should be allowed
	if !limiter.Allow("ollama") {
		t.Errorf("expected allow for other provider")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(10, 10) // fast default

	limiter.SetRate("anthropic", 0.1, 1) // very slow

	if !limiter.Allow("anthropic") {
		t.Errorf("first request should pass")
	}

	if limiter.Allow("anthropic") {
		t.Errorf("second request should fail")
	}

	if !limiter.Allow("openai") {
		t.Errorf("other provider should pass")
	}
}
