package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits calls per key (the explanation provider name)
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter. A non-positive rate means unlimited.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until key may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow checks if a call is allowed without waiting
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// SetRate overrides the limit for one key
func (l *Limiter) SetRate(key string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[key] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[key] = limiter

	return limiter
}
