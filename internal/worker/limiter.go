package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces job starts per key (one bucket per algorithm in batch runs)
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. jobsPerSecond <= 0 disables pacing.
func NewLimiter(jobsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if jobsPerSecond > 0 {
		limit = rate.Limit(jobsPerSecond)
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until key may start another job
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
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

// SetKeyRate sets a custom rate for one key. jobsPerSecond <= 0 lifts the
// limit for that key, burst <= 0 keeps the default burst.
func (l *Limiter) SetKeyRate(key string, jobsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	limit := rate.Inf
	if jobsPerSecond > 0 {
		limit = rate.Limit(jobsPerSecond)
	}
	l.limiters[key] = rate.NewLimiter(limit, burst)
}
