// Package ratelimit throttles outbound provider calls per operation.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

type Limit struct {
	RequestsPerSecond float64
	BurstSize         int
}

// Config holds the fallback limit and per-operation overrides.
type Config struct {
	Default   Limit
	Overrides map[string]Limit
}

func DefaultConfig() Config {
	return Config{
		Default: Limit{RequestsPerSecond: 10, BurstSize: 10},
	}
}

// OperationLimiter lazily creates one token bucket per operation name.
type OperationLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	config   Config
}

func NewOperationLimiter(config Config) *OperationLimiter {
	l := &OperationLimiter{
		limiters: make(map[string]*rate.Limiter),
		config:   config,
	}
	for op, lim := range config.Overrides {
		l.limiters[op] = rate.NewLimiter(rate.Limit(lim.RequestsPerSecond), lim.BurstSize)
	}
	return l
}

func (l *OperationLimiter) limiter(op string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[op]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[op]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(l.config.Default.RequestsPerSecond), l.config.Default.BurstSize)
	l.limiters[op] = limiter
	return limiter
}

// Wait blocks until op may proceed or ctx is done. A nil limiter never blocks.
func (l *OperationLimiter) Wait(ctx context.Context, op string) error {
	if l == nil {
		return nil
	}
	return l.limiter(op).Wait(ctx)
}
