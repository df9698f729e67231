package ratelimit

import (
	"context"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Result carries the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// Limiter reports whether a request under the given key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// MemoryLimiter enforces a fixed rate per key backed by an in-process store.
type MemoryLimiter struct {
	inner *limiter.Limiter
}

// NewMemory constructs an in-memory limiter allowing max requests per window.
func NewMemory(window time.Duration, max int) MemoryLimiter {
	rate := limiter.Rate{Period: window, Limit: int64(max)}
	return MemoryLimiter{inner: limiter.New(memory.NewStore(), rate)}
}

// Allow consumes one token for the key and reports the limiter state.
func (m MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	if m.inner == nil {
		return Result{Allowed: true}, nil
	}
	lctx, err := m.inner.Get(ctx, key)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Allowed:   !lctx.Reached,
		Limit:     lctx.Limit,
		Remaining: lctx.Remaining,
		ResetAt:   time.Unix(lctx.Reset, 0),
	}, nil
}
