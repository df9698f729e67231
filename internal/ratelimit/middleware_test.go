package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	result Result
	err    error
	keys   []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (Result, error) {
	f.keys = append(f.keys, key)
	return f.result, f.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAllowsAndSetsHeaders(t *testing.T) {
	reset := time.Now().Add(30 * time.Second)
	limiter := &fakeLimiter{result: Result{Allowed: true, Limit: 120, Remaining: 119, ResetAt: reset}}
	h := Handler{
		Limiter: limiter,
		Config:  Config{Key: func(r *http.Request) string { return r.RemoteAddr }},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates/years", nil)
	h.Middleware(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "120", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "119", rec.Header().Get("X-RateLimit-Remaining"))
	require.Len(t, limiter.keys, 1)
}

func TestMiddlewareRejectsWhenExhausted(t *testing.T) {
	limiter := &fakeLimiter{result: Result{Allowed: false, Limit: 10, Remaining: 0, ResetAt: time.Now().Add(time.Minute)}}
	h := Handler{
		Limiter: limiter,
		Config:  Config{Key: func(*http.Request) string { return "k" }},
	}

	rec := httptest.NewRecorder()
	h.Middleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestMiddlewareFailsOpen(t *testing.T) {
	var seen error
	h := Handler{
		Limiter: &fakeLimiter{err: errors.New("store down")},
		Config:  Config{Key: func(*http.Request) string { return "k" }},
		OnError: func(err error) { seen = err },
	}

	rec := httptest.NewRecorder()
	h.Middleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Error(t, seen)
}

func TestMiddlewareWithoutKeyPassesThrough(t *testing.T) {
	h := Handler{Limiter: &fakeLimiter{}}
	rec := httptest.NewRecorder()
	h.Middleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMemoryLimiterCountsDown(t *testing.T) {
	limiter := NewMemory(time.Minute, 2)
	ctx := context.Background()

	first, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, first.Allowed)
	require.EqualValues(t, 2, first.Limit)
	require.EqualValues(t, 1, first.Remaining)

	second, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, second.Allowed)

	third, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, third.Allowed)

	other, err := limiter.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	require.True(t, other.Allowed)
}
