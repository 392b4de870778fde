// Package ratelimit provides a keyed token-bucket limiter for outbound requests.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key (for example a suggestion endpoint) gets its own bucket.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a keyed rate limiter.
// rps: requests per second allowed per key.
// burst: tokens available immediately per key.
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request for key may proceed now, without blocking.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.limiter(key).Allow()
}

// Wait blocks until a request for key is allowed or ctx is done.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.limiter(key).Wait(ctx)
}

// Keys returns the number of keys that have been seen.
func (krl *KeyedRateLimiter) Keys() int {
	krl.mu.RLock()
	defer krl.mu.RUnlock()
	return len(krl.limiters)
}

func (krl *KeyedRateLimiter) limiter(key string) *rate.Limiter {
	krl.mu.RLock()
	l, ok := krl.limiters[key]
	krl.mu.RUnlock()
	if ok {
		return l
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()
	if l, ok = krl.limiters[key]; ok {
		return l
	}
	l = rate.NewLimiter(krl.limit, krl.burst)
	krl.limiters[key] = l
	return l
}
