// Package middleware holds HTTP middleware helpers shared by the routers.
package middleware

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRequestsPerSecond = 10
	defaultBurst             = 20
)

// RateLimiter throttles requests per account. Every account gets its own
// token bucket, created on first use.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	interval time.Duration
	burst    int
}

// NewRateLimiter creates a limiter allowing requestsPerSecond sustained
// requests with the given burst. Non-positive values fall back to the
// defaults.
func NewRateLimiter(requestsPerSecond, burst int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: time.Second / time.Duration(requestsPerSecond),
		burst:    burst,
	}
}

// AllowUser reports whether the account may make another request now.
func (rl *RateLimiter) AllowUser(userID int32) bool {
	return rl.limiterFor(fmt.Sprintf("user:%d", userID)).Allow()
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limiters[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Every(rl.interval), rl.burst)
	rl.limiters[key] = limiter
	return limiter
}
