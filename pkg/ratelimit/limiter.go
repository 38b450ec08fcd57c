package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// LimiterStore hands out one limiter per key, e.g. per outbound provider.
type LimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	burst    int
}

func NewLimiterStore(r rate.Limit, burst int) *LimiterStore {
	return &LimiterStore{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

// PerMinute converts a request budget per minute into a rate.Limit. Non-positive means unlimited.
func PerMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(n) / 60)
}

func (s *LimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limiter, exists := s.limiters[key]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(s.r, s.burst)
	s.limiters[key] = limiter
	return limiter
}

// Register sets a dedicated limit for key, replacing any existing limiter.
func (s *LimiterStore) Register(key string, r rate.Limit, burst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[key] = rate.NewLimiter(r, burst)
}

func (s *LimiterStore) Wait(ctx context.Context, key string) error {
	return s.GetLimiter(key).Wait(ctx)
}
