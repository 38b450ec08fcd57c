package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter caps LLM tokens spent per refill period.
type TokenLimiter struct {
	sync.Mutex
	capacity     int
	remaining    int
	refillPeriod time.Duration
	lastRefill   time.Time
	now          func() time.Time
}

func NewTokenLimiter(tokensPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		capacity:     tokensPerMinute,
		remaining:    tokensPerMinute,
		refillPeriod: time.Minute,
		lastRefill:   time.Now(),
		now:          time.Now,
	}
}

// Wait blocks until tokens are available. Requests larger than the capacity are clipped to it.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if tokens > l.capacity {
		tokens = l.capacity
	}
	for {
		if l.take(tokens) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (l *TokenLimiter) take(tokens int) bool {
	l.Lock()
	defer l.Unlock()

	if now := l.now(); now.Sub(l.lastRefill) >= l.refillPeriod {
		l.remaining = l.capacity
		l.lastRefill = now
	}
	if l.remaining < tokens {
		return false
	}
	l.remaining -= tokens
	return true
}

func (l *TokenLimiter) GetRemaining() int {
	l.Lock()
	defer l.Unlock()
	return l.remaining
}
