package github

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/go-github/v66/github"
)

// RateLimiterStats provides statistics about rate limiter usage
type RateLimiterStats struct {
	Limit          int           `json:"limit"`
	Remaining      int           `json:"remaining"`
	ResetTime      time.Time     `json:"reset_time"`
	TotalWaits     int64         `json:"total_waits"`
	TotalDelayTime time.Duration `json:"total_delay_time"`
}

// RateLimiterConfig configures the rate limiter behavior
type RateLimiterConfig struct {
	// MaxWait is the longest Wait will block for an exhausted budget.
	// Beyond it Wait fails immediately with a rate limit error.
	MaxWait time.Duration
}

// DefaultRateLimiterConfig returns a default rate limiter configuration
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		MaxWait: 10 * time.Second,
	}
}

// RateLimiter tracks the GitHub rate limit budget reported by API responses
// and holds back requests once it is exhausted
type RateLimiter struct {
	config *RateLimiterConfig
	mu     sync.Mutex
	now    func() time.Time

	known     bool
	limit     int
	remaining int
	resetTime time.Time

	stats RateLimiterStats
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config *RateLimiterConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}

	return &RateLimiter{
		config: config,
		now:    time.Now,
	}
}

// Wait blocks until the budget allows another call. It returns immediately
// while the budget is unknown or not exhausted.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	delay := rl.delayLocked()
	if delay <= 0 {
		rl.mu.Unlock()
		return nil
	}

	if delay > rl.config.MaxWait {
		reset := rl.resetTime
		rl.mu.Unlock()
		return &Error{
			Type:      ErrorTypeRateLimit,
			Message:   fmt.Sprintf("Rate limit exhausted. Reset at %v", reset),
			Retryable: true,
		}
	}

	rl.stats.TotalWaits++
	rl.stats.TotalDelayTime += delay
	rl.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// Update records the rate limit reported by a response
func (rl *RateLimiter) Update(rate github.Rate) {
	if rate.Limit == 0 {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.known = true
	rl.limit = rate.Limit
	rl.remaining = rate.Remaining
	rl.resetTime = rate.Reset.Time
}

// GetDelay returns the current delay before the next API call
func (rl *RateLimiter) GetDelay() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return rl.delayLocked()
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() RateLimiterStats {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stats := rl.stats
	stats.Limit = rl.limit
	stats.Remaining = rl.remaining
	stats.ResetTime = rl.resetTime
	return stats
}

func (rl *RateLimiter) delayLocked() time.Duration {
	if !rl.known || rl.remaining > 0 {
		return 0
	}

	wait := rl.resetTime.Sub(rl.now())
	if wait < 0 {
		return 0
	}
	return wait
}
