package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds configuration for the rate limiter
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// EntryTTL is how long an idle key keeps its limiter
	EntryTTL time.Duration
}

// DefaultRateLimiterConfig returns the limits used for company summaries
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         5,
		EntryTTL:          10 * time.Minute,
	}
}

// KeyedRateLimiter applies one token bucket per key, e.g. per company.
// Idle keys are dropped lazily on access.
type KeyedRateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rateLimiterEntry
	rate        rate.Limit
	burst       int
	entryTTL    time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewKeyedRateLimiter(cfg RateLimiterConfig) *KeyedRateLimiter {
	defaults := DefaultRateLimiterConfig()
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = defaults.BurstSize
	}
	if cfg.EntryTTL <= 0 {
		cfg.EntryTTL = defaults.EntryTTL
	}

	return &KeyedRateLimiter{
		limiters:    make(map[string]*rateLimiterEntry),
		rate:        rate.Limit(cfg.RequestsPerSecond),
		burst:       cfg.BurstSize,
		entryTTL:    cfg.EntryTTL,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Allow reports whether a request for key may proceed now
func (rl *KeyedRateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

func (rl *KeyedRateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastCleanup) >= rl.entryTTL {
		rl.cleanup(now)
	}

	if entry, ok := rl.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = &rateLimiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// cleanup removes entries that haven't been used recently; callers hold mu
func (rl *KeyedRateLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-rl.entryTTL)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
	rl.lastCleanup = now
}

// Middleware limits requests per value of the given route parameter
func (rl *KeyedRateLimiter) Middleware(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param(param)
		if key == "" {
			key = c.ClientIP()
		}

		if !rl.Allow(key) {
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, please try again later"})
			return
		}

		c.Next()
	}
}
