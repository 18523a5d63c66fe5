package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// OwnerRateLimiter applies per-store rate limiting so one busy till cannot
// starve the others. Unauthenticated requests pass through untouched; the
// public surface is just auth and health.
type OwnerRateLimiter struct {
	limiters    map[uuid.UUID]*limiterEntry
	mu          sync.Mutex
	rate        rate.Limit
	burst       int
	cleanupTick time.Duration
	entryTTL    time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewOwnerRateLimiter creates a limiter allowing requests per-second with
// the given burst. Idle entries are dropped in the background.
func NewOwnerRateLimiter(requestsPerSecond float64, burst int) *OwnerRateLimiter {
	rl := &OwnerRateLimiter{
		limiters:    make(map[uuid.UUID]*limiterEntry),
		rate:        rate.Limit(requestsPerSecond),
		burst:       burst,
		cleanupTick: 5 * time.Minute,
		entryTTL:    10 * time.Minute,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *OwnerRateLimiter) getLimiter(ownerID uuid.UUID) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if entry, exists := rl.limiters[ownerID]; exists {
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[ownerID] = &limiterEntry{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (rl *OwnerRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-rl.entryTTL)
		for ownerID, entry := range rl.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(rl.limiters, ownerID)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware returns a Gin middleware that enforces the per-owner limit.
func (rl *OwnerRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerIDVal, exists := c.Get("owner_id")
		if !exists {
			c.Next()
			return
		}
		ownerID, ok := ownerIDVal.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		limiter := rl.getLimiter(ownerID)
		if !limiter.Allow() {
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}
