package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/valvecheck-backend-go/internal/service"
	"github.com/jengzang/valvecheck-backend-go/pkg/response"
)

// KeyFunc picks the bucket a request is counted against
type KeyFunc func(c *gin.Context) string

// RateLimiter is a sliding-window limiter over arbitrary keys
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int           // Requests per window
	window time.Duration // Window length
	now    func() time.Time
}

func newLimiter(limit int, window time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    now,
	}
}

// NewRateLimiter creates a limiter and starts its sweeper
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := newLimiter(limit, window, time.Now)
	go rl.run()
	return rl
}

func (rl *RateLimiter) run() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for range ticker.C {
		rl.sweep()
	}
}

// sweep drops keys with no hits inside the window
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, times := range rl.hits {
		if live := rl.recent(times, now); len(live) > 0 {
			rl.hits[key] = live
		} else {
			delete(rl.hits, key)
		}
	}
}

// recent filters times in place to those inside the window
func (rl *RateLimiter) recent(times []time.Time, now time.Time) []time.Time {
	live := times[:0]
	for _, t := range times {
		if now.Sub(t) < rl.window {
			live = append(live, t)
		}
	}
	return live
}

// Allow records a hit for key unless the window is already full
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	live := rl.recent(rl.hits[key], now)
	if len(live) >= rl.limit {
		rl.hits[key] = live
		return false
	}
	rl.hits[key] = append(live, now)
	return true
}

// ClientKey counts requests carrying a valid operator token against that
// operator and everything else against the client IP. A nil tokens service
// always keys by IP.
func ClientKey(tokens *service.TokenService) KeyFunc {
	return func(c *gin.Context) string {
		if tokens != nil {
			if raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
				if claims, err := tokens.Validate(strings.TrimSpace(raw)); err == nil {
					return "operator:" + claims.Operator
				}
			}
		}
		return "ip:" + c.ClientIP()
	}
}

// RateLimit limits requests per operator or client IP
func RateLimit(limit int, window time.Duration, tokens *service.TokenService) gin.HandlerFunc {
	return RateLimitWith(NewRateLimiter(limit, window), ClientKey(tokens))
}

// RateLimitWith wraps an existing limiter
func RateLimitWith(limiter *RateLimiter, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(key(c)) {
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}
