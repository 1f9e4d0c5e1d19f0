package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// maxTrackedKeys bounds the limiter map; idle keys are pruned past it.
const maxTrackedKeys = 10_000

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter provides per-key rate limiting.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*keyLimiter
	limit  rate.Limit
	burst  int
	idle   time.Duration
}

// NewRateLimiter creates a new rate limiter allowing perSecond requests per
// key with the given burst.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*keyLimiter),
		limit:  rate.Limit(perSecond),
		burst:  burst,
		idle:   10 * time.Minute,
	}
}

// getLimiter gets or creates a limiter for the given key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if kl, ok := rl.limits[key]; ok {
		kl.lastSeen = now
		return kl.limiter
	}

	if len(rl.limits) >= maxTrackedKeys {
		for k, kl := range rl.limits {
			if now.Sub(kl.lastSeen) > rl.idle {
				delete(rl.limits, k)
			}
		}
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limits[key] = &keyLimiter{limiter: limiter, lastSeen: now}
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware rejects requests over the limit with 429, keyed by client IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"code":    "RATE_LIMITED",
					"message": "too many requests",
				})
			}
			return next(c)
		}
	}
}
