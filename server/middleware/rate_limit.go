// Package middleware provides HTTP middleware shared by the server routes.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter

	limit rate.Limit
	burst int
}

// NewRateLimiter creates a rate limiter allowing rps requests per second
// with the given burst per client.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*rate.Limiter),
		limit:  rate.Limit(rps),
		burst:  burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limits[key] = limiter
	return limiter
}

// Allow reports whether a request for the given key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware rejects requests over the per-client budget with 429.
// Clients are keyed by IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				c.Response().Header().Set(echo.HeaderRetryAfter, time.Second.String())
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"code":    "RATE_LIMITED",
					"message": "too many requests",
				})
			}
			return next(c)
		}
	}
}
