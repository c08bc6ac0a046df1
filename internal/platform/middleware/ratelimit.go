package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig tunes the per-client request budget.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 50,
		BurstSize:         100,
	}
}

// clientBucket is the token-bucket state for one client IP.
type clientBucket struct {
	tokens   float64
	lastSeen time.Time
}

// limiter owns every client bucket behind a single lock. Buckets idle
// long enough to have refilled completely are pruned during normal
// traffic, so the map does not grow without bound.
type limiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	rate      float64
	burst     float64
	lastPrune time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	return &limiter{
		clients:   make(map[string]*clientBucket),
		rate:      cfg.RequestsPerSecond,
		burst:     float64(cfg.BurstSize),
		lastPrune: time.Now(),
	}
}

// take refills the client's bucket for the elapsed time and spends one
// token. When the bucket is empty it reports the whole seconds to wait
// before a token becomes available.
func (l *limiter) take(client string, now time.Time) (allowed bool, retryAfter int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) > time.Minute {
		l.prune(now)
	}

	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{tokens: l.burst}
		l.clients[client] = b
	} else {
		b.tokens = math.Min(l.burst, b.tokens+now.Sub(b.lastSeen).Seconds()*l.rate)
	}
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if l.rate <= 0 {
		return false, 1
	}
	return false, int(math.Ceil((1 - b.tokens) / l.rate))
}

// prune drops buckets idle long enough to have refilled to full; the
// caller must hold l.mu.
func (l *limiter) prune(now time.Time) {
	idle := time.Minute
	if l.rate > 0 {
		idle += time.Duration(l.burst/l.rate) * time.Second
	}
	for client, b := range l.clients {
		if now.Sub(b.lastSeen) > idle {
			delete(l.clients, client)
		}
	}
	l.lastPrune = now
}

// RateLimit throttles requests per client IP with a token bucket.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	l := newLimiter(cfg)
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', -1, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, wait := l.take(c.RealIP(), time.Now())

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limitHeader)
			if !ok {
				h.Set("Retry-After", strconv.Itoa(wait))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
