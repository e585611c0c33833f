package gateway

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitInfo captures limiter response metadata.
type RateLimitInfo struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

// MemoryLimiter is a token bucket per key refilled at perMinute tokens a
// minute, holding at most burst tokens.
type MemoryLimiter struct {
	perMinute int
	burst     int
	idleTTL   time.Duration
	now       func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastPrune time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter builds an in-process limiter.
func NewMemoryLimiter(perMinute, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		perMinute: max(perMinute, 1),
		burst:     max(burst, 1),
		idleTTL:   10 * time.Minute,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
	}
}

// Allow takes one token for key if available.
func (m *MemoryLimiter) Allow(key string) RateLimitInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.prune(now)

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.rate(), m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now

	info := RateLimitInfo{Limit: m.perMinute}
	r := b.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); !r.OK() || delay > 0 {
		r.CancelAt(now)
		info.RetryAfter = delay
		info.Reset = now.Add(delay)
		return info
	}

	tokens := b.limiter.TokensAt(now)
	info.Allowed = true
	info.Remaining = int(math.Max(0, math.Floor(tokens)))
	info.Reset = now.Add(time.Duration((float64(m.burst) - tokens) / float64(m.rate()) * float64(time.Second)))
	return info
}

func (m *MemoryLimiter) rate() rate.Limit {
	return rate.Limit(float64(m.perMinute) / 60)
}

func (m *MemoryLimiter) prune(now time.Time) {
	if now.Sub(m.lastPrune) < time.Minute {
		return
	}
	m.lastPrune = now
	for k, b := range m.buckets {
		if now.Sub(b.lastSeen) > m.idleTTL {
			delete(m.buckets, k)
		}
	}
}

// RateLimit throttles requests per client IP and reports the bucket state
// in X-RateLimit-* headers.
func RateLimit(limiter *MemoryLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			info := limiter.Allow("ip:" + c.RealIP())
			setRateLimitHeaders(c, info)
			if !info.Allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}

func setRateLimitHeaders(c echo.Context, info RateLimitInfo) {
	h := c.Response().Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(info.Reset.Unix(), 10))
	if !info.Allowed {
		h.Set("Retry-After", strconv.Itoa(int(math.Ceil(info.RetryAfter.Seconds()))))
	}
}
