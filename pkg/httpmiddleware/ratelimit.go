package httpmiddleware

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig configures the per-key sliding window limiter.
type RateLimitConfig struct {
	// Max is the request budget per window.
	Max int
	// Window is the sliding window length.
	Window time.Duration
	// KeyFunc derives the limiter key from a request. The default keys by
	// client IP, preferring proxy headers over RemoteAddr.
	KeyFunc func(*http.Request) string
}

// bucket records how many requests a single key made in the current window
// and the one before it.
type bucket struct {
	curStart  time.Time
	cur       float64
	prevStart time.Time
	prev      float64
}

type limiter struct {
	max    float64
	window time.Duration
	keyFn  func(*http.Request) string

	mu      sync.Mutex
	buckets map[string]*bucket
}

func newLimiter(cfg RateLimitConfig) *limiter {
	keyFn := cfg.KeyFunc
	if keyFn == nil {
		keyFn = clientKey
	}
	return &limiter{
		max:     float64(cfg.Max),
		window:  cfg.Window,
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
	}
}

// take records one request for key and reports whether it fits the budget.
// The request weight of the previous window decays linearly as the current
// window progresses, which smooths out the burst a fixed window permits at
// its boundary.
func (l *limiter) take(key string, now time.Time) (remaining int, resetAt time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{curStart: now}
		l.buckets[key] = b
	}

	if age := now.Sub(b.curStart); age >= l.window {
		b.prev, b.prevStart = b.cur, b.curStart
		b.cur = 0
		b.curStart = now.Truncate(l.window)
		if age >= 2*l.window {
			b.prev = 0
		}
	}

	weight := 1 - now.Sub(b.curStart).Seconds()/l.window.Seconds()
	if weight < 0 {
		weight = 0
	}
	used := b.prev*weight + b.cur
	resetAt = b.curStart.Add(l.window)

	if used >= l.max {
		return 0, resetAt, false
	}
	b.cur++
	used++

	if left := l.max - used; left > 0 {
		remaining = int(left)
	}
	return remaining, resetAt, true
}

// evictStale drops buckets untouched for two full windows.
func (l *limiter) evictStale(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if now.Sub(b.curStart) >= 2*l.window {
			delete(l.buckets, key)
		}
	}
}

func (l *limiter) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(2 * l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.evictStale(now)
		}
	}
}

// RateLimit enforces a per-key sliding window limit. Every response carries
// X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset; rejected
// requests get 429 with a JSON body and a Retry-After header.
//
// Stale keys are never evicted; prefer RateLimitWithCleanup for servers.
func RateLimit(cfg RateLimitConfig) Middleware {
	return newLimiter(cfg).middleware()
}

// RateLimitWithCleanup is RateLimit plus a background goroutine that evicts
// idle keys. The goroutine exits when ctx is cancelled.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	l := newLimiter(cfg)
	go l.evictLoop(ctx)
	return l.middleware()
}

func (l *limiter) middleware() Middleware {
	limit := strconv.Itoa(int(l.max))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, resetAt, ok := l.take(l.keyFn(r), time.Now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				wait := math.Ceil(time.Until(resetAt).Seconds())
				if wait < 0 {
					wait = 0
				}
				h.Set("Retry-After", strconv.Itoa(int(wait)))
				h.Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(struct {
					Code    int    `json:"code"`
					Message string `json:"message"`
				}{http.StatusTooManyRequests, "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey picks the client IP: the first X-Forwarded-For hop, then
// X-Real-IP, then the connection address.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
