package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api/httpx"
)

// Limiter decides whether one more request for key fits the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type tokenBucket struct {
	tokens int
	last   time.Time
}

// MemoryLimiter is a per-key token bucket refilled at rps and capped at rps.
type MemoryLimiter struct {
	mu      sync.Mutex
	rate    int
	buckets map[string]*tokenBucket
	now     func() time.Time
}

func NewMemoryLimiter(rps int) *MemoryLimiter {
	return &MemoryLimiter{rate: rps, buckets: make(map[string]*tokenBucket), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	tb, ok := l.buckets[key]
	if !ok {
		tb = &tokenBucket{tokens: l.rate, last: now}
		l.buckets[key] = tb
	}
	elapsed := now.Sub(tb.last).Seconds()
	if elapsed > 0 {
		refill := int(elapsed * float64(l.rate))
		if refill > 0 {
			tb.tokens += refill
			if tb.tokens > l.rate {
				tb.tokens = l.rate
			}
			tb.last = now
		}
	}
	if tb.tokens <= 0 {
		return false
	}
	tb.tokens--
	return true
}

// Sweep drops buckets idle for longer than idle.
func (l *MemoryLimiter) Sweep(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-idle)
	for k, tb := range l.buckets {
		if tb.last.Before(cutoff) {
			delete(l.buckets, k)
		}
	}
}

// RateLimit rejects with 429 once the client's budget is spent. A nil
// limiter disables limiting.
func RateLimit(l Limiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r.Context(), clientKey(r)) {
				httpx.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey is the peer address. Forwarding headers are only honoured when the
// router installs chi's RealIP, which rewrites RemoteAddr.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
