package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// idleBucketTTL is how long a silent client keeps its bucket.
const idleBucketTTL = 5 * time.Minute

// sweepAbove is the client count beyond which idle buckets are dropped on the next new client.
const sweepAbove = 1024

// RateLimiter is a per-client token bucket. Each client may burst up to rate
// requests, and tokens flow back continuously at rate per interval.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64
	interval time.Duration
	now      func() time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter allows rate requests per interval for each client.
// PRE: rate > 0; interval > 0
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     float64(rate),
		interval: interval,
		now:      time.Now,
	}
}

// Reserve takes a token for client. When none is left it returns false and how
// long until one is.
func (rl *RateLimiter) Reserve(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[client]
	if !ok {
		if len(rl.buckets) > sweepAbove {
			for k, old := range rl.buckets {
				if now.Sub(old.seen) > idleBucketTTL {
					delete(rl.buckets, k)
				}
			}
		}
		b = &bucket{tokens: rl.rate, seen: now}
		rl.buckets[client] = b
	}

	perToken := float64(rl.interval) / rl.rate
	b.tokens = math.Min(rl.rate, b.tokens+float64(now.Sub(b.seen))/perToken)
	b.seen = now
	if b.tokens < 1 {
		return false, time.Duration((1 - b.tokens) * perToken)
	}
	b.tokens--
	return true, 0
}

// Allow reports whether client may make a request now.
func (rl *RateLimiter) Allow(client string) bool {
	ok, _ := rl.Reserve(client)
	return ok
}

// clientIP strips the port from RemoteAddr so one client keeps one bucket across connections.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit refuses requests over the client's budget with 429 and a Retry-After in whole seconds.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ok, wait := limiter.Reserve(ip)
			if !ok {
				secs := max(int(math.Ceil(wait.Seconds())), 1)
				slog.Warn("security_event", "event", "rate_limited", "ip", ip, "path", r.URL.Path, "retry_after_s", secs)
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
