package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"churchdesk/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// requestIDCounter numbers requests for log correlation.
var requestIDCounter atomic.Uint64

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// statusWriterPool reduces allocations on the hot path.
var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

// routeName labels a request for the perf ring. Path segments holding record ids
// (UUIDs, or sequential ids such as M001 and WC012) collapse to {id}, so every
// partner does not get its own row.
func routeName(method, path string) string {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if isRecordID(seg) {
			segs[i] = "{id}"
		}
	}
	return method + " " + strings.Join(segs, "/")
}

func isRecordID(seg string) bool {
	if _, err := uuid.Parse(seg); err == nil {
		return true
	}
	// Sequential ids: an upper-case prefix followed by digits.
	i := 0
	for i < len(seg) && seg[i] >= 'A' && seg[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(seg) {
		return false
	}
	for _, c := range seg[i:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Timing returns middleware that logs request duration.
// Requests to /static/ are excluded.
// Normal requests log at DEBUG; requests at or above slowMs log at WARN.
// A slowMs of zero or less falls back to DefaultSlowRequestMs.
// If collector is non-nil, entries are recorded for /api/perf.
func Timing(collector *perf.Collector, slowMs int) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := time.Duration(slowMs) * time.Millisecond

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if strings.HasPrefix(path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := requestIDCounter.Add(1)

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				elapsed := time.Since(start)
				level, msg := slog.LevelDebug, "request"
				if elapsed >= threshold {
					level, msg = slog.LevelWarn, "slow_request"
				}
				slog.Log(r.Context(), level, msg,
					"request_id", reqID,
					"method", r.Method,
					"path", path,
					"status", sw.status,
					"duration_ms", float64(elapsed.Microseconds())/1000.0,
				)

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:     perf.KindRequest,
						Name:     routeName(r.Method, path),
						Status:   sw.status,
						Failed:   sw.status >= http.StatusInternalServerError,
						Duration: elapsed,
						At:       start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// RequestObserver receives one observation per routed request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// UnmatchedRoute labels requests the mux had no pattern for.
const UnmatchedRoute = "unmatched"

// Observe returns middleware that reports request latency by mux pattern.
// It must wrap the ServeMux directly: the mux records the matched pattern on the
// request it was handed, and any outer middleware that copies the request never sees it.
func Observe(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if observer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			route := r.Pattern
			if route == "" {
				route = UnmatchedRoute
			}
			observer.ObserveRequest(r.Method, route, sw.status, time.Since(start))
		})
	}
}
