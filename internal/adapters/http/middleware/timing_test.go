package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"churchdesk/internal/adapters/http/perf"
)

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// captureLogs swaps the default logger for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// TestTimingMiddleware_EmitsEntry verifies that a request entry is recorded.
func TestTimingMiddleware_EmitsEntry(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(okHandler(http.StatusOK))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/members", nil))

	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimingMiddleware_SkipsStatic verifies static assets are excluded from timing.
func TestTimingMiddleware_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(okHandler(http.StatusOK))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/static/style.css", nil))

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0 (static excluded)", collector.TotalRecorded())
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTimingMiddleware_EntryFieldAccuracy verifies the recorded method, path and status.
func TestTimingMiddleware_EntryFieldAccuracy(t *testing.T) {
	collector := perf.NewCollector(1)
	handler := Timing(collector, 0)(okHandler(http.StatusCreated))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/partners", nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rr.Code)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestRoutes) != 1 {
		t.Fatalf("SlowestRoutes len = %d, want 1", len(snap.SlowestRoutes))
	}
	if snap.SlowestRoutes[0].Name != "POST /api/partners" {
		t.Errorf("Name = %q", snap.SlowestRoutes[0].Name)
	}
	if snap.ServerErrors != 0 {
		t.Errorf("ServerErrors = %d, want 0", snap.ServerErrors)
	}
}

// TestRouteName verifies record ids collapse to {id}.
func TestRouteName(t *testing.T) {
	tests := []struct {
		method, path, want string
	}{
		{"GET", "/members", "GET /members"},
		{"PUT", "/api/partners/3f2b8c1e-9a4d-4e2b-8f6a-1c2d3e4f5a6b", "PUT /api/partners/{id}"},
		{"POST", "/api/partners/3f2b8c1e-9a4d-4e2b-8f6a-1c2d3e4f5a6b/contributions", "POST /api/partners/{id}/contributions"},
		{"GET", "/members/M001", "GET /members/{id}"},
		{"GET", "/welfare/WC012", "GET /welfare/{id}"},
		{"GET", "/api/partnerships/summary", "GET /api/partnerships/summary"},
		{"GET", "/export/report.xlsx", "GET /export/report.xlsx"},
		{"GET", "/SMS", "GET /SMS"},
	}
	for _, tt := range tests {
		if got := routeName(tt.method, tt.path); got != tt.want {
			t.Errorf("routeName(%q, %q) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}

// TestTimingMiddleware_PoolNoStateLeak verifies pooled writers do not carry a status over.
func TestTimingMiddleware_PoolNoStateLeak(t *testing.T) {
	collector := perf.NewCollector(100)
	Timing(collector, 0)(okHandler(http.StatusInternalServerError)).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/fail", nil))
	if snap := collector.Snapshot(time.Now().Add(-time.Minute), 10); snap.ServerErrors != 1 {
		t.Errorf("ServerErrors = %d, want 1", snap.ServerErrors)
	}

	rr := httptest.NewRecorder()
	Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})).ServeHTTP(rr, httptest.NewRequest("GET", "/ok", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("second status = %d, want 200", rr.Code)
	}
}

// TestTimingMiddleware_HandlerPanic verifies the deferred record still runs.
func TestTimingMiddleware_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/panic", nil))
}

// TestTimingMiddleware_SlowThreshold verifies the configured threshold picks the log level.
func TestTimingMiddleware_SlowThreshold(t *testing.T) {
	logs := captureLogs(t)
	slow := Timing(nil, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Millisecond)
	}))
	slow.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/finance", nil))
	if !strings.Contains(logs.String(), "level=WARN msg=slow_request") {
		t.Errorf("expected slow_request warning, got %q", logs.String())
	}

	logs.Reset()
	fast := Timing(nil, 10_000)(okHandler(http.StatusOK))
	fast.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/finance", nil))
	if !strings.Contains(logs.String(), "level=DEBUG msg=request") {
		t.Errorf("expected debug request line, got %q", logs.String())
	}
}

type observation struct {
	method, route string
	status        int
}

type fakeObserver struct{ got []observation }

func (f *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.got = append(f.got, observation{method, route, status})
}

// TestObserve_UsesMuxPattern verifies route labels come from the matched pattern.
func TestObserve_UsesMuxPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/partners/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	obs := &fakeObserver{}
	handler := Observe(obs)(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("PUT", "/api/partners/abc", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nowhere", nil))

	if len(obs.got) != 2 {
		t.Fatalf("observations = %d, want 2", len(obs.got))
	}
	if obs.got[0] != (observation{"PUT", "PUT /api/partners/{id}", http.StatusNoContent}) {
		t.Errorf("first = %+v", obs.got[0])
	}
	if obs.got[1].route != UnmatchedRoute || obs.got[1].status != http.StatusNotFound {
		t.Errorf("second = %+v", obs.got[1])
	}
}

// BenchmarkTimingMiddleware measures per-request overhead.
func BenchmarkTimingMiddleware(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/api/bench", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
