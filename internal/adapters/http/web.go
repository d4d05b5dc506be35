package web

import (
	"crypto/rand"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"churchdesk/internal/adapters/http/middleware"
	"churchdesk/internal/adapters/http/perf"
	"churchdesk/internal/adapters/metrics"
	"churchdesk/internal/application/registry"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultRateLimitPerSecond is the per-IP request budget.
const DefaultRateLimitPerSecond = 20

// Options configures the web front end.
type Options struct {
	App                *registry.App
	Collector          *perf.Collector  // optional, feeds /api/perf
	Metrics            *metrics.Metrics // optional, serves /metrics
	CSRFKey            []byte           // nil generates a per-process key
	SecureCookies      bool
	TrustedOrigins     []string
	AdminPasswordHash  string
	RateLimitPerSecond int
	SlowRequestMs      int
}

// Server holds the handler dependencies. Handlers are methods so tests can run
// several servers side by side.
type Server struct {
	app       *registry.App
	collector *perf.Collector
	metrics   *metrics.Metrics
	pages     map[string]*template.Template
}

// NewServer parses the embedded templates.
// PRE: opts.App is non-nil
// POST: Every page template is parsed against the shared layout
func NewServer(opts Options) (*Server, error) {
	if opts.App == nil {
		return nil, errors.New("web: App is required")
	}
	pages, err := parsePages(templateFS)
	if err != nil {
		return nil, err
	}
	return &Server{app: opts.App, collector: opts.Collector, metrics: opts.Metrics, pages: pages}, nil
}

// NewMux wires HTTP handlers for the app.
func NewMux(opts Options) (http.Handler, error) {
	s, err := NewServer(opts)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	csrfKey := opts.CSRFKey
	if len(csrfKey) == 0 {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
		slog.Warn("config_event", "event", "random_csrf_key", "detail", "form tokens will not survive a restart")
	}

	rate := opts.RateLimitPerSecond
	if rate <= 0 {
		rate = DefaultRateLimitPerSecond
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	var observer middleware.RequestObserver
	if opts.Metrics != nil {
		observer = opts.Metrics
	}

	// innermost first: Observe must see the mux's matched pattern
	return middleware.Chain(mux,
		middleware.Observe(observer),
		middleware.CSRF(csrfKey, middleware.CSRFOptions{Secure: opts.SecureCookies, TrustedOrigins: opts.TrustedOrigins}),
		middleware.AdminAuth(opts.AdminPasswordHash),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.Timing(opts.Collector, opts.SlowRequestMs),
	), nil
}

// parsePages pairs layout.html with each page template.
func parsePages(fsys fs.FS) (map[string]*template.Template, error) {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, path := range names {
		name := path[len("templates/"):]
		if name == "layout.html" {
			continue
		}
		tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(fsys, "templates/layout.html", path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}
