package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	web "churchdesk/internal/adapters/http"
	"churchdesk/internal/adapters/http/perf"
	"churchdesk/internal/adapters/metrics"
	"churchdesk/internal/application/registry"
	"churchdesk/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	slog.SetDefault(cfg.NewLogger(os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Performance instrumentation: request and query timings feed /api/perf
	collector := perf.NewCollector(perf.DefaultRingSize)
	m := metrics.New()

	app, err := registry.Boot(ctx, cfg, collector, m)
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}
	defer app.Close()

	handler, err := web.NewMux(web.Options{
		App:               app,
		Collector:         collector,
		Metrics:           m,
		CSRFKey:           cfg.CSRFKey,
		SecureCookies:     cfg.Production(),
		AdminPasswordHash: cfg.AdminPasswordHash,
		SlowRequestMs:     cfg.SlowRequestMs,
	})
	if err != nil {
		log.Fatalf("failed to build handler: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server_event", "event", "shutdown_failed", "error", err)
		}
	}()

	slog.Info("server_event", "event", "starting", "version", version, "addr", srv.Addr, "env", cfg.Env, "partner_backend", cfg.PartnerBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
	slog.Info("server_event", "event", "stopped")
}
