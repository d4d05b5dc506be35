package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"churchdesk/internal/adapters/console"
	"churchdesk/internal/application/registry"
	"churchdesk/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	// Menu output owns stdout, so logs go to stderr.
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := registry.Boot(ctx, cfg, nil, nil)
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}
	defer app.Close()

	c := console.New(app, os.Stdout, filepath.Join(cfg.DataDir, "exports"))
	if err := c.Run(ctx, os.Stdin); err != nil {
		log.Fatalf("console failed: %v", err)
	}
}
