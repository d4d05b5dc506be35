package registry

import (
	"context"
	"fmt"
	"log/slog"

	"churchdesk/internal/adapters/email"
	"churchdesk/internal/adapters/http/perf"
	"churchdesk/internal/adapters/smsgateway"
	"churchdesk/internal/application/orchestrators"
	"churchdesk/internal/config"
)

// Boot opens the stores cfg describes, attaches the outbound adapters and seeds sample data when
// configured. Both the web server and the console start through here.
// PRE: cfg came from config.Load
// POST: Caller must Close the returned App
func Boot(ctx context.Context, cfg config.Config, collector *perf.Collector, rec Recorder) (*App, error) {
	stores, err := Open(Options{
		Backend:     cfg.PartnerBackend,
		DataDir:     cfg.DataDir,
		SQLitePath:  cfg.SQLitePath,
		SMSCredits:  cfg.SMSCredits,
		SlowQueryMs: cfg.SlowQueryMs,
		Collector:   collector,
	})
	if err != nil {
		return nil, err
	}

	app := &App{
		Stores:     stores,
		SMS:        smsgateway.NewLogGateway(),
		Metrics:    rec,
		QRValidity: cfg.QRValidity,
	}
	if cfg.ResendKey != "" {
		app.Email = email.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("config_event", "event", "email_sender", "sender", "resend", "from", cfg.EmailFrom)
	} else {
		app.Email = email.NewNoopSender()
		if cfg.Production() {
			slog.Warn("config_event", "event", "email_sender", "sender", "noop", "detail", "CHURCH_RESEND_KEY is not set, email broadcasts are not delivered")
		} else {
			slog.Info("config_event", "event", "email_sender", "sender", "noop")
		}
	}

	if cfg.SeedSample {
		res, err := orchestrators.ExecuteSeedSample(ctx, app.SeedSample())
		if err != nil {
			stores.Close()
			return nil, fmt.Errorf("seed sample data: %w", err)
		}
		slog.Info("seed_event", "event", "sample_loaded", "counts", res.Counts)
	}
	return app, nil
}
