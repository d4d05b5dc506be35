// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Partner storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// EnvProduction is the CHURCH_ENV value that turns on the production checks.
const EnvProduction = "production"

// Defaults applied when a variable is unset or empty.
const (
	DefaultPort          = "8080"
	DefaultDataDir       = "church_data"
	DefaultSMSCredits    = 100
	DefaultQRValidity    = 30 * time.Minute
	DefaultSlowRequestMs = 200
	DefaultSlowQueryMs   = 100
	DefaultEmailFrom     = "Church Office <office@example.org>"
)

// Config errors.
var (
	ErrMissingCSRFKey   = errors.New("CHURCH_CSRF_KEY is required in production")
	ErrBadCSRFKey       = errors.New("CHURCH_CSRF_KEY must be 64 hex characters")
	ErrMissingAdminHash = errors.New("CHURCH_ADMIN_PASSWORD_HASH is required in production")
	ErrBadBackend       = errors.New("CHURCH_PARTNER_BACKEND must be json or sqlite")
)

// Config is the resolved runtime configuration.
type Config struct {
	Port              string
	Env               string
	DataDir           string
	PartnerBackend    string
	SQLitePath        string
	CSRFKey           []byte // nil when unset
	AdminPasswordHash string
	ResendKey         string
	EmailFrom         string
	SMSCredits        int
	QRValidity        time.Duration
	SeedSample        bool
	LogLevel          slog.Level
	SlowRequestMs     int
	SlowQueryMs       int
}

// Production reports whether the production checks apply.
func (c Config) Production() bool {
	return c.Env == EnvProduction
}

// Addr returns the listen address for http.Server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Load reads the given .env files (".env" when none are named) and then the process
// environment. Process variables win over file values; missing files are skipped.
// PRE: none
// POST: Returns a Config with defaults applied; parse errors name the variable
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	fromFiles := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			fromFiles[k] = v
		}
	}
	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fromFiles[key]
		return v, ok
	})
}

// FromLookup builds a Config from a variable lookup function such as os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		Port:              get("PORT", DefaultPort),
		Env:               strings.ToLower(get("CHURCH_ENV", "development")),
		DataDir:           get("CHURCH_DATA_DIR", DefaultDataDir),
		PartnerBackend:    strings.ToLower(get("CHURCH_PARTNER_BACKEND", BackendJSON)),
		AdminPasswordHash: get("CHURCH_ADMIN_PASSWORD_HASH", ""),
		ResendKey:         get("CHURCH_RESEND_KEY", ""),
		EmailFrom:         get("CHURCH_EMAIL_FROM", DefaultEmailFrom),
	}
	cfg.SQLitePath = get("CHURCH_SQLITE_PATH", filepath.Join(cfg.DataDir, "church.db"))

	if cfg.PartnerBackend != BackendJSON && cfg.PartnerBackend != BackendSQLite {
		return Config{}, fmt.Errorf("%w: %q", ErrBadBackend, cfg.PartnerBackend)
	}

	if key := get("CHURCH_CSRF_KEY", ""); key != "" {
		b, err := hex.DecodeString(key)
		if err != nil || len(b) != 32 {
			return Config{}, ErrBadCSRFKey
		}
		cfg.CSRFKey = b
	}

	var err error
	if cfg.SMSCredits, err = intVar(get, "CHURCH_SMS_CREDITS", DefaultSMSCredits, 0); err != nil {
		return Config{}, err
	}
	minutes, err := intVar(get, "CHURCH_QR_VALIDITY_MINUTES", int(DefaultQRValidity/time.Minute), 1)
	if err != nil {
		return Config{}, err
	}
	cfg.QRValidity = time.Duration(minutes) * time.Minute
	if cfg.SlowRequestMs, err = intVar(get, "CHURCH_SLOW_REQUEST_MS", DefaultSlowRequestMs, 1); err != nil {
		return Config{}, err
	}
	if cfg.SlowQueryMs, err = intVar(get, "CHURCH_SLOW_QUERY_MS", DefaultSlowQueryMs, 1); err != nil {
		return Config{}, err
	}

	seed := get("CHURCH_SEED_SAMPLE", "")
	if seed == "" {
		cfg.SeedSample = !cfg.Production()
	} else if cfg.SeedSample, err = strconv.ParseBool(seed); err != nil {
		return Config{}, fmt.Errorf("CHURCH_SEED_SAMPLE: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("CHURCH_LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("CHURCH_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

func intVar(get func(string, string) string, key string, fallback, min int) (int, error) {
	raw := get(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < min {
		return 0, fmt.Errorf("%s must be at least %d, got %d", key, min, n)
	}
	return n, nil
}

// Validate rejects settings that are unsafe for production.
// PRE: cfg came from Load or FromLookup
// POST: Returns nil outside production or when both secrets are present
func (c Config) Validate() error {
	if !c.Production() {
		return nil
	}
	var errs []error
	if len(c.CSRFKey) == 0 {
		errs = append(errs, ErrMissingCSRFKey)
	}
	if c.AdminPasswordHash == "" {
		errs = append(errs, ErrMissingAdminHash)
	}
	return errors.Join(errs...)
}

// NewLogger returns the process logger: JSON lines in production, text otherwise.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.Production() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
