package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

const testKey = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

// TestFromLookup_Defaults tests the values used when nothing is set.
func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != DefaultPort || cfg.DataDir != DefaultDataDir || cfg.PartnerBackend != BackendJSON {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.SQLitePath != filepath.Join(DefaultDataDir, "church.db") {
		t.Errorf("SQLitePath = %s", cfg.SQLitePath)
	}
	if cfg.QRValidity != 30*time.Minute || cfg.SMSCredits != DefaultSMSCredits {
		t.Errorf("QRValidity = %v, SMSCredits = %d", cfg.QRValidity, cfg.SMSCredits)
	}
	if !cfg.SeedSample {
		t.Error("sample data should default on outside production")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("development config should validate: %v", err)
	}
}

// TestFromLookup_Overrides tests parsing of every typed variable.
func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"PORT":                       "9090",
		"CHURCH_DATA_DIR":            "/srv/church",
		"CHURCH_PARTNER_BACKEND":     "SQLite",
		"CHURCH_CSRF_KEY":            testKey,
		"CHURCH_SMS_CREDITS":         "0",
		"CHURCH_QR_VALIDITY_MINUTES": "45",
		"CHURCH_SEED_SAMPLE":         "false",
		"CHURCH_LOG_LEVEL":           "debug",
		"CHURCH_SLOW_REQUEST_MS":     "500",
		"CHURCH_SLOW_QUERY_MS":       "25",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != ":9090" || cfg.PartnerBackend != BackendSQLite {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SQLitePath != filepath.Join("/srv/church", "church.db") {
		t.Errorf("SQLitePath = %s", cfg.SQLitePath)
	}
	if len(cfg.CSRFKey) != 32 {
		t.Errorf("CSRF key length = %d", len(cfg.CSRFKey))
	}
	if cfg.SMSCredits != 0 || cfg.QRValidity != 45*time.Minute || cfg.SeedSample {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.SlowRequestMs != 500 || cfg.SlowQueryMs != 25 {
		t.Errorf("cfg = %+v", cfg)
	}
}

// TestFromLookup_Rejects tests malformed values.
func TestFromLookup_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"backend", map[string]string{"CHURCH_PARTNER_BACKEND": "postgres"}, ErrBadBackend},
		{"short key", map[string]string{"CHURCH_CSRF_KEY": "abcd"}, ErrBadCSRFKey},
		{"non-hex key", map[string]string{"CHURCH_CSRF_KEY": strings.Repeat("z", 64)}, ErrBadCSRFKey},
		{"credits", map[string]string{"CHURCH_SMS_CREDITS": "-3"}, nil},
		{"validity", map[string]string{"CHURCH_QR_VALIDITY_MINUTES": "soon"}, nil},
		{"seed flag", map[string]string{"CHURCH_SEED_SAMPLE": "maybe"}, nil},
		{"log level", map[string]string{"CHURCH_LOG_LEVEL": "loud"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestValidate_Production tests that production needs both secrets.
func TestValidate_Production(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"CHURCH_ENV": "production"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SeedSample {
		t.Error("sample data should default off in production")
	}
	err = cfg.Validate()
	if !errors.Is(err, ErrMissingCSRFKey) || !errors.Is(err, ErrMissingAdminHash) {
		t.Fatalf("Validate() = %v", err)
	}

	cfg, _ = FromLookup(lookupFrom(map[string]string{
		"CHURCH_ENV":                 "production",
		"CHURCH_CSRF_KEY":            testKey,
		"CHURCH_ADMIN_PASSWORD_HASH": "$2a$10$abcdefghijklmnopqrstuv",
	}))
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

// TestLoad_EnvFile tests that file values apply and process variables win.
func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "CHURCH_DATA_DIR=from_file\nCHURCH_SMS_CREDITS=250\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CHURCH_SMS_CREDITS", "7")

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "from_file" {
		t.Errorf("DataDir = %s, want from_file", cfg.DataDir)
	}
	if cfg.SMSCredits != 7 {
		t.Errorf("SMSCredits = %d, want process value 7", cfg.SMSCredits)
	}
}

// TestNewLogger tests the handler choice per environment.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	Config{Env: EnvProduction}.NewLogger(&buf).Info("config_event", "event", "loaded")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("production log should be JSON: %q", buf.String())
	}
	buf.Reset()
	Config{Env: "development"}.NewLogger(&buf).Info("config_event", "event", "loaded")
	if !strings.Contains(buf.String(), "msg=config_event") {
		t.Errorf("development log should be text: %q", buf.String())
	}
}
