package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"churchdesk/internal/adapters/email"
	"churchdesk/internal/adapters/smsgateway"
	"churchdesk/internal/adapters/storage/partner"
	"churchdesk/internal/application/orchestrators"
	"churchdesk/internal/application/projections"
	"churchdesk/internal/config"
	"churchdesk/internal/domain/attendance"
)

var sunday = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type countingRecorder struct {
	checkIns, txs, segments int
}

func (r *countingRecorder) RecordCheckIn(attendance.CheckInResult) { r.checkIns++ }
func (r *countingRecorder) RecordTransaction(string)               { r.txs++ }
func (r *countingRecorder) RecordSMSSegments(n int)                { r.segments += n }

func newApp(t *testing.T) (*App, *countingRecorder) {
	t.Helper()
	stores, err := Open(Options{Backend: BackendJSON, DataDir: t.TempDir(), SMSCredits: 20})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { stores.Close() })
	rec := &countingRecorder{}
	return &App{
		Stores:     stores,
		SMS:        smsgateway.NewLogGateway(),
		Email:      email.NewNoopSender(),
		Metrics:    rec,
		QRValidity: 10 * time.Minute,
		Now:        func() time.Time { return sunday },
	}, rec
}

// TestOpen_JSONBackend tests that the partner file lands in the data dir.
func TestOpen_JSONBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	stores, err := Open(Options{Backend: BackendJSON, DataDir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer stores.Close()
	js, ok := stores.Partners.(*partner.JSONStore)
	if !ok {
		t.Fatalf("partner store = %T", stores.Partners)
	}
	if js.Path() != filepath.Join(dir, partner.FileName) {
		t.Errorf("path = %s", js.Path())
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
}

// TestOpen_SQLiteBackend tests the SQLite partner store round trip.
func TestOpen_SQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	stores, err := Open(Options{Backend: BackendSQLite, DataDir: dir, SQLitePath: filepath.Join(dir, "db", "church.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer stores.Close()
	if _, ok := stores.Partners.(*partner.SQLiteStore); !ok {
		t.Fatalf("partner store = %T", stores.Partners)
	}
	app := &App{Stores: stores, Now: func() time.Time { return sunday }}
	p, err := orchestrators.ExecuteCreatePartner(context.Background(), orchestrators.CreatePartnerInput{Name: "Efua"}, app.Partner())
	if err != nil {
		t.Fatalf("ExecuteCreatePartner: %v", err)
	}
	got, err := stores.Partners.GetByID(context.Background(), p.ID)
	if err != nil || got.Name != "Efua" {
		t.Errorf("GetByID = %+v, %v", got, err)
	}
}

// TestOpen_UnknownBackend tests the backend guard.
func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(Options{Backend: "postgres", DataDir: t.TempDir()})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("err = %v, want ErrUnknownBackend", err)
	}
}

// TestApp_IDPrefixes tests the sequential id prefixes per table.
func TestApp_IDPrefixes(t *testing.T) {
	app, _ := newApp(t)
	ctx := context.Background()
	m, err := orchestrators.ExecuteRegisterMember(ctx, orchestrators.RegisterMemberInput{Name: "Ama", Gender: "Female", DOB: "1990-01-01"}, app.RegisterMember())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	tx, err := orchestrators.ExecuteAddTransaction(ctx, orchestrators.AddTransactionInput{Type: "Income", Category: "Offering", Amount: decimal.NewFromInt(50)}, app.AddTransaction())
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if m.ID != "M001" || tx.ID != "T001" {
		t.Errorf("ids = %s, %s", m.ID, tx.ID)
	}
}

// TestApp_MetricsFlowThroughDeps tests that recorders reach the orchestrators.
func TestApp_MetricsFlowThroughDeps(t *testing.T) {
	app, rec := newApp(t)
	ctx := context.Background()
	m, _ := orchestrators.ExecuteRegisterMember(ctx, orchestrators.RegisterMemberInput{Name: "Kofi", Gender: "Male", DOB: "1988-02-02", Phone: "0244000000"}, app.RegisterMember())

	tok, err := orchestrators.ExecuteIssueToken(ctx, orchestrators.IssueTokenInput{ServiceType: "Sunday Service"}, app.IssueToken())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if tok.ValidUntil.Sub(tok.ValidFrom) != 10*time.Minute {
		t.Errorf("token window = %v, want configured 10m", tok.ValidUntil.Sub(tok.ValidFrom))
	}
	if _, _, err := orchestrators.ExecuteQRCheckIn(ctx, orchestrators.QRCheckInInput{TokenID: tok.ID, MemberID: m.ID}, app.QRCheckIn()); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if _, err := orchestrators.ExecuteAddTransaction(ctx, orchestrators.AddTransactionInput{Type: "Income", Category: "Tithe", Amount: decimal.NewFromInt(10)}, app.AddTransaction()); err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if _, err := orchestrators.ExecuteSendBroadcast(ctx, orchestrators.SendBroadcastInput{Channel: "sms", Body: "Service at 9", Recipients: []string{"0244000001"}}, app.Broadcast()); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if rec.checkIns != 1 || rec.txs != 1 || rec.segments != 1 {
		t.Errorf("recorder = %+v", rec)
	}
}

// TestApp_NilMetrics tests that a missing recorder leaves the optional deps nil.
func TestApp_NilMetrics(t *testing.T) {
	app := &App{Stores: NewStores(nil, 0)}
	if app.QRCheckIn().Recorder != nil || app.AddTransaction().Recorder != nil || app.Broadcast().Recorder != nil {
		t.Error("recorders should be nil interfaces")
	}
}

// TestApp_SeedAndExport tests that seeded stores feed the dashboard and export source.
func TestApp_SeedAndExport(t *testing.T) {
	app, _ := newApp(t)
	ctx := context.Background()
	if _, err := orchestrators.ExecuteSeedSample(ctx, app.SeedSample()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	dash, err := projections.QueryDashboard(ctx, app.Clock(), app.Dashboard())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TotalMembers != 24 || dash.Partners == 0 {
		t.Errorf("dashboard = %+v", dash)
	}
	src, err := app.ExportSource(ctx)
	if err != nil {
		t.Fatalf("ExportSource: %v", err)
	}
	if src.Dashboard == nil || src.Dashboard.TotalMembers != 24 {
		t.Errorf("export dashboard = %+v", src.Dashboard)
	}
}

// TestBoot tests the config-driven start path used by both binaries.
func TestBoot(t *testing.T) {
	dir := t.TempDir()
	env := map[string]string{"CHURCH_DATA_DIR": dir, "CHURCH_PARTNER_BACKEND": "sqlite", "CHURCH_SEED_SAMPLE": "true"}
	cfg, err := config.FromLookup(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	if err != nil {
		t.Fatalf("FromLookup: %v", err)
	}
	app, err := Boot(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("Boot: %v", err)
	}
	defer app.Close()

	if _, ok := app.Email.(*email.NoopSender); !ok {
		t.Errorf("email sender = %T, want noop without a key", app.Email)
	}
	if app.QRValidity != config.DefaultQRValidity {
		t.Errorf("QRValidity = %v", app.QRValidity)
	}
	if n, _ := app.Members.Count(context.Background()); n != 24 {
		t.Errorf("seeded members = %d, want 24", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "church.db")); err != nil {
		t.Errorf("sqlite file: %v", err)
	}
}
