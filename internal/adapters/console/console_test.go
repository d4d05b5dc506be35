package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"churchdesk/internal/adapters/email"
	"churchdesk/internal/adapters/smsgateway"
	"churchdesk/internal/application/orchestrators"
	"churchdesk/internal/application/registry"
)

var sunday = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newConsole(t *testing.T, seed bool) (*Console, *bytes.Buffer, string) {
	t.Helper()
	stores, err := registry.Open(registry.Options{Backend: registry.BackendJSON, DataDir: t.TempDir(), SMSCredits: 40})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { stores.Close() })
	app := &registry.App{
		Stores:     stores,
		SMS:        smsgateway.NewLogGateway(),
		Email:      email.NewNoopSender(),
		QRValidity: 30 * time.Minute,
		Now:        func() time.Time { return sunday },
	}
	if seed {
		if _, err := orchestrators.ExecuteSeedSample(context.Background(), app.SeedSample()); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	var out bytes.Buffer
	dir := filepath.Join(t.TempDir(), "exports")
	return New(app, &out, dir), &out, dir
}

// TestRun_QuitsOnZero tests the menu loop and its exit.
func TestRun_QuitsOnZero(t *testing.T) {
	c, out, _ := newConsole(t, false)
	if err := c.Run(context.Background(), strings.NewReader("14\n0\n1\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "15  Export report") || !strings.Contains(got, "0  Exit") {
		t.Error("menu not printed")
	}
	if !strings.Contains(got, "DASHBOARD") || !strings.Contains(got, "Goodbye.") {
		t.Errorf("dashboard or goodbye missing:\n%s", got)
	}
	if strings.Contains(got, "MEMBERS") {
		t.Error("input after 0 should not be read")
	}
}

// TestRun_EndOfInput tests that EOF ends the loop cleanly.
func TestRun_EndOfInput(t *testing.T) {
	c, _, _ := newConsole(t, false)
	if err := c.Run(context.Background(), strings.NewReader("3\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// TestDispatch_Invalid tests rejection of out-of-range and non-numeric choices.
func TestDispatch_Invalid(t *testing.T) {
	c, out, _ := newConsole(t, false)
	for _, choice := range []string{"16", "-1", "abc", ""} {
		out.Reset()
		quit, err := c.Dispatch(context.Background(), choice)
		if quit || err != nil {
			t.Errorf("%q: quit=%v err=%v", choice, quit, err)
		}
		if !strings.Contains(out.String(), "is not a menu option") {
			t.Errorf("%q: no rejection message", choice)
		}
	}
}

// TestDispatch_EveryView tests that each numbered view renders over seeded data.
func TestDispatch_EveryView(t *testing.T) {
	c, out, _ := newConsole(t, true)
	for n := 1; n <= 14; n++ {
		out.Reset()
		choice := strconv.Itoa(n)
		if _, err := c.Dispatch(context.Background(), choice); err != nil {
			t.Fatalf("view %s: %v", choice, err)
		}
		if !strings.Contains(out.String(), strings.ToUpper(menu[n].label)) {
			t.Errorf("view %s: title %q missing", choice, menu[n].label)
		}
	}
}

// TestMembersView_ListsSeededMembers tests the member table contents.
func TestMembersView_ListsSeededMembers(t *testing.T) {
	c, out, _ := newConsole(t, true)
	if _, err := c.Dispatch(context.Background(), "1"); err != nil {
		t.Fatalf("members: %v", err)
	}
	got := out.String()
	for _, want := range []string{"MEMBERS", "M001", "M024", "Gender", "Birthdays in the next 30 days"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
}

// TestExport_WritesFiles tests option 15.
func TestExport_WritesFiles(t *testing.T) {
	c, out, dir := newConsole(t, true)
	if _, err := c.Dispatch(context.Background(), "15"); err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, name := range []string{"church_report_2026-03-01.xlsx", "members_2026-03-01.csv", "transactions_2026-03-01.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
		if !strings.Contains(out.String(), name) {
			t.Errorf("no confirmation for %s", name)
		}
	}
}
