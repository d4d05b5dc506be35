package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"churchdesk/internal/adapters/http/perf"
)

func newTimedTestDB(t *testing.T) (*TimedDB, *perf.Collector) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`CREATE TABLE partner (id TEXT PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	collector := perf.NewCollector(100)
	return NewTimedDB(db, collector, 0), collector
}

func snapshot(c *perf.Collector) perf.Snapshot {
	return c.Snapshot(time.Now().Add(-time.Minute), 20)
}

func queryNames(s perf.Snapshot) map[string]perf.Stat {
	out := make(map[string]perf.Stat, len(s.SlowestQueries))
	for _, q := range s.SlowestQueries {
		out[q.Name] = q
	}
	return out
}

// TestStatementName tests the verb/table labels.
func TestStatementName(t *testing.T) {
	tests := []struct {
		query, want string
	}{
		{"SELECT id, name FROM partner WHERE id = ?", "select partner"},
		{"select count(*) from contribution", "select contribution"},
		{"INSERT INTO partner (id, name) VALUES (?, ?)", "insert partner"},
		{"INSERT OR REPLACE INTO partner(id) VALUES (?)", "insert partner"},
		{"UPDATE partner SET name = ? WHERE id = ?", "update partner"},
		{"DELETE FROM partner WHERE id = ?", "delete partner"},
		{"  \n\tSELECT 1", "select"},
		{"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER)", "create"},
		{"", "empty"},
	}
	for _, tt := range tests {
		if got := statementName(tt.query); got != tt.want {
			t.Errorf("statementName(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

// TestTimedDB_RecordsStatements tests that each call lands in the collector under its label.
func TestTimedDB_RecordsStatements(t *testing.T) {
	tdb, collector := newTimedTestDB(t)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO partner (id, name) VALUES (?, ?)", "p1", "Grace Ministries"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	rows, err := tdb.QueryContext(ctx, "SELECT id, name FROM partner")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	n := 0
	for rows.Next() {
		n++
	}
	rows.Close()
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
	var name string
	if err := tdb.QueryRowContext(ctx, "SELECT name FROM partner WHERE id = ?", "p1").Scan(&name); err != nil || name != "Grace Ministries" {
		t.Fatalf("QueryRowContext = %q, %v", name, err)
	}
	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	tx.Rollback()

	if collector.TotalRecorded() != 4 {
		t.Errorf("TotalRecorded = %d, want 4", collector.TotalRecorded())
	}
	names := queryNames(snapshot(collector))
	if names["select partner"].Count != 2 || names["insert partner"].Count != 1 || names["begin"].Count != 1 {
		t.Errorf("statements = %+v", names)
	}
}

// TestTimedDB_ErrorsPassThrough tests that errors are returned unchanged and counted.
func TestTimedDB_ErrorsPassThrough(t *testing.T) {
	tdb, collector := newTimedTestDB(t)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO missing VALUES (?)", 1); err == nil {
		t.Fatal("expected error from unknown table")
	}
	if _, err := tdb.QueryContext(ctx, "SELECT * FROM missing"); err == nil {
		t.Fatal("expected error from unknown table")
	}
	var v string
	err := tdb.QueryRowContext(ctx, "SELECT name FROM partner WHERE id = ?", "nobody").Scan(&v)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}

	snap := snapshot(collector)
	if snap.QueryErrors != 2 {
		t.Errorf("QueryErrors = %d, want 2 (no-rows is not a failure)", snap.QueryErrors)
	}
	if got := queryNames(snap)["insert missing"]; got.Errors != 1 {
		t.Errorf("insert missing = %+v", got)
	}
}

// TestTimedDB_CancelledContext tests that a cancelled context surfaces and is still recorded.
func TestTimedDB_CancelledContext(t *testing.T) {
	tdb, collector := newTimedTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO partner (id, name) VALUES (?, ?)", "p1", "x"); err == nil {
		t.Error("expected error for cancelled context")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_NilCollector tests that the wrapper works without a collector.
func TestTimedDB_NilCollector(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	tdb := NewTimedDB(db, nil, 0)
	defer tdb.Close()

	if _, err := tdb.ExecContext(context.Background(), "CREATE TABLE partner (id TEXT)"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if err := tdb.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if tdb.RawDB() != db {
		t.Error("RawDB should return the wrapped handle")
	}
}

// TestTimedDB_Concurrent tests mixed use from several goroutines.
func TestTimedDB_Concurrent(t *testing.T) {
	tdb, collector := newTimedTestDB(t)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			if _, err := tdb.ExecContext(ctx, "INSERT INTO partner (id, name) VALUES (?, ?)", id, "p"); err != nil {
				t.Errorf("insert %s: %v", id, err)
			}
			var name string
			if err := tdb.QueryRowContext(ctx, "SELECT name FROM partner WHERE id = ?", id).Scan(&name); err != nil {
				t.Errorf("select %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()
	if collector.TotalRecorded() != 20 {
		t.Errorf("TotalRecorded = %d, want 20", collector.TotalRecorded())
	}
}
