package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"churchdesk/internal/adapters/http/perf"
)

// SQLDB is the database interface used by the SQLite partner store.
// Both *sql.DB and *TimedDB satisfy it.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ SQLDB = (*sql.DB)(nil)
	_ SQLDB = (*TimedDB)(nil)
)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB, logging slow statements and feeding the perf collector.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold time.Duration
}

// NewTimedDB wraps db. A slowQueryMs of zero or less falls back to DefaultSlowQueryMs.
// collector may be nil.
// PRE: db is open
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowQueryMs int) *TimedDB {
	if slowQueryMs <= 0 {
		slowQueryMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		collector: collector,
		threshold: time.Duration(slowQueryMs) * time.Millisecond,
	}
}

// RawDB returns the underlying *sql.DB for migrations and pool settings.
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// statementName labels a statement as "verb table", e.g. "select partner" or
// "insert contribution". Statements it cannot place are labelled by verb alone.
func statementName(query string) string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return "empty"
	}
	verb := fields[0]
	var marker string
	switch verb {
	case "select", "delete":
		marker = "from"
	case "insert", "replace":
		marker = "into"
	case "update":
		if len(fields) > 1 {
			return verb + " " + strings.Trim(fields[1], `"`)
		}
		return verb
	default:
		return verb
	}
	for i, f := range fields[:len(fields)-1] {
		if f == marker {
			table, _, _ := strings.Cut(fields[i+1], "(")
			return verb + " " + strings.Trim(table, `"`)
		}
	}
	return verb
}

func (t *TimedDB) observe(ctx context.Context, name string, start time.Time, err error) {
	elapsed := time.Since(start)
	failed := err != nil && !errors.Is(err, sql.ErrNoRows)

	level, msg := slog.LevelDebug, "query"
	if elapsed >= t.threshold {
		level, msg = slog.LevelWarn, "slow_query"
	}
	attrs := []any{"statement", name, "duration_ms", float64(elapsed.Microseconds()) / 1000.0}
	if failed {
		attrs = append(attrs, "error", err)
	}
	slog.Log(ctx, level, msg, attrs...)

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:     perf.KindQuery,
			Name:     name,
			Failed:   failed,
			Duration: elapsed,
			At:       start,
		})
	}
}

// ExecContext runs a statement and records its timing, even on error.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe(ctx, statementName(query), start, err)
	return result, err
}

// QueryContext runs a query and records the time to the first result set.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(ctx, statementName(query), start, err)
	return rows, err
}

// QueryRowContext runs a single-row query. sql.ErrNoRows is not counted as a failure.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(ctx, statementName(query), start, row.Err())
	return row
}

// BeginTx starts a transaction. Statements inside the transaction are not timed.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe(ctx, "begin", start, err)
	return tx, err
}

// Close closes the underlying database.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// Ping verifies the connection.
func (t *TimedDB) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}
