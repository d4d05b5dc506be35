// Package registry owns the process-wide stores and hands out the dependency bundles
// the orchestrators and projections take. Both front ends (web and console) build one
// App at startup and share it across requests.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"churchdesk/internal/adapters/http/perf"
	"churchdesk/internal/adapters/storage"
	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/adapters/storage/partner"
	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/children"
	"churchdesk/internal/domain/equipment"
	"churchdesk/internal/domain/feedback"
	"churchdesk/internal/domain/finance"
	"churchdesk/internal/domain/group"
	"churchdesk/internal/domain/member"
	"churchdesk/internal/domain/partnership"
	"churchdesk/internal/domain/prayer"
	"churchdesk/internal/domain/program"
	"churchdesk/internal/domain/sms"
	"churchdesk/internal/domain/visitor"
	"churchdesk/internal/domain/welfare"
)

// Partner storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unrecognised partner backend.
var ErrUnknownBackend = errors.New("unknown partner backend")

// Stores is every table in the application.
// INVARIANT: Ledger guards the partner total and contribution log together
type Stores struct {
	Members       *memory.Store[member.Member]
	Attendance    *memory.Store[attendance.Record]
	Tokens        *memory.Store[attendance.QRToken]
	Transactions  *memory.Store[finance.Transaction]
	Children      *memory.Store[children.Child]
	ChildCheckIns *memory.Store[children.CheckIn]
	Partners      partner.Store
	Contributions *memory.Store[partnership.Contribution]
	Visitors      *memory.Store[visitor.Visitor]
	Programs      *memory.Store[program.Program]
	Equipment     *memory.Store[equipment.Item]
	Groups        *memory.Store[group.Group]
	Prayers       *memory.Store[prayer.Request]
	Claims        *memory.Store[welfare.Claim]
	Payments      *memory.Store[welfare.Payment]
	Messages      *memory.Store[sms.Message]
	Feedback      *memory.Store[feedback.Feedback]
	Credits       *memory.Credits
	Ledger        *sync.Mutex

	db *storage.TimedDB
}

// NewStores builds empty in-memory tables around the given partner store.
// PRE: partners is non-nil; credits >= 0
// POST: sequential ids use the per-table prefixes (M001, T001, WC001 ...)
func NewStores(partners partner.Store, credits int) *Stores {
	return &Stores{
		Members:       memory.New("members", "M", func(m member.Member) string { return m.ID }),
		Attendance:    memory.New("attendance", "A", func(r attendance.Record) string { return r.ID }),
		Tokens:        memory.New("qr_tokens", "", func(t attendance.QRToken) string { return t.ID }),
		Transactions:  memory.New("transactions", "T", func(t finance.Transaction) string { return t.ID }),
		Children:      memory.New("children", "C", func(c children.Child) string { return c.ID }),
		ChildCheckIns: memory.New("child_checkins", "CC", func(c children.CheckIn) string { return c.ID }),
		Partners:      partners,
		Contributions: memory.New("contributions", "", func(c partnership.Contribution) string { return c.ID }),
		Visitors:      memory.New("visitors", "V", func(v visitor.Visitor) string { return v.ID }),
		Programs:      memory.New("programs", "P", func(p program.Program) string { return p.ID }),
		Equipment:     memory.New("equipment", "E", func(i equipment.Item) string { return i.ID }),
		Groups:        memory.New("groups", "G", func(g group.Group) string { return g.ID }),
		Prayers:       memory.New("prayer", "PR", func(r prayer.Request) string { return r.ID }),
		Claims:        memory.New("welfare_claims", "WC", func(c welfare.Claim) string { return c.ID }),
		Payments:      memory.New("welfare_payments", "WP", func(p welfare.Payment) string { return p.ID }),
		Messages:      memory.New("sms_log", "S", func(m sms.Message) string { return m.ID }),
		Feedback:      memory.New("feedback", "F", func(f feedback.Feedback) string { return f.ID }),
		Credits:       memory.NewCredits(credits),
		Ledger:        &sync.Mutex{},
	}
}

// Options selects the durable partner backend.
type Options struct {
	Backend     string // BackendJSON or BackendSQLite
	DataDir     string
	SQLitePath  string // used by BackendSQLite
	SMSCredits  int
	SlowQueryMs int
	Collector   *perf.Collector // optional, receives query timings
}

// Open creates the data directory and the configured partner store, then the
// in-memory tables around it.
// PRE: opts.DataDir is writable
// POST: Caller must Close the returned Stores
func Open(opts Options) (*Stores, error) {
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	switch opts.Backend {
	case BackendJSON, "":
		ps, err := partner.NewJSONStore(filepath.Join(opts.DataDir, partner.FileName))
		if err != nil {
			return nil, err
		}
		slog.Info("storage_event", "event", "partner_store_opened", "backend", BackendJSON, "path", ps.Path())
		return NewStores(ps, opts.SMSCredits), nil

	case BackendSQLite:
		if dir := filepath.Dir(opts.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		db, err := storage.OpenDB(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		timed := storage.NewTimedDB(db, opts.Collector, opts.SlowQueryMs)
		slog.Info("storage_event", "event", "partner_store_opened", "backend", BackendSQLite, "path", opts.SQLitePath, "schema", storage.LatestSchemaVersion())
		s := NewStores(partner.NewSQLiteStore(timed), opts.SMSCredits)
		s.db = timed
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// Ping checks the SQLite connection when one was opened.
func (s *Stores) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Ping(ctx)
}

// Close releases the SQLite connection when one was opened.
func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
