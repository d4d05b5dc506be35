package storage

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	stmts   []string
}

// migrations is the ordered schema history. Append only; never edit a released step.
var migrations = []migration{
	{
		version: 1,
		name:    "partner",
		stmts: []string{`
	CREATE TABLE IF NOT EXISTS partner (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		partnership_date TEXT NOT NULL DEFAULT '',
		tier TEXT NOT NULL,
		total_contributions TEXT NOT NULL DEFAULT '0',
		last_contribution_date TEXT,
		created_at TEXT NOT NULL
	)`},
	},
	{
		version: 2,
		name:    "partner_tier_index",
		stmts:   []string{`CREATE INDEX IF NOT EXISTS idx_partner_tier ON partner(tier)`},
	},
}

// LatestSchemaVersion returns the version the database reaches after MigrateDB.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// OpenDB opens the SQLite database at path and brings its schema up to date.
// PRE: path is a file path or ":memory:"
// POST: Returns a migrated connection; caller closes it
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty in-memory database
		db.SetMaxOpenConns(1)
	}
	if err := MigrateDB(db, path); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// MigrateDB applies every pending migration inside its own transaction.
// PRE: db is a valid database connection
// POST: schema_version holds LatestSchemaVersion(); WAL enabled for file databases
func MigrateDB(db *sql.DB, path string) error {
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
		if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name, "path", path)
	}
	return nil
}

// SchemaVersion returns the applied schema version, or 0 for a fresh database.
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}
