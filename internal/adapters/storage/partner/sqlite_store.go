package partner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"churchdesk/internal/adapters/storage"
	domain "churchdesk/internal/domain/partnership"
)

// createdAtLayout is fixed width so the TEXT column sorts chronologically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

const partnerColumns = "id, name, email, phone, partnership_date, tier, total_contributions, last_contribution_date, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that *SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new partner SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPartner(row rowScanner) (domain.Partner, error) {
	var entity domain.Partner
	var total, createdAt string
	var lastDate sql.NullString
	if err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Email,
		&entity.Phone,
		&entity.PartnershipDate,
		&entity.Tier,
		&total,
		&lastDate,
		&createdAt,
	); err != nil {
		return domain.Partner{}, err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return domain.Partner{}, fmt.Errorf("partner %s total %q: %w", entity.ID, total, err)
	}
	entity.TotalContributions = amount
	if lastDate.Valid {
		entity.LastContributionDate = lastDate.String
	}
	if t, err := time.Parse(createdAtLayout, createdAt); err == nil {
		entity.CreatedAt = t
	}
	return entity, nil
}

// GetByID retrieves a Partner by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Partner, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+partnerColumns+" FROM partner WHERE id = ?", id)
	entity, err := scanPartner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Partner{}, fmt.Errorf("partner %s: %w", id, ErrNotFound)
	}
	return entity, err
}

// Save persists a Partner to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Partner) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := strings.Split(partnerColumns, ", ")
	placeholders := make([]string, len(fields))
	updates := make([]string, 0, len(fields)-1)
	for i, f := range fields {
		placeholders[i] = "?"
		if f != "id" && f != "created_at" {
			updates = append(updates, f+"=excluded."+f)
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO partner (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		partnerColumns,
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	var lastDate any
	if entity.LastContributionDate != "" {
		lastDate = entity.LastContributionDate
	}

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Email,
		entity.Phone,
		entity.PartnershipDate,
		entity.Tier,
		entity.TotalContributions.String(),
		lastDate,
		entity.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a Partner from the database.
// Deleting an unknown id is a no-op.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM partner WHERE id = ?", id)
	return err
}

// List returns every partner ordered by creation time.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Partner, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+partnerColumns+" FROM partner ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Partner
	for rows.Next() {
		entity, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
