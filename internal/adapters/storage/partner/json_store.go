package partner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	domain "churchdesk/internal/domain/partnership"
)

// FileName is the partners file written inside the data directory.
const FileName = "partners.json"

// JSONStore keeps partners in memory and rewrites a JSON array file on every mutation.
type JSONStore struct {
	mu       sync.RWMutex
	path     string
	partners []domain.Partner
}

// Compile-time check that *JSONStore satisfies Store.
var _ Store = (*JSONStore)(nil)

// NewJSONStore loads the partners file at path.
// A missing file starts an empty collection. A malformed file is renamed to
// <path>.bad-<timestamp> and the store starts empty, so later writes never replace it.
// PRE: path is a writable file location
// POST: Returns a store holding the persisted partners in file order
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read partners file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.partners); err != nil {
		s.partners = nil
		aside := fmt.Sprintf("%s.bad-%s", path, time.Now().UTC().Format("20060102T150405Z"))
		if rerr := os.Rename(path, aside); rerr != nil {
			return nil, fmt.Errorf("set aside malformed partners file: %w", rerr)
		}
		slog.Warn("partners_file_malformed", "path", path, "moved_to", aside, "error", err)
	}
	return s, nil
}

// Path returns the backing file location.
func (s *JSONStore) Path() string {
	return s.path
}

// GetByID retrieves a Partner by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *JSONStore) GetByID(_ context.Context, id string) (domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.partners {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Partner{}, fmt.Errorf("partner %s: %w", id, ErrNotFound)
}

// Save inserts or replaces a Partner and rewrites the file.
// PRE: entity has been validated, ID non-empty
// POST: Entity is persisted; on write failure the in-memory state is rolled back
func (s *JSONStore) Save(_ context.Context, entity domain.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.partners
	next := make([]domain.Partner, 0, len(prev)+1)
	replaced := false
	for _, p := range prev {
		if p.ID == entity.ID {
			next = append(next, entity)
			replaced = true
			continue
		}
		next = append(next, p)
	}
	if !replaced {
		next = append(next, entity)
	}

	if err := s.write(next); err != nil {
		return err
	}
	s.partners = next
	return nil
}

// Delete removes a Partner and rewrites the file.
// Deleting an unknown id is a no-op.
// PRE: id is non-empty
// POST: No partner with the given id remains
func (s *JSONStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Partner, 0, len(s.partners))
	for _, p := range s.partners {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(s.partners) {
		return nil
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.partners = next
	return nil
}

// List returns every partner in insertion order.
func (s *JSONStore) List(_ context.Context) ([]domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Partner, len(s.partners))
	copy(out, s.partners)
	return out, nil
}

// write replaces the file atomically via a temp file in the same directory.
// Caller holds s.mu.
func (s *JSONStore) write(partners []domain.Partner) error {
	if partners == nil {
		partners = []domain.Partner{}
	}
	data, err := json.MarshalIndent(partners, "", "  ")
	if err != nil {
		return fmt.Errorf("encode partners: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".partners-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write partners: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close partners: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace partners file: %w", err)
	}
	slog.Debug("partners_file_written", "path", s.path, "count", len(partners))
	return nil
}
