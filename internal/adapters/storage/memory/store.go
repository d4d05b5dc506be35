// Package memory provides the generic in-memory record store that backs every
// module's table. Records keep insertion order; lookups by id go through an index.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Store errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record id already exists")
	ErrEmptyID     = errors.New("record id is empty")
	ErrConflict    = errors.New("conflicting record exists")
)

// DefaultIDWidth is the zero-padding used for sequential ids ("M001").
const DefaultIDWidth = 3

// Store is an ordered, mutex-guarded collection of records of type T.
// INVARIANT: ids are unique; index[id] is the position of that record in items.
type Store[T any] struct {
	mu     sync.RWMutex
	name   string
	prefix string
	width  int
	seq    int
	idOf   func(T) string
	items  []T
	index  map[string]int
}

// New creates an empty store.
// PRE: idOf returns the record's id
// POST: Returns a store allocating ids as prefix + zero-padded counter
func New[T any](name, prefix string, idOf func(T) string) *Store[T] {
	return &Store[T]{
		name:   name,
		prefix: prefix,
		width:  DefaultIDWidth,
		idOf:   idOf,
		index:  make(map[string]int),
	}
}

// Name returns the table name used in logs and exports.
func (s *Store[T]) Name() string {
	return s.name
}

// nextID must be called with the write lock held.
func (s *Store[T]) nextID() string {
	for {
		s.seq++
		id := fmt.Sprintf("%s%0*d", s.prefix, s.width, s.seq)
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

// Create allocates the next sequential id and appends the record built from it.
// PRE: build returns a record carrying the given id
// POST: Record appended; returned value is the stored copy
func (s *Store[T]) Create(_ context.Context, build func(id string) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID()
	v, err := build(id)
	if err != nil {
		var zero T
		return zero, err
	}
	if got := s.idOf(v); got != id {
		var zero T
		return zero, fmt.Errorf("%s: built record has id %q, want %q", s.name, got, id)
	}
	s.appendLocked(id, v)
	return v, nil
}

// CreateUnless behaves like Create but refuses when any stored record matches clash.
// The check and the append happen under one write lock.
// PRE: clash and build do not call back into the store
// POST: Record appended, or ErrConflict wrapped with the store name
func (s *Store[T]) CreateUnless(_ context.Context, clash func(T) bool, build func(id string) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	for _, v := range s.items {
		if clash(v) {
			return zero, fmt.Errorf("%s: %w", s.name, ErrConflict)
		}
	}
	id := s.nextID()
	v, err := build(id)
	if err != nil {
		return zero, err
	}
	if got := s.idOf(v); got != id {
		return zero, fmt.Errorf("%s: built record has id %q, want %q", s.name, got, id)
	}
	s.appendLocked(id, v)
	return v, nil
}

// Insert appends a record whose id was assigned by the caller.
// PRE: idOf(v) is non-empty
// POST: Record appended, or ErrDuplicateID if the id exists
func (s *Store[T]) Insert(_ context.Context, v T) error {
	id := s.idOf(v)
	if id == "" {
		return ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[id]; exists {
		return fmt.Errorf("%s %s: %w", s.name, id, ErrDuplicateID)
	}
	s.appendLocked(id, v)
	return nil
}

func (s *Store[T]) appendLocked(id string, v T) {
	s.index[id] = len(s.items)
	s.items = append(s.items, v)
}

// GetByID returns the record with the given id.
func (s *Store[T]) GetByID(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", s.name, id, ErrNotFound)
	}
	return s.items[pos], nil
}

// List returns a copy of all records in insertion order.
func (s *Store[T]) List(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Filter returns the records matching keep, in insertion order.
func (s *Store[T]) Filter(_ context.Context, keep func(T) bool) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []T
	for _, v := range s.items {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store[T]) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

// Update applies mutate to the stored record under the write lock.
// PRE: mutate does not change the record id
// POST: Record replaced by the mutated copy; a mutate error leaves it unchanged
func (s *Store[T]) Update(_ context.Context, id string, mutate func(*T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	pos, ok := s.index[id]
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", s.name, id, ErrNotFound)
	}
	v := s.items[pos]
	if err := mutate(&v); err != nil {
		return zero, err
	}
	if s.idOf(v) != id {
		return zero, fmt.Errorf("%s %s: update changed record id", s.name, id)
	}
	s.items[pos] = v
	return v, nil
}

// Delete removes the record with the given id.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	n, err := s.DeleteWhere(ctx, func(v T) bool { return s.idOf(v) == id })
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", s.name, id, ErrNotFound)
	}
	return nil
}

// DeleteWhere removes every record matching drop and returns how many were removed.
func (s *Store[T]) DeleteWhere(_ context.Context, drop func(T) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	removed := 0
	for _, v := range s.items {
		if drop(v) {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	if removed == 0 {
		return 0, nil
	}
	// Clear the tail so dropped records can be collected.
	var zero T
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = zero
	}
	s.items = kept
	s.index = make(map[string]int, len(kept))
	for i, v := range kept {
		s.index[s.idOf(v)] = i
	}
	return removed, nil
}
