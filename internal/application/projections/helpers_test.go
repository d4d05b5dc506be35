package projections

import (
	"context"
	"fmt"
	"time"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/member"
)

// fixed is a Sunday.
var fixed = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// listOf serves a fixed slice as a store.
type listOf[T any] []T

func (l listOf[T]) List(context.Context) ([]T, error) { return l, nil }

type memberMap map[string]member.Member

func (m memberMap) GetByID(_ context.Context, id string) (member.Member, error) {
	v, ok := m[id]
	if !ok {
		return member.Member{}, fmt.Errorf("member %s: %w", id, memory.ErrNotFound)
	}
	return v, nil
}
