package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/member"
)

// DeleteMemberInput carries input for the orchestrator.
type DeleteMemberInput struct {
	ID string
}

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	MemberStore MemberStore
}

// ExecuteDeleteMember removes the member row. Attendance, giving and welfare rows
// that reference the member are kept.
// PRE: ID is non-empty
// POST: No member with ID remains
func ExecuteDeleteMember(ctx context.Context, input DeleteMemberInput, deps DeleteMemberDeps) error {
	n, err := deps.MemberStore.DeleteWhere(ctx, func(m member.Member) bool { return m.ID == input.ID })
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("member %s: %w", input.ID, memory.ErrNotFound)
	}
	slog.Info("member_event", "event", "member_deleted", "member_id", input.ID)
	return nil
}
