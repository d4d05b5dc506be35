package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"churchdesk/internal/domain/member"
)

// MemberChanges lists the editable member fields. Nil fields are left unchanged.
type MemberChanges struct {
	Name          *string
	Email         *string
	Phone         *string
	DOB           *string
	Gender        *string
	Department    *string
	Status        *string
	MaritalStatus *string
	Address       *string
}

// UpdateMemberInput carries input for the orchestrator.
type UpdateMemberInput struct {
	ID      string
	Changes MemberChanges
}

// UpdateMemberDeps holds dependencies for UpdateMember.
type UpdateMemberDeps struct {
	MemberStore MemberStore
}

// ExecuteUpdateMember applies field changes to an existing member.
// PRE: ID refers to an existing member
// POST: Member updated; an invalid result leaves the stored record unchanged
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) (member.Member, error) {
	c := input.Changes
	m, err := deps.MemberStore.Update(ctx, input.ID, func(m *member.Member) error {
		setString(&m.Name, c.Name, true)
		setString(&m.Email, c.Email, true)
		setString(&m.Phone, c.Phone, true)
		setString(&m.DOB, c.DOB, false)
		setString(&m.Gender, c.Gender, false)
		setString(&m.Department, c.Department, false)
		setString(&m.Status, c.Status, false)
		setString(&m.MaritalStatus, c.MaritalStatus, false)
		setString(&m.Address, c.Address, true)
		return m.Validate()
	})
	if err != nil {
		return member.Member{}, err
	}
	slog.Info("member_event", "event", "member_updated", "member_id", m.ID)
	return m, nil
}

func setString(dst *string, v *string, trim bool) {
	if v == nil {
		return
	}
	if trim {
		*dst = strings.TrimSpace(*v)
		return
	}
	*dst = *v
}
