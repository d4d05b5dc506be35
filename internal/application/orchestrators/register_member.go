package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/member"
)

// MemberStore defines the member table operations used by the member orchestrators.
type MemberStore interface {
	Create(ctx context.Context, build func(id string) (member.Member, error)) (member.Member, error)
	GetByID(ctx context.Context, id string) (member.Member, error)
	Update(ctx context.Context, id string, mutate func(*member.Member) error) (member.Member, error)
	DeleteWhere(ctx context.Context, drop func(member.Member) bool) (int, error)
}

// RegisterMemberInput carries input for the orchestrator.
type RegisterMemberInput struct {
	Name          string
	Email         string
	Phone         string
	DOB           string
	Gender        string
	Department    string
	Status        string // defaults to Active
	MaritalStatus string
	Address       string
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore MemberStore
	Now         func() time.Time
}

// ExecuteRegisterMember coordinates member registration.
// PRE: non-empty name, parseable DOB, known gender
// POST: Member created with a sequential ID and RegistrationDate = today
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	status := input.Status
	if status == "" {
		status = member.StatusActive
	}

	m, err := deps.MemberStore.Create(ctx, func(id string) (member.Member, error) {
		m := member.Member{
			ID:               id,
			Name:             strings.TrimSpace(input.Name),
			Email:            strings.TrimSpace(input.Email),
			Phone:            strings.TrimSpace(input.Phone),
			DOB:              input.DOB,
			Gender:           input.Gender,
			Department:       input.Department,
			Status:           status,
			MaritalStatus:    input.MaritalStatus,
			Address:          input.Address,
			RegistrationDate: dateutil.Format(now()),
		}
		return m, m.Validate()
	})
	if err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "member_registered", "member_id", m.ID, "department", m.Department)
	return m, nil
}
