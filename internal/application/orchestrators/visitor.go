package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/member"
	"churchdesk/internal/domain/visitor"
)

// VisitorStore defines the visitor table operations.
type VisitorStore interface {
	Create(ctx context.Context, build func(id string) (visitor.Visitor, error)) (visitor.Visitor, error)
	GetByID(ctx context.Context, id string) (visitor.Visitor, error)
	Update(ctx context.Context, id string, mutate func(*visitor.Visitor) error) (visitor.Visitor, error)
}

// VisitorDeps holds dependencies for the visitor orchestrators.
type VisitorDeps struct {
	VisitorStore VisitorStore
	MemberStore  MemberStore // used by conversion only
	Now          func() time.Time
}

func (d VisitorDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// RegisterVisitorInput carries input for the orchestrator.
type RegisterVisitorInput struct {
	Name      string
	Phone     string
	Email     string
	VisitDate string // defaults to today
	InvitedBy string
}

// ExecuteRegisterVisitor records a guest for follow-up.
// PRE: non-empty name
// POST: Visitor stored with Status = New
func ExecuteRegisterVisitor(ctx context.Context, input RegisterVisitorInput, deps VisitorDeps) (visitor.Visitor, error) {
	date := input.VisitDate
	if date == "" {
		date = dateutil.Format(deps.now())
	}
	v, err := deps.VisitorStore.Create(ctx, func(id string) (visitor.Visitor, error) {
		v := visitor.Visitor{
			ID:        id,
			Name:      strings.TrimSpace(input.Name),
			Phone:     strings.TrimSpace(input.Phone),
			Email:     strings.TrimSpace(input.Email),
			VisitDate: date,
			InvitedBy: strings.TrimSpace(input.InvitedBy),
			Status:    visitor.StatusNew,
		}
		return v, v.Validate()
	})
	if err != nil {
		return visitor.Visitor{}, err
	}
	slog.Info("visitor_event", "event", "visitor_registered", "visitor_id", v.ID)
	return v, nil
}

// RecordFollowUpInput carries input for the orchestrator.
type RecordFollowUpInput struct {
	VisitorID string
	By        string
	Method    string
	Note      string
}

// ExecuteRecordFollowUp appends a contact note to a visitor.
// PRE: visitor exists and is not converted
// POST: FollowUps grows by one, Status advanced
func ExecuteRecordFollowUp(ctx context.Context, input RecordFollowUpInput, deps VisitorDeps) (visitor.Visitor, error) {
	at := deps.now()
	v, err := deps.VisitorStore.Update(ctx, input.VisitorID, func(v *visitor.Visitor) error {
		return v.RecordFollowUp(visitor.FollowUp{
			At:     at,
			By:     strings.TrimSpace(input.By),
			Method: input.Method,
			Note:   input.Note,
		})
	})
	if err != nil {
		return visitor.Visitor{}, err
	}
	slog.Info("visitor_event", "event", "visitor_followed_up", "visitor_id", v.ID, "status", v.Status)
	return v, nil
}

// ConvertVisitorInput carries input for the orchestrator.
type ConvertVisitorInput struct {
	VisitorID  string
	DOB        string
	Gender     string
	Department string
}

// ExecuteConvertVisitor registers the visitor as a member and links the two records.
// PRE: visitor exists and is not converted; DOB and gender valid for a member
// POST: new Active member exists; visitor.Status = Converted, visitor.MemberID set
func ExecuteConvertVisitor(ctx context.Context, input ConvertVisitorInput, deps VisitorDeps) (visitor.Visitor, member.Member, error) {
	v, err := deps.VisitorStore.GetByID(ctx, input.VisitorID)
	if err != nil {
		return visitor.Visitor{}, member.Member{}, err
	}
	if v.Status == visitor.StatusConverted {
		return visitor.Visitor{}, member.Member{}, visitor.ErrAlreadyConverted
	}

	m, err := ExecuteRegisterMember(ctx, RegisterMemberInput{
		Name:       v.Name,
		Email:      v.Email,
		Phone:      v.Phone,
		DOB:        input.DOB,
		Gender:     input.Gender,
		Department: input.Department,
		Status:     member.StatusActive,
	}, RegisterMemberDeps{MemberStore: deps.MemberStore, Now: deps.Now})
	if err != nil {
		return visitor.Visitor{}, member.Member{}, err
	}

	v, err = deps.VisitorStore.Update(ctx, input.VisitorID, func(v *visitor.Visitor) error {
		return v.MarkConverted(m.ID)
	})
	if err != nil {
		// a concurrent conversion won; drop the duplicate member
		if _, delErr := deps.MemberStore.DeleteWhere(ctx, func(x member.Member) bool { return x.ID == m.ID }); delErr != nil {
			slog.Error("visitor_event", "event", "conversion_rollback_failed", "member_id", m.ID, "error", delErr)
		}
		return visitor.Visitor{}, member.Member{}, err
	}
	slog.Info("visitor_event", "event", "visitor_converted", "visitor_id", v.ID, "member_id", m.ID)
	return v, m, nil
}
