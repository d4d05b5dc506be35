package visitor

import (
	"errors"
	"strings"
	"time"

	"churchdesk/internal/domain/dateutil"
)

// Follow-up statuses.
const (
	StatusNew        = "New"
	StatusContacted  = "Contacted"
	StatusFollowedUp = "Followed Up"
	StatusConverted  = "Converted"
)

// Domain errors
var (
	ErrEmptyName        = errors.New("visitor name cannot be empty")
	ErrInvalidDate      = errors.New("visit date must be YYYY-MM-DD")
	ErrEmptyNote        = errors.New("follow-up note cannot be empty")
	ErrAlreadyConverted = errors.New("visitor has already been converted to a member")
)

// FollowUp is one contact attempt with a visitor.
type FollowUp struct {
	At     time.Time
	By     string
	Method string
	Note   string
}

// Visitor is a first-time or returning guest awaiting follow-up.
type Visitor struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	VisitDate string // YYYY-MM-DD
	InvitedBy string
	Status    string
	FollowUps []FollowUp
	MemberID  string // set once converted
}

// Validate checks if the Visitor has valid data.
func (v *Visitor) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrEmptyName
	}
	if !dateutil.Valid(v.VisitDate) {
		return ErrInvalidDate
	}
	return nil
}

// AwaitingFollowUp returns true for visitors nobody has reached yet.
func (v *Visitor) AwaitingFollowUp() bool {
	return v.Status == StatusNew
}

// RecordFollowUp appends a contact note and advances the status.
// PRE: visitor is not converted, note is non-empty
// POST: FollowUps grows by one; Status is Contacted after the first note, Followed Up after that
func (v *Visitor) RecordFollowUp(f FollowUp) error {
	if v.Status == StatusConverted {
		return ErrAlreadyConverted
	}
	if strings.TrimSpace(f.Note) == "" {
		return ErrEmptyNote
	}
	v.FollowUps = append(v.FollowUps, f)
	if len(v.FollowUps) == 1 {
		v.Status = StatusContacted
	} else {
		v.Status = StatusFollowedUp
	}
	return nil
}

// MarkConverted links the visitor to the member record created for them.
func (v *Visitor) MarkConverted(memberID string) error {
	if v.Status == StatusConverted {
		return ErrAlreadyConverted
	}
	v.Status = StatusConverted
	v.MemberID = memberID
	return nil
}
