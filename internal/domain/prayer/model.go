package prayer

import (
	"errors"
	"strings"
	"time"
)

// Request statuses.
const (
	StatusOpen     = "Open"
	StatusAnswered = "Answered"
)

// Domain errors
var (
	ErrEmptyRequest    = errors.New("prayer request cannot be empty")
	ErrAlreadyAnswered = errors.New("prayer request is already marked answered")
)

// Request is a prayer request submitted by a member or guest.
type Request struct {
	ID          string
	Requester   string // empty for anonymous requests
	Request     string
	Private     bool
	Status      string
	SubmittedAt time.Time
	AnsweredAt  *time.Time
	Notes       string
}

// Validate checks if the Request has valid data.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Request) == "" {
		return ErrEmptyRequest
	}
	return nil
}

// DisplayName returns the requester name or "Anonymous".
func (r *Request) DisplayName() string {
	if strings.TrimSpace(r.Requester) == "" {
		return "Anonymous"
	}
	return r.Requester
}

// MarkAnswered closes the request with an optional testimony note.
// PRE: Status == Open
// POST: Status == Answered, AnsweredAt set
func (r *Request) MarkAnswered(notes string, at time.Time) error {
	if r.Status == StatusAnswered {
		return ErrAlreadyAnswered
	}
	r.Status = StatusAnswered
	r.AnsweredAt = &at
	r.Notes = strings.TrimSpace(notes)
	return nil
}
