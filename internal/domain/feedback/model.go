package feedback

import (
	"errors"
	"strings"
	"time"
)

// Feedback statuses.
const (
	StatusNew      = "New"
	StatusReviewed = "Reviewed"
	StatusResolved = "Resolved"
)

// Categories offered on the feedback form.
var Categories = []string{"Service", "Worship", "Sermon", "Facilities", "Children", "Other"}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Domain errors
var (
	ErrEmptyMessage  = errors.New("feedback message cannot be empty")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus = errors.New("feedback status must be New, Reviewed or Resolved")
)

// Feedback is a comment left by a congregant.
type Feedback struct {
	ID          string
	Category    string
	Message     string
	Rating      int
	Anonymous   bool
	Name        string
	Status      string
	SubmittedAt time.Time
}

// Validate checks if the Feedback has valid data.
// INVARIANT: MinRating <= Rating <= MaxRating
func (f *Feedback) Validate() error {
	if strings.TrimSpace(f.Message) == "" {
		return ErrEmptyMessage
	}
	if f.Rating < MinRating || f.Rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// IsValidStatus checks whether s is a known feedback status.
func IsValidStatus(s string) bool {
	return s == StatusNew || s == StatusReviewed || s == StatusResolved
}

// Author returns the submitter name unless the feedback is anonymous.
func (f *Feedback) Author() string {
	if f.Anonymous || strings.TrimSpace(f.Name) == "" {
		return "Anonymous"
	}
	return f.Name
}
