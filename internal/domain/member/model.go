package member

import (
	"errors"
	"strings"
	"time"

	"churchdesk/internal/domain/dateutil"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusVisitor  = "Visitor"

	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Departments lists the ministry departments a member can serve in.
var Departments = []string{"Choir", "Ushering", "Media", "Protocol", "Children", "Youth", "Evangelism", "Welfare"}

// Domain errors
var (
	ErrEmptyName     = errors.New("member name cannot be empty")
	ErrNameTooLong   = errors.New("member name cannot exceed 100 characters")
	ErrInvalidGender = errors.New("gender must be 'Male' or 'Female'")
	ErrInvalidStatus = errors.New("status must be 'Active', 'Inactive', or 'Visitor'")
	ErrInvalidDOB    = errors.New("date of birth must be YYYY-MM-DD")
	ErrInvalidEmail  = errors.New("member email must be valid")
)

// Member holds state for the concept.
type Member struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	DOB              string // YYYY-MM-DD
	Gender           string
	Department       string
	Status           string
	MaritalStatus    string
	Address          string
	RegistrationDate string // YYYY-MM-DD
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty, DOB must parse, Gender and Status must be known values
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if m.Email != "" && !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if !dateutil.Valid(m.DOB) {
		return ErrInvalidDOB
	}
	if m.Gender != GenderMale && m.Gender != GenderFemale {
		return ErrInvalidGender
	}
	if m.Status != StatusActive && m.Status != StatusInactive && m.Status != StatusVisitor {
		return ErrInvalidStatus
	}
	return nil
}

// Age returns the member's age derived from DOB as of now.
// Age is never stored, so it cannot drift from the date of birth.
func (m *Member) Age(now time.Time) int {
	age, err := dateutil.AgeOn(m.DOB, now)
	if err != nil {
		return 0
	}
	return age
}

// IsActive returns true if the member is currently active.
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// AgeBand labels.
const (
	BandUnder18 = "Under 18"
	Band18To35  = "18-35"
	Band36To59  = "36-59"
	Band60Plus  = "60+"
)

// AgeBands lists the band labels in display order.
var AgeBands = []string{BandUnder18, Band18To35, Band36To59, Band60Plus}

// AgeBand returns the band label for an age: [0,18), [18,36), [36,60), [60,∞).
func AgeBand(age int) string {
	switch {
	case age < 18:
		return BandUnder18
	case age < 36:
		return Band18To35
	case age < 60:
		return Band36To59
	default:
		return Band60Plus
	}
}
