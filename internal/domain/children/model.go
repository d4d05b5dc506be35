package children

import (
	"errors"
	"strings"
	"time"

	"churchdesk/internal/domain/dateutil"
)

// Class groups by age band.
const (
	GroupNursery   = "Nursery"   // 0-2
	GroupPreschool = "Preschool" // 3-5
	GroupJuniors   = "Juniors"   // 6-12
	GroupYouth     = "Youth"     // 13+
)

// ClassGroups lists the groups in display order.
var ClassGroups = []string{GroupNursery, GroupPreschool, GroupJuniors, GroupYouth}

// Domain errors
var (
	ErrEmptyName          = errors.New("child name cannot be empty")
	ErrInvalidDOB         = errors.New("date of birth must be YYYY-MM-DD")
	ErrEmptyParent        = errors.New("parent name cannot be empty")
	ErrAlreadyCheckedIn   = errors.New("child is already checked in for this service")
	ErrNotCheckedIn       = errors.New("child has no open check-in for this service")
	ErrPickupCodeMismatch = errors.New("pickup code does not match")
)

// Child holds a registered child's details.
type Child struct {
	ID           string
	Name         string
	DOB          string // YYYY-MM-DD
	Gender       string
	ParentName   string
	ParentPhone  string
	Allergies    string
	RegisteredAt time.Time
}

// Validate checks if the Child has valid data.
// PRE: Child struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Child) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !dateutil.Valid(c.DOB) {
		return ErrInvalidDOB
	}
	if strings.TrimSpace(c.ParentName) == "" {
		return ErrEmptyParent
	}
	return nil
}

// Age returns the child's age as of now.
func (c *Child) Age(now time.Time) int {
	age, err := dateutil.AgeOn(c.DOB, now)
	if err != nil {
		return 0
	}
	return age
}

// ClassGroup returns the class group for the child's current age.
func (c *Child) ClassGroup(now time.Time) string {
	return ClassGroupForAge(c.Age(now))
}

// ClassGroupForAge maps an age to its class group.
func ClassGroupForAge(age int) string {
	switch {
	case age <= 2:
		return GroupNursery
	case age <= 5:
		return GroupPreschool
	case age <= 12:
		return GroupJuniors
	default:
		return GroupYouth
	}
}

// CheckIn records a child being dropped off and, later, picked up.
type CheckIn struct {
	ID           string
	ChildID      string
	ServiceDate  string // YYYY-MM-DD
	CheckInTime  time.Time
	CheckOutTime time.Time
	PickupCode   string
	CheckedOutBy string
}

// IsOpen returns true while the child has not been picked up.
func (c *CheckIn) IsOpen() bool {
	return c.CheckOutTime.IsZero()
}

// CheckOut closes the check-in when the pickup code matches.
// PRE: check-in is open
// POST: CheckOutTime and CheckedOutBy set
func (c *CheckIn) CheckOut(code, collectedBy string, at time.Time) error {
	if !c.IsOpen() {
		return ErrNotCheckedIn
	}
	if !strings.EqualFold(strings.TrimSpace(code), c.PickupCode) {
		return ErrPickupCodeMismatch
	}
	c.CheckOutTime = at
	c.CheckedOutBy = collectedBy
	return nil
}
