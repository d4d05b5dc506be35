package program

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/dateutil"
)

// Program status constants
const (
	StatusPlanned   = "Planned"
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// ValidStatuses contains all valid program statuses.
var ValidStatuses = []string{StatusPlanned, StatusOngoing, StatusCompleted, StatusCancelled}

// Domain errors
var (
	ErrEmptyName      = errors.New("program name cannot be empty")
	ErrInvalidDate    = errors.New("program date must be YYYY-MM-DD")
	ErrInvalidStatus  = errors.New("program status must be Planned, Ongoing, Completed or Cancelled")
	ErrNegativeBudget = errors.New("program budget cannot be negative")
)

// Program represents a church event or programme (conference, outreach, retreat).
type Program struct {
	ID                 string
	Name               string
	Date               string // YYYY-MM-DD
	Venue              string
	Description        string // markdown
	Status             string
	ExpectedAttendance int
	Budget             decimal.Decimal
}

// Validate checks if the Program has valid data.
// PRE: Program struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Program) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !dateutil.Valid(p.Date) {
		return ErrInvalidDate
	}
	if !IsValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	if p.Budget.IsNegative() {
		return ErrNegativeBudget
	}
	return nil
}

// IsValidStatus checks whether s is a known program status.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsUpcoming returns true for programs on or after today that have not finished or been cancelled.
func (p *Program) IsUpcoming(today string) bool {
	if p.Status == StatusCompleted || p.Status == StatusCancelled {
		return false
	}
	return p.Date >= today
}
