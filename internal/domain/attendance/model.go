package attendance

import (
	"errors"
	"time"

	"churchdesk/internal/domain/dateutil"
)

// Status values for an attendance record.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusExcused = "Excused"
)

// Check-in methods.
const (
	MethodManual = "Manual"
	MethodQR     = "QR"
)

// Service types.
const (
	ServiceSunday   = "Sunday Service"
	ServiceMidweek  = "Midweek Service"
	ServicePrayer   = "Prayer Meeting"
	ServiceSpecial  = "Special Service"
	ServiceVigil    = "Night Vigil"
	DefaultValidity = 30 * time.Minute
)

// Domain errors
var (
	ErrEmptyMemberID   = errors.New("attendance must be associated with a member")
	ErrInvalidDate     = errors.New("service date must be YYYY-MM-DD")
	ErrInvalidStatus   = errors.New("status must be 'Present', 'Absent', or 'Excused'")
	ErrEmptyService    = errors.New("service type cannot be empty")
	ErrInvalidValidity = errors.New("token validity window must end after it starts")
)

// Record holds one member's attendance at one service.
type Record struct {
	ID            string
	MemberID      string
	ServiceDate   string // YYYY-MM-DD
	ServiceType   string
	Status        string
	CheckInMethod string
	CheckInTime   time.Time
	TokenID       string
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (r *Record) Validate() error {
	if r.MemberID == "" {
		return ErrEmptyMemberID
	}
	if !dateutil.Valid(r.ServiceDate) {
		return ErrInvalidDate
	}
	if r.Status != StatusPresent && r.Status != StatusAbsent && r.Status != StatusExcused {
		return ErrInvalidStatus
	}
	return nil
}

// IsSunday reports whether the record's service date falls on a Sunday.
func (r *Record) IsSunday() bool {
	d, err := dateutil.Parse(r.ServiceDate)
	if err != nil {
		return false
	}
	return d.Weekday() == time.Sunday
}

// QRToken authorizes QR check-ins for one service during a time window.
type QRToken struct {
	ID          string
	ServiceType string
	ServiceDate string // YYYY-MM-DD
	ValidFrom   time.Time
	ValidUntil  time.Time
	Active      bool
	CreatedAt   time.Time
}

// Validate checks if the QRToken has valid data.
func (t *QRToken) Validate() error {
	if t.ServiceType == "" {
		return ErrEmptyService
	}
	if !dateutil.Valid(t.ServiceDate) {
		return ErrInvalidDate
	}
	if !t.ValidUntil.After(t.ValidFrom) {
		return ErrInvalidValidity
	}
	return nil
}

// IsExpired reports whether the token no longer accepts check-ins at now.
// The boundary instant itself is still valid.
func (t *QRToken) IsExpired(now time.Time) bool {
	return !t.Active || now.After(t.ValidUntil)
}

// CheckInResult is the outcome of a QR check-in attempt.
type CheckInResult int

const (
	CheckInSuccess CheckInResult = iota
	CheckInInvalidToken
	CheckInExpired
	CheckInAlreadyMarked
	CheckInUnknownMember
)

// String returns the result label used in logs, metrics and API responses.
func (r CheckInResult) String() string {
	switch r {
	case CheckInSuccess:
		return "success"
	case CheckInInvalidToken:
		return "invalid_token"
	case CheckInExpired:
		return "expired"
	case CheckInAlreadyMarked:
		return "already_marked"
	case CheckInUnknownMember:
		return "unknown_member"
	default:
		return "unknown"
	}
}

// Message returns a human-readable description of the result.
func (r CheckInResult) Message() string {
	switch r {
	case CheckInSuccess:
		return "Attendance marked successfully"
	case CheckInInvalidToken:
		return "Invalid QR code"
	case CheckInExpired:
		return "QR code has expired"
	case CheckInAlreadyMarked:
		return "Attendance already marked for this service"
	case CheckInUnknownMember:
		return "Member not found"
	default:
		return "Unknown result"
	}
}
