package welfare

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Claim status constants
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
	StatusPaid     = "Paid"
)

// Statuses lists claim statuses in report order.
var Statuses = []string{StatusPending, StatusApproved, StatusRejected, StatusPaid}

// Claim types offered by the welfare committee.
const (
	TypeBereavement = "Bereavement"
	TypeMedical     = "Medical"
	TypeWedding     = "Wedding"
	TypeChildBirth  = "Child Birth"
	TypeEducation   = "Education"
	TypeHardship    = "Hardship"
)

// Types lists every claim type.
var Types = []string{TypeBereavement, TypeMedical, TypeWedding, TypeChildBirth, TypeEducation, TypeHardship}

// Domain errors
var (
	ErrEmptyMemberID    = errors.New("welfare claim requires a member")
	ErrInvalidType      = errors.New("unknown welfare claim type")
	ErrNonPositive      = errors.New("amount must be greater than zero")
	ErrDuplicateClaim   = errors.New("member already has an open claim of this type")
	ErrNotPending       = errors.New("only pending claims can be decided")
	ErrNotApproved      = errors.New("payments can only be made on approved claims")
	ErrEmptyClaimID     = errors.New("payment requires a claim")
	ErrPaymentMissingBy = errors.New("payment method cannot be empty")
)

// Claim is a member's request for welfare support.
type Claim struct {
	ID              string
	MemberID        string
	Type            string
	Reason          string
	AmountRequested decimal.Decimal
	Status          string
	SubmittedAt     time.Time
	DecidedAt       *time.Time
}

// Validate checks if the Claim has valid data.
// PRE: Claim struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Claim) Validate() error {
	if strings.TrimSpace(c.MemberID) == "" {
		return ErrEmptyMemberID
	}
	if !IsValidType(c.Type) {
		return ErrInvalidType
	}
	if !c.AmountRequested.IsPositive() {
		return ErrNonPositive
	}
	return nil
}

// IsOpen returns true while the claim still blocks a new claim of the same type.
func (c *Claim) IsOpen() bool {
	return c.Status == StatusPending || c.Status == StatusApproved
}

// Decide approves or rejects a pending claim.
// PRE: Status == Pending
// POST: Status is Approved or Rejected, DecidedAt set
func (c *Claim) Decide(approve bool, at time.Time) error {
	if c.Status != StatusPending {
		return ErrNotPending
	}
	if approve {
		c.Status = StatusApproved
	} else {
		c.Status = StatusRejected
	}
	c.DecidedAt = &at
	return nil
}

// IsValidType checks whether t is a known claim type.
func IsValidType(t string) bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

// Payment records money disbursed against an approved claim.
type Payment struct {
	ID       string
	ClaimID  string
	MemberID string
	Amount   decimal.Decimal
	PaidAt   time.Time
	Method   string
}

// Validate checks if the Payment has valid data.
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.ClaimID) == "" {
		return ErrEmptyClaimID
	}
	if !p.Amount.IsPositive() {
		return ErrNonPositive
	}
	if strings.TrimSpace(p.Method) == "" {
		return ErrPaymentMissingBy
	}
	return nil
}
