package equipment

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/dateutil"
)

// Condition constants
const (
	ConditionGood        = "Good"
	ConditionFair        = "Fair"
	ConditionPoor        = "Poor"
	ConditionNeedsRepair = "Needs Repair"
)

// Conditions lists every known condition in display order.
var Conditions = []string{ConditionGood, ConditionFair, ConditionPoor, ConditionNeedsRepair}

// Categories used by the inventory forms.
var Categories = []string{"Sound", "Instruments", "Furniture", "Electronics", "Kitchen", "Other"}

// Domain errors
var (
	ErrEmptyName        = errors.New("equipment name cannot be empty")
	ErrNegativeQuantity = errors.New("equipment quantity cannot be negative")
	ErrInvalidCondition = errors.New("equipment condition must be Good, Fair, Poor or Needs Repair")
	ErrInvalidDate      = errors.New("purchase date must be YYYY-MM-DD")
	ErrNegativeValue    = errors.New("equipment value cannot be negative")
)

// Item is one line in the equipment inventory.
type Item struct {
	ID           string
	Name         string
	Category     string
	Quantity     int
	Condition    string
	Location     string
	PurchaseDate string // optional
	Value        decimal.Decimal
}

// Validate checks if the Item has valid data.
// PRE: Item struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: Quantity >= 0
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if !IsValidCondition(i.Condition) {
		return ErrInvalidCondition
	}
	if i.PurchaseDate != "" && !dateutil.Valid(i.PurchaseDate) {
		return ErrInvalidDate
	}
	if i.Value.IsNegative() {
		return ErrNegativeValue
	}
	return nil
}

// IsValidCondition checks whether c is a known condition.
func IsValidCondition(c string) bool {
	for _, v := range Conditions {
		if c == v {
			return true
		}
	}
	return false
}

// NeedsAttention returns true for items in Poor condition or awaiting repair.
func (i *Item) NeedsAttention() bool {
	return i.Condition == ConditionPoor || i.Condition == ConditionNeedsRepair
}
