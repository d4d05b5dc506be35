package finance

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/dateutil"
)

// Transaction types.
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// Common categories.
const (
	CategoryTithe       = "Tithe"
	CategoryOffering    = "Offering"
	CategorySeed        = "Seed"
	CategoryDonation    = "Donation"
	CategoryBuildFund   = "Building Fund"
	CategoryUtilities   = "Utilities"
	CategorySalaries    = "Salaries"
	CategoryMaintenance = "Maintenance"
	CategoryWelfare     = "Welfare"
	CategoryOutreach    = "Outreach"
)

// IncomeCategories and ExpenseCategories list the categories offered by forms and seed data.
var (
	IncomeCategories  = []string{CategoryTithe, CategoryOffering, CategorySeed, CategoryDonation, CategoryBuildFund}
	ExpenseCategories = []string{CategoryUtilities, CategorySalaries, CategoryMaintenance, CategoryWelfare, CategoryOutreach}
)

// Payment methods.
const (
	MethodCash     = "Cash"
	MethodTransfer = "Bank Transfer"
	MethodMobile   = "Mobile Money"
	MethodCheque   = "Cheque"
)

// Domain errors
var (
	ErrInvalidType   = errors.New("transaction type must be 'Income' or 'Expense'")
	ErrEmptyCategory = errors.New("transaction category cannot be empty")
	ErrZeroAmount    = errors.New("transaction amount cannot be zero")
	ErrInvalidDate   = errors.New("transaction date must be YYYY-MM-DD")
	ErrSignMismatch  = errors.New("income must be positive and expense negative")
)

// Transaction is one ledger entry. Amount is signed: income positive, expense negative.
type Transaction struct {
	ID            string
	Type          string
	Category      string
	Amount        decimal.Decimal
	Date          string // YYYY-MM-DD
	MemberID      string // optional
	Description   string
	PaymentMethod string
}

// SignedAmount returns amount with the sign convention for txType applied:
// income is stored as +|amount|, expense as -|amount|.
func SignedAmount(txType string, amount decimal.Decimal) decimal.Decimal {
	if txType == TypeExpense {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// Validate checks if the Transaction has valid data.
// PRE: Transaction struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Amount sign matches Type
func (t *Transaction) Validate() error {
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Amount.IsZero() {
		return ErrZeroAmount
	}
	if !dateutil.Valid(t.Date) {
		return ErrInvalidDate
	}
	if (t.Type == TypeIncome) != t.Amount.IsPositive() {
		return ErrSignMismatch
	}
	return nil
}

// IsIncome returns true for income transactions.
func (t *Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}
