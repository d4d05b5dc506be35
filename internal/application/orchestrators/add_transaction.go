package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/finance"
)

// TransactionStore defines the ledger table operations.
type TransactionStore interface {
	Create(ctx context.Context, build func(id string) (finance.Transaction, error)) (finance.Transaction, error)
}

// TransactionRecorder receives ledger writes for metrics. Optional.
type TransactionRecorder interface {
	RecordTransaction(txType string)
}

// AddTransactionInput carries input for the orchestrator.
// Amount may be given with either sign; the ledger applies the convention for Type.
type AddTransactionInput struct {
	Type          string
	Category      string
	Amount        decimal.Decimal
	Date          string // defaults to today
	MemberID      string // optional, required for tithe ranking
	Description   string
	PaymentMethod string
}

// AddTransactionDeps holds dependencies for AddTransaction.
type AddTransactionDeps struct {
	TransactionStore TransactionStore
	Recorder         TransactionRecorder
	Now              func() time.Time
}

// ExecuteAddTransaction appends a ledger entry with its sign normalized.
// PRE: Type is Income or Expense, Amount non-zero
// POST: Income stored as +|Amount|, Expense as -|Amount|
// INVARIANT: balance is always the plain sum of stored amounts
func ExecuteAddTransaction(ctx context.Context, input AddTransactionInput, deps AddTransactionDeps) (finance.Transaction, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	date := input.Date
	if date == "" {
		date = dateutil.Format(now())
	}

	tx, err := deps.TransactionStore.Create(ctx, func(id string) (finance.Transaction, error) {
		t := finance.Transaction{
			ID:            id,
			Type:          input.Type,
			Category:      strings.TrimSpace(input.Category),
			Amount:        finance.SignedAmount(input.Type, input.Amount),
			Date:          date,
			MemberID:      strings.TrimSpace(input.MemberID),
			Description:   input.Description,
			PaymentMethod: input.PaymentMethod,
		}
		return t, t.Validate()
	})
	if err != nil {
		return finance.Transaction{}, err
	}

	if deps.Recorder != nil {
		deps.Recorder.RecordTransaction(tx.Type)
	}
	slog.Info("finance_event", "event", "transaction_added", "transaction_id", tx.ID, "type", tx.Type, "category", tx.Category, "amount", tx.Amount.StringFixed(2))
	return tx, nil
}
