package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/finance"
	"churchdesk/internal/domain/welfare"
)

// ClaimStore defines the welfare claim table operations.
type ClaimStore interface {
	CreateUnless(ctx context.Context, clash func(welfare.Claim) bool, build func(id string) (welfare.Claim, error)) (welfare.Claim, error)
	GetByID(ctx context.Context, id string) (welfare.Claim, error)
	Update(ctx context.Context, id string, mutate func(*welfare.Claim) error) (welfare.Claim, error)
}

// PaymentStore defines the welfare payment table operations.
type PaymentStore interface {
	Create(ctx context.Context, build func(id string) (welfare.Payment, error)) (welfare.Payment, error)
}

// WelfareDeps holds dependencies for the welfare orchestrators.
type WelfareDeps struct {
	ClaimStore   ClaimStore
	PaymentStore PaymentStore
	MemberStore  MemberLookup
	// TransactionStore is optional; when set, payments are also booked as Welfare expenses.
	TransactionStore TransactionStore
	Now              func() time.Time
}

func (d WelfareDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// SubmitClaimInput carries input for the orchestrator.
type SubmitClaimInput struct {
	MemberID        string
	Type            string
	Reason          string
	AmountRequested decimal.Decimal
}

// ExecuteSubmitClaim files a Pending claim for a member.
// PRE: member exists; no open claim of the same type for the member
// POST: Claim stored with Status = Pending
// INVARIANT: at most one Pending/Approved claim per (member, type)
func ExecuteSubmitClaim(ctx context.Context, input SubmitClaimInput, deps WelfareDeps) (welfare.Claim, error) {
	if _, err := deps.MemberStore.GetByID(ctx, input.MemberID); err != nil {
		return welfare.Claim{}, err
	}
	at := deps.now()
	open := func(c welfare.Claim) bool {
		return c.MemberID == input.MemberID && c.Type == input.Type && c.IsOpen()
	}
	c, err := deps.ClaimStore.CreateUnless(ctx, open, func(id string) (welfare.Claim, error) {
		c := welfare.Claim{
			ID:              id,
			MemberID:        input.MemberID,
			Type:            input.Type,
			Reason:          strings.TrimSpace(input.Reason),
			AmountRequested: input.AmountRequested,
			Status:          welfare.StatusPending,
			SubmittedAt:     at,
		}
		return c, c.Validate()
	})
	if errors.Is(err, memory.ErrConflict) {
		return welfare.Claim{}, welfare.ErrDuplicateClaim
	}
	if err != nil {
		return welfare.Claim{}, err
	}
	slog.Info("welfare_event", "event", "claim_submitted", "claim_id", c.ID, "member_id", c.MemberID, "type", c.Type)
	return c, nil
}

// ExecuteDecideClaim approves or rejects a pending claim.
// PRE: claim is Pending
// POST: claim is Approved or Rejected
func ExecuteDecideClaim(ctx context.Context, claimID string, approve bool, deps WelfareDeps) (welfare.Claim, error) {
	at := deps.now()
	c, err := deps.ClaimStore.Update(ctx, claimID, func(c *welfare.Claim) error {
		return c.Decide(approve, at)
	})
	if err != nil {
		return welfare.Claim{}, err
	}
	slog.Info("welfare_event", "event", "claim_decided", "claim_id", c.ID, "status", c.Status)
	return c, nil
}

// PayClaimInput carries input for the orchestrator.
type PayClaimInput struct {
	ClaimID string
	Amount  decimal.Decimal // zero pays the requested amount
	Method  string
}

// ExecutePayClaim disburses an approved claim and marks it Paid.
// PRE: claim is Approved
// POST: one payment recorded; claim.Status = Paid
func ExecutePayClaim(ctx context.Context, input PayClaimInput, deps WelfareDeps) (welfare.Payment, error) {
	at := deps.now()
	method := input.Method
	if method == "" {
		method = finance.MethodCash
	}

	var amount decimal.Decimal
	claim, err := deps.ClaimStore.Update(ctx, input.ClaimID, func(c *welfare.Claim) error {
		if c.Status != welfare.StatusApproved {
			return welfare.ErrNotApproved
		}
		amount = input.Amount
		if amount.IsZero() {
			amount = c.AmountRequested
		}
		if !amount.IsPositive() {
			return welfare.ErrNonPositive
		}
		c.Status = welfare.StatusPaid
		return nil
	})
	if err != nil {
		return welfare.Payment{}, err
	}

	p, err := deps.PaymentStore.Create(ctx, func(id string) (welfare.Payment, error) {
		p := welfare.Payment{
			ID:       id,
			ClaimID:  claim.ID,
			MemberID: claim.MemberID,
			Amount:   amount,
			PaidAt:   at,
			Method:   method,
		}
		return p, p.Validate()
	})
	if err != nil {
		if _, rbErr := deps.ClaimStore.Update(ctx, claim.ID, func(c *welfare.Claim) error {
			c.Status = welfare.StatusApproved
			return nil
		}); rbErr != nil {
			slog.Error("welfare_event", "event", "payment_rollback_failed", "claim_id", claim.ID, "error", rbErr)
		}
		return welfare.Payment{}, fmt.Errorf("record payment: %w", err)
	}

	if deps.TransactionStore != nil {
		_, txErr := ExecuteAddTransaction(ctx, AddTransactionInput{
			Type:          finance.TypeExpense,
			Category:      finance.CategoryWelfare,
			Amount:        amount,
			Date:          dateutil.Format(at),
			MemberID:      claim.MemberID,
			Description:   fmt.Sprintf("%s claim %s", claim.Type, claim.ID),
			PaymentMethod: method,
		}, AddTransactionDeps{TransactionStore: deps.TransactionStore, Now: deps.Now})
		if txErr != nil {
			slog.Warn("welfare_event", "event", "payment_not_booked", "claim_id", claim.ID, "error", txErr)
		}
	}

	slog.Info("welfare_event", "event", "claim_paid", "claim_id", claim.ID, "payment_id", p.ID, "amount", amount.StringFixed(2))
	return p, nil
}
