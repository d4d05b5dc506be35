package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/finance"
	"churchdesk/internal/domain/welfare"
)

func newWelfareDeps(t *testing.T) (WelfareDeps, string) {
	t.Helper()
	members := newMemberStore()
	m := seedMember(t, members, "Adwoa Darko", "0242222222", "")
	return WelfareDeps{
		ClaimStore:       newClaimStore(),
		PaymentStore:     newPaymentStore(),
		MemberStore:      members,
		TransactionStore: newTransactionStore(),
		Now:              clockAt(sundayNoon),
	}, m.ID
}

// TestExecuteSubmitClaim_Duplicate tests the one-open-claim-per-type rule.
func TestExecuteSubmitClaim_Duplicate(t *testing.T) {
	ctx := context.Background()
	deps, memberID := newWelfareDeps(t)
	in := SubmitClaimInput{MemberID: memberID, Type: welfare.TypeMedical, Reason: "Surgery", AmountRequested: decimal.NewFromInt(500)}

	c, err := ExecuteSubmitClaim(ctx, in, deps)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if c.Status != welfare.StatusPending {
		t.Errorf("status = %s", c.Status)
	}
	if _, err := ExecuteSubmitClaim(ctx, in, deps); !errors.Is(err, welfare.ErrDuplicateClaim) {
		t.Errorf("duplicate err = %v", err)
	}

	other := in
	other.Type = welfare.TypeEducation
	if _, err := ExecuteSubmitClaim(ctx, other, deps); err != nil {
		t.Errorf("different type should be allowed: %v", err)
	}

	if _, err := ExecuteDecideClaim(ctx, c.ID, false, deps); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := ExecuteSubmitClaim(ctx, in, deps); err != nil {
		t.Errorf("resubmit after rejection: %v", err)
	}
}

// TestExecuteSubmitClaim_UnknownMember tests member lookup.
func TestExecuteSubmitClaim_UnknownMember(t *testing.T) {
	deps, _ := newWelfareDeps(t)
	_, err := ExecuteSubmitClaim(context.Background(), SubmitClaimInput{MemberID: "M404", Type: welfare.TypeMedical, AmountRequested: decimal.NewFromInt(1)}, deps)
	if !errors.Is(err, memory.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestExecutePayClaim_RequiresApproval tests the payment gate and ledger booking.
func TestExecutePayClaim_RequiresApproval(t *testing.T) {
	ctx := context.Background()
	deps, memberID := newWelfareDeps(t)
	c, _ := ExecuteSubmitClaim(ctx, SubmitClaimInput{MemberID: memberID, Type: welfare.TypeBereavement, AmountRequested: decimal.NewFromInt(800)}, deps)

	if _, err := ExecutePayClaim(ctx, PayClaimInput{ClaimID: c.ID}, deps); !errors.Is(err, welfare.ErrNotApproved) {
		t.Fatalf("pay pending err = %v", err)
	}
	if _, err := ExecuteDecideClaim(ctx, c.ID, true, deps); err != nil {
		t.Fatalf("approve: %v", err)
	}
	p, err := ExecutePayClaim(ctx, PayClaimInput{ClaimID: c.ID, Method: finance.MethodMobile}, deps)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !p.Amount.Equal(decimal.NewFromInt(800)) || p.MemberID != memberID {
		t.Errorf("payment = %+v", p)
	}
	got, _ := deps.ClaimStore.GetByID(ctx, c.ID)
	if got.Status != welfare.StatusPaid {
		t.Errorf("claim status = %s", got.Status)
	}
	if _, err := ExecutePayClaim(ctx, PayClaimInput{ClaimID: c.ID}, deps); !errors.Is(err, welfare.ErrNotApproved) {
		t.Errorf("double pay err = %v", err)
	}

	txs, _ := deps.TransactionStore.(*memory.Store[finance.Transaction]).List(ctx)
	if len(txs) != 1 || txs[0].Category != finance.CategoryWelfare || !txs[0].Amount.Equal(decimal.NewFromInt(-800)) {
		t.Errorf("ledger = %+v", txs)
	}
}

// TestExecuteDecideClaim_OnlyPending tests that decided claims stay decided.
func TestExecuteDecideClaim_OnlyPending(t *testing.T) {
	ctx := context.Background()
	deps, memberID := newWelfareDeps(t)
	c, _ := ExecuteSubmitClaim(ctx, SubmitClaimInput{MemberID: memberID, Type: welfare.TypeWedding, AmountRequested: decimal.NewFromInt(300)}, deps)
	if _, err := ExecuteDecideClaim(ctx, c.ID, true, deps); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := ExecuteDecideClaim(ctx, c.ID, false, deps); !errors.Is(err, welfare.ErrNotPending) {
		t.Errorf("second decision err = %v", err)
	}
}
