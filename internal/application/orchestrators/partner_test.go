package orchestrators

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/partnership"
)

// TestExecuteCreatePartner_Defaults tests tier and total defaults.
func TestExecuteCreatePartner_Defaults(t *testing.T) {
	deps := newPartnerDeps(t)
	deps.GenerateID = func() string { return "p-1" }
	p, err := ExecuteCreatePartner(context.Background(), CreatePartnerInput{Name: " Kofi Mensah ", Email: "kofi@example.com"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "p-1" || p.Name != "Kofi Mensah" {
		t.Errorf("partner = %+v", p)
	}
	if p.Tier != partnership.TierBronze || !p.TotalContributions.IsZero() {
		t.Errorf("defaults = %s, %s", p.Tier, p.TotalContributions)
	}
	if !p.CreatedAt.Equal(sundayNoon) {
		t.Errorf("created_at = %v", p.CreatedAt)
	}
}

// TestExecuteAddContribution_UpdatesTotal tests ledger and running total agreement.
func TestExecuteAddContribution_UpdatesTotal(t *testing.T) {
	ctx := context.Background()
	deps := newPartnerDeps(t)
	p, _ := ExecuteCreatePartner(ctx, CreatePartnerInput{Name: "Efua"}, deps)

	for _, amt := range []int64{200, 150} {
		if _, _, err := ExecuteAddContribution(ctx, AddContributionInput{PartnerID: p.ID, Amount: decimal.NewFromInt(amt), Date: "2026-02-10"}, deps); err != nil {
			t.Fatalf("add %d: %v", amt, err)
		}
	}
	got, _ := deps.PartnerStore.GetByID(ctx, p.ID)
	if !got.TotalContributions.Equal(decimal.NewFromInt(350)) {
		t.Errorf("total = %s, want 350", got.TotalContributions)
	}
	if got.LastContributionDate != "2026-02-10" {
		t.Errorf("last date = %s", got.LastContributionDate)
	}
	ledger, _ := deps.ContributionStore.List(ctx)
	if len(ledger) != 2 || ledger[0].Type != partnership.ContributionOneOff {
		t.Errorf("ledger = %+v", ledger)
	}
}

// TestExecuteAddContribution_Rejections tests that a refused contribution changes nothing.
func TestExecuteAddContribution_Rejections(t *testing.T) {
	ctx := context.Background()
	deps := newPartnerDeps(t)
	p, _ := ExecuteCreatePartner(ctx, CreatePartnerInput{Name: "Yaw"}, deps)

	if _, _, err := ExecuteAddContribution(ctx, AddContributionInput{PartnerID: "missing", Amount: decimal.NewFromInt(10)}, deps); !errors.Is(err, partnership.ErrPartnerNotFound) {
		t.Errorf("unknown partner err = %v", err)
	}
	if _, _, err := ExecuteAddContribution(ctx, AddContributionInput{PartnerID: p.ID, Amount: decimal.NewFromInt(-10)}, deps); err == nil {
		t.Error("expected error for negative amount")
	}
	if _, _, err := ExecuteAddContribution(ctx, AddContributionInput{PartnerID: p.ID, Amount: decimal.NewFromInt(10), Date: "01/02/2026"}, deps); !errors.Is(err, partnership.ErrContributionDate) {
		t.Errorf("bad date err = %v", err)
	}
	got, _ := deps.PartnerStore.GetByID(ctx, p.ID)
	ledger, _ := deps.ContributionStore.List(ctx)
	if !got.TotalContributions.IsZero() || len(ledger) != 0 {
		t.Errorf("state changed: total=%s ledger=%d", got.TotalContributions, len(ledger))
	}
}

// TestExecuteAddContribution_Concurrent tests that parallel contributions are all counted.
func TestExecuteAddContribution_Concurrent(t *testing.T) {
	ctx := context.Background()
	deps := newPartnerDeps(t)
	p, _ := ExecuteCreatePartner(ctx, CreatePartnerInput{Name: "Abena"}, deps)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := ExecuteAddContribution(ctx, AddContributionInput{PartnerID: p.ID, Amount: decimal.NewFromInt(4)}, deps); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := deps.PartnerStore.GetByID(ctx, p.ID)
	if !got.TotalContributions.Equal(decimal.NewFromInt(4 * n)) {
		t.Errorf("total = %s, want %d", got.TotalContributions, 4*n)
	}
	ledger, _ := deps.ContributionStore.List(ctx)
	sum := decimal.Zero
	for _, c := range ledger {
		sum = sum.Add(c.Amount)
	}
	if !sum.Equal(got.TotalContributions) {
		t.Errorf("ledger sum %s != total %s", sum, got.TotalContributions)
	}
}

// TestExecuteUpdatePartner_KeepsTotals tests that profile edits never touch totals.
func TestExecuteUpdatePartner_KeepsTotals(t *testing.T) {
	ctx := context.Background()
	deps := newPartnerDeps(t)
	p, _ := ExecuteCreatePartner(ctx, CreatePartnerInput{Name: "Kwesi"}, deps)
	_, _, _ = ExecuteAddContribution(ctx, AddContributionInput{PartnerID: p.ID, Amount: decimal.NewFromInt(75)}, deps)

	tier := partnership.TierGold
	got, err := ExecuteUpdatePartner(ctx, UpdatePartnerInput{ID: p.ID, Profile: partnership.Profile{Tier: &tier}}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tier != partnership.TierGold || !got.TotalContributions.Equal(decimal.NewFromInt(75)) {
		t.Errorf("partner = %+v", got)
	}
	if _, err := ExecuteUpdatePartner(ctx, UpdatePartnerInput{ID: "missing"}, deps); !errors.Is(err, partnership.ErrPartnerNotFound) {
		t.Errorf("unknown id err = %v", err)
	}
}

// TestExecuteDeletePartner_Idempotent tests repeated deletes.
func TestExecuteDeletePartner_Idempotent(t *testing.T) {
	ctx := context.Background()
	deps := newPartnerDeps(t)
	p, _ := ExecuteCreatePartner(ctx, CreatePartnerInput{Name: "Nana"}, deps)
	for i := 0; i < 2; i++ {
		if err := ExecuteDeletePartner(ctx, p.ID, deps); err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
	}
	if list, _ := deps.PartnerStore.List(ctx); len(list) != 0 {
		t.Errorf("partners = %d, want 0", len(list))
	}
}
