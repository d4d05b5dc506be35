package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/partnership"
)

// AddContributionInput carries input for the orchestrator.
type AddContributionInput struct {
	PartnerID string
	Amount    decimal.Decimal
	Type      string
	Notes     string
	Date      string // defaults to today
}

// ExecuteAddContribution records a contribution and credits the partner's running total.
// PRE: PartnerID exists, Amount > 0
// POST: ledger has one more entry; partner total grew by Amount; LastContributionDate = Date
// INVARIANT: the ledger append and the total update are never interleaved with another write
func ExecuteAddContribution(ctx context.Context, input AddContributionInput, deps PartnerDeps) (partnership.Contribution, partnership.Partner, error) {
	date := input.Date
	if date == "" {
		date = dateutil.Format(deps.now())
	}
	if !dateutil.Valid(date) {
		return partnership.Contribution{}, partnership.Partner{}, partnership.ErrContributionDate
	}
	kind := input.Type
	if kind == "" {
		kind = partnership.ContributionOneOff
	}

	deps.Ledger.Lock()
	defer deps.Ledger.Unlock()

	p, err := deps.PartnerStore.GetByID(ctx, input.PartnerID)
	if err != nil {
		return partnership.Contribution{}, partnership.Partner{}, err
	}

	c := partnership.Contribution{
		ID:        deps.newID(),
		PartnerID: p.ID,
		Date:      date,
		Amount:    input.Amount,
		Type:      kind,
		Notes:     strings.TrimSpace(input.Notes),
	}
	if err := c.Validate(); err != nil {
		return partnership.Contribution{}, partnership.Partner{}, err
	}

	before := p
	if err := p.Credit(c.Amount, c.Date); err != nil {
		return partnership.Contribution{}, partnership.Partner{}, err
	}
	if err := deps.PartnerStore.Save(ctx, p); err != nil {
		return partnership.Contribution{}, partnership.Partner{}, err
	}
	if err := deps.ContributionStore.Insert(ctx, c); err != nil {
		if rbErr := deps.PartnerStore.Save(ctx, before); rbErr != nil {
			slog.Error("partner_event", "event", "contribution_rollback_failed", "partner_id", p.ID, "error", rbErr)
		}
		return partnership.Contribution{}, partnership.Partner{}, fmt.Errorf("append contribution: %w", err)
	}

	slog.Info("partner_event", "event", "contribution_added", "partner_id", p.ID, "contribution_id", c.ID, "amount", c.Amount.StringFixed(2), "total", p.TotalContributions.StringFixed(2))
	return c, p, nil
}
