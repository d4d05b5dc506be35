package projections

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/partnership"
)

// TierCount is the number of partners in one tier.
type TierCount struct {
	Tier  string `json:"tier"`
	Count int    `json:"count"`
}

// PartnershipSummary is the partnership dashboard.
// TotalContributions comes from the partners' cached totals while the recent figures come from
// the contribution ledger; the two are not reconciled here.
type PartnershipSummary struct {
	TotalPartners      int             `json:"total_partners"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	TierCounts         []TierCount     `json:"tier_counts"`
	RecentCount        int             `json:"recent_contributions"`
	RecentAmount       decimal.Decimal `json:"recent_amount"`
	RecentSince        string          `json:"recent_since"`
}

// PartnershipDeps holds dependencies for QueryPartnershipSummary.
type PartnershipDeps struct {
	PartnerStore      Lister[partnership.Partner]
	ContributionStore Lister[partnership.Contribution]
}

// QueryPartnershipSummary recomputes the partnership figures.
// POST: TotalContributions == Σ partner.TotalContributions; tiers listed in display order,
// unknown tiers after them
func QueryPartnershipSummary(ctx context.Context, now time.Time, deps PartnershipDeps) (PartnershipSummary, error) {
	partners, err := deps.PartnerStore.List(ctx)
	if err != nil {
		return PartnershipSummary{}, err
	}
	contributions, err := deps.ContributionStore.List(ctx)
	if err != nil {
		return PartnershipSummary{}, err
	}

	s := PartnershipSummary{
		TotalPartners:      len(partners),
		TotalContributions: decimal.Zero,
		TierCounts:         []TierCount{},
		RecentAmount:       decimal.Zero,
		RecentSince:        dateutil.Format(now.AddDate(0, 0, -partnership.RecentContributionDays)),
	}
	counts := make(map[string]int)
	var extra []string
	for _, p := range partners {
		s.TotalContributions = s.TotalContributions.Add(p.TotalContributions)
		if counts[p.Tier] == 0 && !isKnownTier(p.Tier) {
			extra = append(extra, p.Tier)
		}
		counts[p.Tier]++
	}
	for _, tier := range append(append([]string{}, partnership.Tiers...), extra...) {
		if counts[tier] > 0 {
			s.TierCounts = append(s.TierCounts, TierCount{Tier: tier, Count: counts[tier]})
		}
	}

	today := dateutil.Format(now)
	for _, c := range contributions {
		if c.Date >= s.RecentSince && c.Date <= today {
			s.RecentCount++
			s.RecentAmount = s.RecentAmount.Add(c.Amount)
		}
	}
	return s, nil
}

func isKnownTier(t string) bool {
	for _, k := range partnership.Tiers {
		if k == t {
			return true
		}
	}
	return false
}
