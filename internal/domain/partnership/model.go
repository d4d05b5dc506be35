package partnership

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tier labels. Tiers group partners for display only.
const (
	TierPlatinum = "Platinum Partners"
	TierGold     = "Gold Partners"
	TierSilver   = "Silver Partners"
	TierBronze   = "Bronze Partners"
)

// Tiers lists tier labels in display order.
var Tiers = []string{TierPlatinum, TierGold, TierSilver, TierBronze}

// Contribution types.
const (
	ContributionMonthly  = "Monthly Pledge"
	ContributionOneOff   = "One-off"
	ContributionProject  = "Project Support"
	ContributionMissions = "Missions"
)

// RecentContributionDays is the look-back window, in days, for recent contributions in summaries.
const RecentContributionDays = 30

// Domain errors
var (
	ErrEmptyName        = errors.New("partner name cannot be empty")
	ErrInvalidEmail     = errors.New("partner email must be valid")
	ErrNonPositive      = errors.New("contribution amount must be positive")
	ErrEmptyPartnerID   = errors.New("contribution must reference a partner")
	ErrPartnerNotFound  = errors.New("partner not found")
	ErrNegativeTotal    = errors.New("partner total cannot be negative")
	ErrContributionDate = errors.New("contribution date must be YYYY-MM-DD")
)

// Partner is a supporter of the church. TotalContributions is a running total
// maintained by the contribution ledger and is never written from profile edits.
type Partner struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Email                string          `json:"email"`
	Phone                string          `json:"phone"`
	PartnershipDate      string          `json:"partnership_date"`
	Tier                 string          `json:"tier"`
	TotalContributions   decimal.Decimal `json:"total_contributions"`
	LastContributionDate string          `json:"last_contribution_date,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// createdAtLayouts are tried in order. The zoneless forms match files written by the
// original desk, which stored local time without an offset. Fractional seconds are
// accepted by every layout.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON reads a stored partner leniently.
// POST: created_at parsed with or without offset (zoneless as local time, unknown forms as zero);
// a missing tier reads as TierBronze
func (p *Partner) UnmarshalJSON(data []byte) error {
	type plain Partner
	aux := struct {
		*plain
		CreatedAt *string `json:"created_at"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.CreatedAt = time.Time{}
	if aux.CreatedAt != nil {
		p.CreatedAt = parseCreatedAt(*aux.CreatedAt)
	}
	if strings.TrimSpace(p.Tier) == "" {
		p.Tier = TierBronze
	}
	return nil
}

func parseCreatedAt(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range createdAtLayouts {
		loc := time.Local
		if layout == time.RFC3339Nano {
			loc = time.UTC
		}
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Validate checks if the Partner has valid data.
// PRE: Partner struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Partner) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	if p.TotalContributions.IsNegative() {
		return ErrNegativeTotal
	}
	return nil
}

// Profile carries the partner fields editable through the API.
// Nil fields are left unchanged.
type Profile struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	PartnershipDate *string `json:"partnership_date"`
	Tier            *string `json:"tier"`
}

// Apply copies the non-nil profile fields onto p.
func (pr Profile) Apply(p *Partner) {
	if pr.Name != nil {
		p.Name = *pr.Name
	}
	if pr.Email != nil {
		p.Email = *pr.Email
	}
	if pr.Phone != nil {
		p.Phone = *pr.Phone
	}
	if pr.PartnershipDate != nil {
		p.PartnershipDate = *pr.PartnershipDate
	}
	if pr.Tier != nil {
		p.Tier = *pr.Tier
	}
}

// Credit adds a contribution to the cached running total.
// PRE: amount > 0
// POST: TotalContributions increased by amount, LastContributionDate = date
func (p *Partner) Credit(amount decimal.Decimal, date string) error {
	if !amount.IsPositive() {
		return ErrNonPositive
	}
	p.TotalContributions = p.TotalContributions.Add(amount)
	p.LastContributionDate = date
	return nil
}

// Contribution is one entry in the partnership ledger.
type Contribution struct {
	ID        string
	PartnerID string
	Date      string // YYYY-MM-DD
	Amount    decimal.Decimal
	Type      string
	Notes     string
}

// Validate checks if the Contribution has valid data.
func (c *Contribution) Validate() error {
	if c.PartnerID == "" {
		return ErrEmptyPartnerID
	}
	if !c.Amount.IsPositive() {
		return ErrNonPositive
	}
	return nil
}
