package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/partnership"
)

// PartnerStore defines the durable partner collection.
// GetByID returns an error wrapping partnership.ErrPartnerNotFound for unknown ids.
type PartnerStore interface {
	GetByID(ctx context.Context, id string) (partnership.Partner, error)
	Save(ctx context.Context, p partnership.Partner) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]partnership.Partner, error)
}

// ContributionStore defines the in-memory contribution ledger.
type ContributionStore interface {
	Insert(ctx context.Context, c partnership.Contribution) error
	List(ctx context.Context) ([]partnership.Contribution, error)
}

// PartnerDeps holds dependencies shared by the partner orchestrators.
// Ledger serializes every read-modify-write of a partner record and must be shared
// by all callers of the same stores.
type PartnerDeps struct {
	PartnerStore      PartnerStore
	ContributionStore ContributionStore
	Ledger            *sync.Mutex
	Now               func() time.Time
	GenerateID        func() string
}

func (d PartnerDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d PartnerDeps) newID() string {
	if d.GenerateID != nil {
		return d.GenerateID()
	}
	return uuid.New().String()
}

// CreatePartnerInput carries input for the orchestrator.
type CreatePartnerInput struct {
	Name            string
	Email           string
	Phone           string
	PartnershipDate string
	Tier            string // defaults to Bronze
}

// ExecuteCreatePartner adds a partner with a zero running total.
// PRE: non-empty name
// POST: Partner persisted with a uuid, CreatedAt = now, TotalContributions = 0
func ExecuteCreatePartner(ctx context.Context, input CreatePartnerInput, deps PartnerDeps) (partnership.Partner, error) {
	tier := input.Tier
	if tier == "" {
		tier = partnership.TierBronze
	}
	p := partnership.Partner{
		ID:                 deps.newID(),
		Name:               strings.TrimSpace(input.Name),
		Email:              strings.TrimSpace(input.Email),
		Phone:              strings.TrimSpace(input.Phone),
		PartnershipDate:    input.PartnershipDate,
		Tier:               tier,
		TotalContributions: decimal.Zero,
		CreatedAt:          deps.now(),
	}
	if err := p.Validate(); err != nil {
		return partnership.Partner{}, err
	}

	deps.Ledger.Lock()
	defer deps.Ledger.Unlock()
	if err := deps.PartnerStore.Save(ctx, p); err != nil {
		return partnership.Partner{}, err
	}
	slog.Info("partner_event", "event", "partner_created", "partner_id", p.ID, "tier", p.Tier)
	return p, nil
}

// UpdatePartnerInput carries input for the orchestrator.
type UpdatePartnerInput struct {
	ID      string
	Profile partnership.Profile
}

// ExecuteUpdatePartner applies profile edits. Running totals are never taken from input.
// PRE: ID refers to an existing partner
// POST: Profile fields updated; TotalContributions and LastContributionDate unchanged
func ExecuteUpdatePartner(ctx context.Context, input UpdatePartnerInput, deps PartnerDeps) (partnership.Partner, error) {
	deps.Ledger.Lock()
	defer deps.Ledger.Unlock()

	p, err := deps.PartnerStore.GetByID(ctx, input.ID)
	if err != nil {
		return partnership.Partner{}, err
	}
	input.Profile.Apply(&p)
	if err := p.Validate(); err != nil {
		return partnership.Partner{}, err
	}
	if err := deps.PartnerStore.Save(ctx, p); err != nil {
		return partnership.Partner{}, err
	}
	slog.Info("partner_event", "event", "partner_updated", "partner_id", p.ID)
	return p, nil
}

// ExecuteDeletePartner removes a partner. Unknown ids are not an error.
// Ledger contributions for the partner are kept.
func ExecuteDeletePartner(ctx context.Context, id string, deps PartnerDeps) error {
	deps.Ledger.Lock()
	defer deps.Ledger.Unlock()

	if err := deps.PartnerStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("partner_event", "event", "partner_deleted", "partner_id", id)
	return nil
}
