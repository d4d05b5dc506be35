package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"churchdesk/internal/domain/children"
)

// ChildStore defines the children registry operations.
type ChildStore interface {
	Create(ctx context.Context, build func(id string) (children.Child, error)) (children.Child, error)
	GetByID(ctx context.Context, id string) (children.Child, error)
}

// RegisterChildInput carries input for the orchestrator.
type RegisterChildInput struct {
	Name        string
	DOB         string
	Gender      string
	ParentName  string
	ParentPhone string
	Allergies   string
}

// RegisterChildDeps holds dependencies for RegisterChild.
type RegisterChildDeps struct {
	ChildStore ChildStore
	Now        func() time.Time
}

// ExecuteRegisterChild adds a child to the registry. The class group is not stored;
// it follows the child's age.
// PRE: name, DOB and parent name present
// POST: Child stored with RegisteredAt = now
func ExecuteRegisterChild(ctx context.Context, input RegisterChildInput, deps RegisterChildDeps) (children.Child, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	c, err := deps.ChildStore.Create(ctx, func(id string) (children.Child, error) {
		c := children.Child{
			ID:           id,
			Name:         strings.TrimSpace(input.Name),
			DOB:          input.DOB,
			Gender:       input.Gender,
			ParentName:   strings.TrimSpace(input.ParentName),
			ParentPhone:  strings.TrimSpace(input.ParentPhone),
			Allergies:    strings.TrimSpace(input.Allergies),
			RegisteredAt: now(),
		}
		return c, c.Validate()
	})
	if err != nil {
		return children.Child{}, err
	}
	slog.Info("children_event", "event", "child_registered", "child_id", c.ID)
	return c, nil
}
