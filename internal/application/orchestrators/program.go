package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/program"
)

// ProgramStore defines the programs table operations.
type ProgramStore interface {
	Create(ctx context.Context, build func(id string) (program.Program, error)) (program.Program, error)
	Update(ctx context.Context, id string, mutate func(*program.Program) error) (program.Program, error)
}

// CreateProgramInput carries input for the orchestrator.
type CreateProgramInput struct {
	Name               string
	Date               string
	Venue              string
	Description        string
	ExpectedAttendance int
	Budget             decimal.Decimal
}

// ProgramDeps holds dependencies for the program orchestrators.
type ProgramDeps struct {
	ProgramStore ProgramStore
}

// ExecuteCreateProgram schedules a program in Planned status.
// PRE: name and date present, budget >= 0
// POST: Program stored with Status = Planned
func ExecuteCreateProgram(ctx context.Context, input CreateProgramInput, deps ProgramDeps) (program.Program, error) {
	p, err := deps.ProgramStore.Create(ctx, func(id string) (program.Program, error) {
		p := program.Program{
			ID:                 id,
			Name:               strings.TrimSpace(input.Name),
			Date:               input.Date,
			Venue:              strings.TrimSpace(input.Venue),
			Description:        input.Description,
			Status:             program.StatusPlanned,
			ExpectedAttendance: input.ExpectedAttendance,
			Budget:             input.Budget,
		}
		return p, p.Validate()
	})
	if err != nil {
		return program.Program{}, err
	}
	slog.Info("program_event", "event", "program_created", "program_id", p.ID, "date", p.Date)
	return p, nil
}

// ExecuteSetProgramStatus moves a program to status.
// PRE: status is a known program status
// POST: Program.Status == status
func ExecuteSetProgramStatus(ctx context.Context, id, status string, deps ProgramDeps) (program.Program, error) {
	if !program.IsValidStatus(status) {
		return program.Program{}, program.ErrInvalidStatus
	}
	p, err := deps.ProgramStore.Update(ctx, id, func(p *program.Program) error {
		p.Status = status
		return nil
	})
	if err != nil {
		return program.Program{}, err
	}
	slog.Info("program_event", "event", "program_status_changed", "program_id", p.ID, "status", status)
	return p, nil
}
