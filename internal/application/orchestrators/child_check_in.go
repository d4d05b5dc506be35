package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/children"
	"churchdesk/internal/domain/dateutil"
)

// ChildCheckInStore defines the check-in log operations.
type ChildCheckInStore interface {
	CreateUnless(ctx context.Context, clash func(children.CheckIn) bool, build func(id string) (children.CheckIn, error)) (children.CheckIn, error)
	Update(ctx context.Context, id string, mutate func(*children.CheckIn) error) (children.CheckIn, error)
}

// ChildCheckInInput carries input for the orchestrator.
type ChildCheckInInput struct {
	ChildID     string
	ServiceDate string // defaults to today
}

// ChildCheckInDeps holds dependencies for ChildCheckIn and ChildCheckOut.
type ChildCheckInDeps struct {
	ChildStore   ChildStore
	CheckInStore ChildCheckInStore
	Now          func() time.Time
	PickupCode   func() string
}

// newPickupCode returns six upper-case hex characters.
func newPickupCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
}

// ExecuteChildCheckIn opens a check-in and issues the pickup code for the parent.
// PRE: ChildID refers to a registered child
// POST: One open check-in exists for (child, service date)
func ExecuteChildCheckIn(ctx context.Context, input ChildCheckInInput, deps ChildCheckInDeps) (children.CheckIn, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	code := newPickupCode
	if deps.PickupCode != nil {
		code = deps.PickupCode
	}

	child, err := deps.ChildStore.GetByID(ctx, input.ChildID)
	if err != nil {
		return children.CheckIn{}, err
	}
	at := now()
	date := input.ServiceDate
	if date == "" {
		date = dateutil.Format(at)
	}

	open := func(c children.CheckIn) bool {
		return c.ChildID == child.ID && c.ServiceDate == date && c.IsOpen()
	}
	ci, err := deps.CheckInStore.CreateUnless(ctx, open, func(id string) (children.CheckIn, error) {
		return children.CheckIn{
			ID:          id,
			ChildID:     child.ID,
			ServiceDate: date,
			CheckInTime: at,
			PickupCode:  code(),
		}, nil
	})
	if errors.Is(err, memory.ErrConflict) {
		return children.CheckIn{}, children.ErrAlreadyCheckedIn
	}
	if err != nil {
		return children.CheckIn{}, err
	}
	slog.Info("children_event", "event", "child_checked_in", "child_id", child.ID, "check_in_id", ci.ID, "class_group", child.ClassGroup(at))
	return ci, nil
}

// ChildCheckOutInput carries input for the orchestrator.
type ChildCheckOutInput struct {
	CheckInID   string
	PickupCode  string
	CollectedBy string
}

// ExecuteChildCheckOut closes an open check-in when the pickup code matches.
// PRE: CheckInID refers to an open check-in
// POST: CheckOutTime set; a wrong code leaves the check-in open
func ExecuteChildCheckOut(ctx context.Context, input ChildCheckOutInput, deps ChildCheckInDeps) (children.CheckIn, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	ci, err := deps.CheckInStore.Update(ctx, input.CheckInID, func(c *children.CheckIn) error {
		return c.CheckOut(input.PickupCode, strings.TrimSpace(input.CollectedBy), now())
	})
	if err != nil {
		if errors.Is(err, children.ErrPickupCodeMismatch) {
			slog.Warn("children_event", "event", "pickup_code_mismatch", "check_in_id", input.CheckInID)
		}
		return children.CheckIn{}, err
	}
	slog.Info("children_event", "event", "child_checked_out", "check_in_id", ci.ID, "child_id", ci.ChildID)
	return ci, nil
}
