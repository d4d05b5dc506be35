package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"churchdesk/internal/domain/prayer"
)

// PrayerStore defines the prayer request table operations.
type PrayerStore interface {
	Create(ctx context.Context, build func(id string) (prayer.Request, error)) (prayer.Request, error)
	Update(ctx context.Context, id string, mutate func(*prayer.Request) error) (prayer.Request, error)
}

// PrayerDeps holds dependencies for the prayer orchestrators.
type PrayerDeps struct {
	PrayerStore PrayerStore
	Now         func() time.Time
}

func (d PrayerDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// SubmitPrayerInput carries input for the orchestrator.
type SubmitPrayerInput struct {
	Requester string
	Request   string
	Private   bool
}

// ExecuteSubmitPrayer records a prayer request as Open.
func ExecuteSubmitPrayer(ctx context.Context, input SubmitPrayerInput, deps PrayerDeps) (prayer.Request, error) {
	at := deps.now()
	r, err := deps.PrayerStore.Create(ctx, func(id string) (prayer.Request, error) {
		r := prayer.Request{
			ID:          id,
			Requester:   strings.TrimSpace(input.Requester),
			Request:     strings.TrimSpace(input.Request),
			Private:     input.Private,
			Status:      prayer.StatusOpen,
			SubmittedAt: at,
		}
		return r, r.Validate()
	})
	if err != nil {
		return prayer.Request{}, err
	}
	slog.Info("prayer_event", "event", "prayer_submitted", "request_id", r.ID, "private", r.Private)
	return r, nil
}

// ExecuteMarkPrayerAnswered closes a request with optional notes.
// PRE: request is Open
// POST: Status = Answered, AnsweredAt = now
func ExecuteMarkPrayerAnswered(ctx context.Context, id, notes string, deps PrayerDeps) (prayer.Request, error) {
	at := deps.now()
	r, err := deps.PrayerStore.Update(ctx, id, func(r *prayer.Request) error {
		return r.MarkAnswered(notes, at)
	})
	if err != nil {
		return prayer.Request{}, err
	}
	slog.Info("prayer_event", "event", "prayer_answered", "request_id", r.ID)
	return r, nil
}
