package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"churchdesk/internal/domain/feedback"
)

// FeedbackStore defines the feedback table operations.
type FeedbackStore interface {
	Create(ctx context.Context, build func(id string) (feedback.Feedback, error)) (feedback.Feedback, error)
	Update(ctx context.Context, id string, mutate func(*feedback.Feedback) error) (feedback.Feedback, error)
}

// FeedbackDeps holds dependencies for the feedback orchestrators.
type FeedbackDeps struct {
	FeedbackStore FeedbackStore
	Now           func() time.Time
}

// SubmitFeedbackInput carries input for the orchestrator.
type SubmitFeedbackInput struct {
	Category  string
	Message   string
	Rating    int
	Anonymous bool
	Name      string
}

// ExecuteSubmitFeedback stores feedback with Status = New.
// Anonymous submissions drop the name.
// PRE: message present, rating 1-5
func ExecuteSubmitFeedback(ctx context.Context, input SubmitFeedbackInput, deps FeedbackDeps) (feedback.Feedback, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	name := strings.TrimSpace(input.Name)
	if input.Anonymous {
		name = ""
	}
	category := input.Category
	if category == "" {
		category = "Other"
	}
	f, err := deps.FeedbackStore.Create(ctx, func(id string) (feedback.Feedback, error) {
		f := feedback.Feedback{
			ID:          id,
			Category:    category,
			Message:     strings.TrimSpace(input.Message),
			Rating:      input.Rating,
			Anonymous:   input.Anonymous,
			Name:        name,
			Status:      feedback.StatusNew,
			SubmittedAt: now(),
		}
		return f, f.Validate()
	})
	if err != nil {
		return feedback.Feedback{}, err
	}
	slog.Info("feedback_event", "event", "feedback_submitted", "feedback_id", f.ID, "category", f.Category, "rating", f.Rating)
	return f, nil
}

// ExecuteSetFeedbackStatus moves feedback through review.
func ExecuteSetFeedbackStatus(ctx context.Context, id, status string, deps FeedbackDeps) (feedback.Feedback, error) {
	if !feedback.IsValidStatus(status) {
		return feedback.Feedback{}, feedback.ErrInvalidStatus
	}
	f, err := deps.FeedbackStore.Update(ctx, id, func(f *feedback.Feedback) error {
		f.Status = status
		return nil
	})
	if err != nil {
		return feedback.Feedback{}, err
	}
	slog.Info("feedback_event", "event", "feedback_status_changed", "feedback_id", f.ID, "status", status)
	return f, nil
}
