package projections

import (
	"context"
	"math"

	"churchdesk/internal/domain/feedback"
)

// FeedbackSummary aggregates submitted feedback.
type FeedbackSummary struct {
	Total         int
	AverageRating float64 // one decimal place, 0 when empty
	RatingCounts  [feedback.MaxRating + 1]int // index = rating
	ByCategory    []Share
	Unresolved    int
}

// FeedbackDeps holds dependencies for QueryFeedbackSummary.
type FeedbackDeps struct {
	FeedbackStore Lister[feedback.Feedback]
}

// QueryFeedbackSummary returns the average rating, rating histogram and category shares.
func QueryFeedbackSummary(ctx context.Context, deps FeedbackDeps) (FeedbackSummary, error) {
	items, err := deps.FeedbackStore.List(ctx)
	if err != nil {
		return FeedbackSummary{}, err
	}
	s := FeedbackSummary{Total: len(items), ByCategory: []Share{}}
	if len(items) == 0 {
		return s, nil
	}
	sum := 0
	counts := make(map[string]int)
	var seen []string
	for _, f := range items {
		sum += f.Rating
		if f.Rating >= feedback.MinRating && f.Rating <= feedback.MaxRating {
			s.RatingCounts[f.Rating]++
		}
		if f.Status != feedback.StatusResolved {
			s.Unresolved++
		}
		if counts[f.Category] == 0 {
			seen = append(seen, f.Category)
		}
		counts[f.Category]++
	}
	s.AverageRating = math.Round(float64(sum)/float64(len(items))*10) / 10
	for _, c := range orderedCategories(seen) {
		s.ByCategory = append(s.ByCategory, Share{Label: c, Count: counts[c], Percent: percent(float64(counts[c]), float64(len(items)))})
	}
	return s, nil
}

// orderedCategories puts the form's categories first, in form order.
func orderedCategories(seen []string) []string {
	out := make([]string, 0, len(seen))
	in := make(map[string]bool, len(seen))
	for _, c := range seen {
		in[c] = true
	}
	for _, c := range feedback.Categories {
		if in[c] {
			out = append(out, c)
			delete(in, c)
		}
	}
	for _, c := range seen {
		if in[c] {
			out = append(out, c)
		}
	}
	return out
}
