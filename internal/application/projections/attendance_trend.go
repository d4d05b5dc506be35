package projections

import (
	"context"
	"time"

	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/dateutil"
)

// DefaultTrendMonths is the window used when none is given.
const DefaultTrendMonths = 6

// MonthCount is the number of attendance records in one calendar month.
type MonthCount struct {
	Month string // YYYY-MM
	Count int
}

// AttendanceTrendInput carries input for the query.
type AttendanceTrendInput struct {
	Now        time.Time
	MonthsBack int // <= 0 uses DefaultTrendMonths
}

// AttendanceTrendDeps holds dependencies for QueryAttendanceTrend.
type AttendanceTrendDeps struct {
	AttendanceStore Lister[attendance.Record]
}

// QueryAttendanceTrend counts records per calendar month over the trailing window ending in the
// current month. Every month of the window is present, oldest first, so quiet months show as zero.
// Records of every status are counted.
func QueryAttendanceTrend(ctx context.Context, input AttendanceTrendInput, deps AttendanceTrendDeps) ([]MonthCount, error) {
	records, err := deps.AttendanceStore.List(ctx)
	if err != nil {
		return nil, err
	}
	n := input.MonthsBack
	if n <= 0 {
		n = DefaultTrendMonths
	}

	first := time.Date(input.Now.Year(), input.Now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	out := make([]MonthCount, n)
	pos := make(map[string]int, n)
	for i := range out {
		m := first.AddDate(0, i, 0).Format(dateutil.MonthLayout)
		out[i] = MonthCount{Month: m}
		pos[m] = i
	}

	today := dateutil.Format(input.Now)
	for _, r := range records {
		if r.ServiceDate > today || len(r.ServiceDate) < len(dateutil.MonthLayout) {
			continue
		}
		if i, ok := pos[r.ServiceDate[:len(dateutil.MonthLayout)]]; ok {
			out[i].Count++
		}
	}
	return out, nil
}
