package projections

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/member"
)

// DefaultAbsenceWeeks is the threshold used when none is given.
const DefaultAbsenceWeeks = 3

// AbsentMember is a member flagged for repeated Sunday absence.
type AbsentMember struct {
	MemberID   string
	Name       string
	Absences   int
	LastAbsent string
}

// AbsenceAlert is the result of the absence check.
type AbsenceAlert struct {
	ThresholdWeeks int
	Since          string
	Flagged        []AbsentMember
	Message        string
}

// AbsenceAlertInput carries input for the query.
type AbsenceAlertInput struct {
	Now            time.Time
	ThresholdWeeks int // <= 0 uses DefaultAbsenceWeeks
}

// AbsenceAlertDeps holds dependencies for QueryAbsenceAlert.
type AbsenceAlertDeps struct {
	AttendanceStore Lister[attendance.Record]
	MemberStore     interface {
		GetByID(ctx context.Context, id string) (member.Member, error)
	}
}

// QueryAbsenceAlert flags members with at least ThresholdWeeks Absent records on Sundays within
// the last ThresholdWeeks weeks. Members with no records are never flagged.
// POST: Flagged sorted by absences descending, then name
func QueryAbsenceAlert(ctx context.Context, input AbsenceAlertInput, deps AbsenceAlertDeps) (AbsenceAlert, error) {
	weeks := input.ThresholdWeeks
	if weeks <= 0 {
		weeks = DefaultAbsenceWeeks
	}
	records, err := deps.AttendanceStore.List(ctx)
	if err != nil {
		return AbsenceAlert{}, err
	}
	since := dateutil.Format(input.Now.AddDate(0, 0, -7*weeks))
	today := dateutil.Format(input.Now)

	byMember := make(map[string]*AbsentMember)
	var order []string
	for _, r := range records {
		if r.Status != attendance.StatusAbsent || r.ServiceDate < since || r.ServiceDate > today || !r.IsSunday() {
			continue
		}
		a, ok := byMember[r.MemberID]
		if !ok {
			a = &AbsentMember{MemberID: r.MemberID}
			byMember[r.MemberID] = a
			order = append(order, r.MemberID)
		}
		a.Absences++
		if r.ServiceDate > a.LastAbsent {
			a.LastAbsent = r.ServiceDate
		}
	}

	alert := AbsenceAlert{ThresholdWeeks: weeks, Since: since, Flagged: []AbsentMember{}}
	for _, id := range order {
		a := byMember[id]
		if a.Absences < weeks {
			continue
		}
		a.Name = id
		if deps.MemberStore != nil {
			m, err := deps.MemberStore.GetByID(ctx, id)
			switch {
			case err == nil:
				a.Name = m.Name
			case !errors.Is(err, memory.ErrNotFound):
				return AbsenceAlert{}, err
			}
		}
		alert.Flagged = append(alert.Flagged, *a)
	}
	slices.SortStableFunc(alert.Flagged, func(x, y AbsentMember) int {
		if c := cmp.Compare(y.Absences, x.Absences); c != 0 {
			return c
		}
		return cmp.Compare(x.Name, y.Name)
	})

	if len(alert.Flagged) == 0 {
		alert.Message = fmt.Sprintf("No members missed %d or more Sundays in the last %d weeks.", weeks, weeks)
	} else {
		alert.Message = fmt.Sprintf("%d member(s) missed %d or more Sundays in the last %d weeks.", len(alert.Flagged), weeks, weeks)
	}
	return alert, nil
}
