package projections

import (
	"cmp"
	"context"
	"slices"
	"time"

	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/member"
)

// Birthday is an upcoming birthday.
type Birthday struct {
	Member    member.Member
	Date      time.Time
	DaysUntil int
	Turning   int
}

// BirthdaysInput carries input for the query.
type BirthdaysInput struct {
	Now        time.Time
	WithinDays int // 0 means today only
}

// BirthdaysDeps holds dependencies for QueryBirthdays.
type BirthdaysDeps struct {
	MemberStore Lister[member.Member]
}

// QueryBirthdays lists members whose next birthday falls within the window, soonest first.
// Members with an unparseable DOB are skipped.
func QueryBirthdays(ctx context.Context, input BirthdaysInput, deps BirthdaysDeps) ([]Birthday, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []Birthday{}
	for _, m := range members {
		next, err := dateutil.NextBirthday(m.DOB, input.Now)
		if err != nil {
			continue
		}
		days := dateutil.DaysBetween(input.Now, next)
		if days > input.WithinDays {
			continue
		}
		born, _ := dateutil.Parse(m.DOB)
		out = append(out, Birthday{
			Member:    m,
			Date:      next,
			DaysUntil: days,
			Turning:   next.Year() - born.Year(),
		})
	}
	slices.SortStableFunc(out, func(a, b Birthday) int {
		if c := cmp.Compare(a.DaysUntil, b.DaysUntil); c != 0 {
			return c
		}
		return cmp.Compare(a.Member.Name, b.Member.Name)
	})
	return out, nil
}
