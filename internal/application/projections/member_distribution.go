package projections

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"churchdesk/internal/domain/member"
)

// Share is one slice of a distribution.
type Share struct {
	Label   string
	Count   int
	Percent float64 // rounded to one decimal place
}

// String renders the percentage the way reports print it ("66.7%").
func (s Share) String() string {
	return fmt.Sprintf("%.1f%%", s.Percent)
}

// MemberDistributionDeps holds dependencies for the distribution queries.
type MemberDistributionDeps struct {
	MemberStore Lister[member.Member]
}

// QueryGenderDistribution returns the share of members per gender, Male first.
// POST: empty when there are no members; percents sum to ~100 otherwise
func QueryGenderDistribution(ctx context.Context, deps MemberDistributionDeps) ([]Share, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return nil, err
	}
	return distribute(members, func(m member.Member) string { return m.Gender },
		[]string{member.GenderMale, member.GenderFemale}), nil
}

// QueryAgeDistribution returns the share of members per age band, with ages taken from DOB as of now.
// INVARIANT: a member whose DOB changes moves band on the next call
func QueryAgeDistribution(ctx context.Context, now time.Time, deps MemberDistributionDeps) ([]Share, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return nil, err
	}
	return distribute(members, func(m member.Member) string { return member.AgeBand(m.Age(now)) }, member.AgeBands), nil
}

// QueryDepartmentDistribution returns the share of members per department, largest first.
func QueryDepartmentDistribution(ctx context.Context, deps MemberDistributionDeps) ([]Share, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return nil, err
	}
	shares := distribute(members, func(m member.Member) string {
		if m.Department == "" {
			return "Unassigned"
		}
		return m.Department
	}, nil)
	slices.SortStableFunc(shares, func(a, b Share) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return shares, nil
}

// distribute counts members per label. Labels listed in order come first in that order;
// any other label follows in first-seen order. Zero-count labels are omitted.
func distribute(members []member.Member, label func(member.Member) string, order []string) []Share {
	if len(members) == 0 {
		return []Share{}
	}
	counts := make(map[string]int)
	var seen []string
	for _, m := range members {
		l := label(m)
		if counts[l] == 0 {
			seen = append(seen, l)
		}
		counts[l]++
	}

	labels := make([]string, 0, len(seen))
	for _, l := range order {
		if counts[l] > 0 {
			labels = append(labels, l)
		}
	}
	for _, l := range seen {
		if !slices.Contains(order, l) {
			labels = append(labels, l)
		}
	}

	total := float64(len(members))
	out := make([]Share, 0, len(labels))
	for _, l := range labels {
		out = append(out, Share{
			Label:   l,
			Count:   counts[l],
			Percent: percent(float64(counts[l]), total),
		})
	}
	return out
}

// percent returns part/whole*100 rounded to one decimal, or 0 when whole is 0.
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(part/whole*1000) / 10
}
