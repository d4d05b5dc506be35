package projections

import (
	"cmp"
	"context"
	"slices"
	"time"

	"churchdesk/internal/domain/children"
	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/equipment"
	"churchdesk/internal/domain/group"
	"churchdesk/internal/domain/prayer"
	"churchdesk/internal/domain/program"
	"churchdesk/internal/domain/visitor"
)

// QueryPendingVisitors lists visitors nobody has contacted yet, oldest visit first.
func QueryPendingVisitors(ctx context.Context, store Lister[visitor.Visitor]) ([]visitor.Visitor, error) {
	all, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []visitor.Visitor{}
	for _, v := range all {
		if v.AwaitingFollowUp() {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, func(a, b visitor.Visitor) int { return cmp.Compare(a.VisitDate, b.VisitDate) })
	return out, nil
}

// QueryUpcomingPrograms lists programs on or after today that are still on, soonest first.
func QueryUpcomingPrograms(ctx context.Context, now time.Time, store Lister[program.Program]) ([]program.Program, error) {
	all, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	today := dateutil.Format(now)
	out := []program.Program{}
	for _, p := range all {
		if p.IsUpcoming(today) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b program.Program) int { return cmp.Compare(a.Date, b.Date) })
	return out, nil
}

// CategoryQuantity is the number of units held in one equipment category.
type CategoryQuantity struct {
	Category string
	Items    int
	Quantity int
}

// EquipmentStatus is the inventory overview.
type EquipmentStatus struct {
	NeedsAttention []equipment.Item
	ByCategory     []CategoryQuantity
}

// QueryEquipmentStatus returns items in Poor or Needs Repair condition and per-category totals.
func QueryEquipmentStatus(ctx context.Context, store Lister[equipment.Item]) (EquipmentStatus, error) {
	items, err := store.List(ctx)
	if err != nil {
		return EquipmentStatus{}, err
	}
	s := EquipmentStatus{NeedsAttention: []equipment.Item{}, ByCategory: []CategoryQuantity{}}
	idx := make(map[string]int)
	for _, it := range items {
		if it.NeedsAttention() {
			s.NeedsAttention = append(s.NeedsAttention, it)
		}
		i, ok := idx[it.Category]
		if !ok {
			i = len(s.ByCategory)
			idx[it.Category] = i
			s.ByCategory = append(s.ByCategory, CategoryQuantity{Category: it.Category})
		}
		s.ByCategory[i].Items++
		s.ByCategory[i].Quantity += it.Quantity
	}
	slices.SortStableFunc(s.ByCategory, func(a, b CategoryQuantity) int { return cmp.Compare(a.Category, b.Category) })
	return s, nil
}

// GroupSize pairs a group with its headcount.
type GroupSize struct {
	Group group.Group
	Size  int
}

// QueryGroupSizes lists groups largest first.
func QueryGroupSizes(ctx context.Context, store Lister[group.Group]) ([]GroupSize, error) {
	groups, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GroupSize, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupSize{Group: g, Size: g.Size()})
	}
	slices.SortStableFunc(out, func(a, b GroupSize) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Group.Name, b.Group.Name)
	})
	return out, nil
}

// QueryOpenPrayers lists unanswered requests, newest first. Private requests are left out
// unless includePrivate is set.
func QueryOpenPrayers(ctx context.Context, includePrivate bool, store Lister[prayer.Request]) ([]prayer.Request, error) {
	all, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []prayer.Request{}
	for _, r := range all {
		if r.Status != prayer.StatusOpen || (r.Private && !includePrivate) {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b prayer.Request) int { return b.SubmittedAt.Compare(a.SubmittedAt) })
	return out, nil
}

// ChildOnSite is an open or closed check-in with the child's details.
type ChildOnSite struct {
	CheckIn    children.CheckIn
	Child      children.Child
	ClassGroup string
}

// ChildrenToday is today's children's ministry log.
type ChildrenToday struct {
	Date       string
	Log        []ChildOnSite
	CheckedIn  int // still on site
	ByGroup    []Share
	Registered int
}

// ChildrenDeps holds dependencies for QueryChildrenToday.
type ChildrenDeps struct {
	ChildStore   Lister[children.Child]
	CheckInStore Lister[children.CheckIn]
}

// QueryChildrenToday returns today's check-in log with class groups derived from each child's
// current age, and the class-group split of the whole register.
func QueryChildrenToday(ctx context.Context, now time.Time, deps ChildrenDeps) (ChildrenToday, error) {
	kids, err := deps.ChildStore.List(ctx)
	if err != nil {
		return ChildrenToday{}, err
	}
	checkIns, err := deps.CheckInStore.List(ctx)
	if err != nil {
		return ChildrenToday{}, err
	}
	byID := make(map[string]children.Child, len(kids))
	groupCounts := make(map[string]int)
	for _, c := range kids {
		byID[c.ID] = c
		groupCounts[c.ClassGroup(now)]++
	}

	today := dateutil.Format(now)
	out := ChildrenToday{Date: today, Log: []ChildOnSite{}, ByGroup: []Share{}, Registered: len(kids)}
	for _, ci := range checkIns {
		if ci.ServiceDate != today {
			continue
		}
		c := byID[ci.ChildID]
		out.Log = append(out.Log, ChildOnSite{CheckIn: ci, Child: c, ClassGroup: c.ClassGroup(now)})
		if ci.IsOpen() {
			out.CheckedIn++
		}
	}
	for _, g := range children.ClassGroups {
		if groupCounts[g] > 0 {
			out.ByGroup = append(out.ByGroup, Share{Label: g, Count: groupCounts[g], Percent: percent(float64(groupCounts[g]), float64(len(kids)))})
		}
	}
	return out, nil
}
