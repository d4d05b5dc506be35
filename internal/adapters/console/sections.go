package console

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"churchdesk/internal/adapters/export"
	"churchdesk/internal/application/projections"
	"churchdesk/internal/domain/finance"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func shares(in []projections.Share) [][]string {
	rows := make([][]string, 0, len(in))
	for _, s := range in {
		rows = append(rows, []string{s.Label, strconv.Itoa(s.Count), s.String()})
	}
	return rows
}

func (c *Console) members(ctx context.Context) error {
	all, err := c.app.Members.List(ctx)
	if err != nil {
		return err
	}
	deps := c.app.Distribution()
	gender, err := projections.QueryGenderDistribution(ctx, deps)
	if err != nil {
		return err
	}
	age, err := projections.QueryAgeDistribution(ctx, c.app.Clock(), deps)
	if err != nil {
		return err
	}
	dept, err := projections.QueryDepartmentDistribution(ctx, deps)
	if err != nil {
		return err
	}
	birthdays, err := projections.QueryBirthdays(ctx, projections.BirthdaysInput{Now: c.app.Clock(), WithinDays: 30}, c.app.Birthdays())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(all))
	for _, m := range all {
		rows = append(rows, []string{m.ID, m.Name, m.Phone, m.Gender, m.Department, m.Status})
	}
	c.table([]string{"ID", "Name", "Phone", "Gender", "Department", "Status"}, rows, "No members registered.")
	c.heading("Gender")
	c.table([]string{"Gender", "Count", "Share"}, shares(gender), "No data.")
	c.heading("Age")
	c.table([]string{"Band", "Count", "Share"}, shares(age), "No data.")
	c.heading("Department")
	c.table([]string{"Department", "Count", "Share"}, shares(dept), "No data.")

	c.heading("Birthdays in the next 30 days")
	rows = rows[:0]
	for _, b := range birthdays {
		rows = append(rows, []string{b.Member.Name, b.Date.Format("02 Jan"), strconv.Itoa(b.Turning), strconv.Itoa(b.DaysUntil)})
	}
	c.table([]string{"Name", "Date", "Turning", "Days"}, rows, "None.")
	return nil
}

func (c *Console) attendance(ctx context.Context) error {
	now := c.app.Clock()
	svc, err := projections.QueryServiceAttendance(ctx, "", now, c.app.ServiceAttendance())
	if err != nil {
		return err
	}
	trend, err := projections.QueryAttendanceTrend(ctx, projections.AttendanceTrendInput{Now: now}, c.app.Trend())
	if err != nil {
		return err
	}
	alert, err := projections.QueryAbsenceAlert(ctx, projections.AbsenceAlertInput{Now: now}, c.app.Absence())
	if err != nil {
		return err
	}

	if svc.Date == "" {
		c.note("No services recorded yet.")
	} else {
		c.stats("Service", svc.Date, "Present", strconv.Itoa(svc.Present), "Absent", strconv.Itoa(svc.Absent),
			"Excused", strconv.Itoa(svc.Excused), "Via QR", strconv.Itoa(svc.ViaQR))
	}
	c.heading("Monthly trend")
	rows := make([][]string, 0, len(trend))
	for _, m := range trend {
		rows = append(rows, []string{m.Month, strconv.Itoa(m.Count)})
	}
	c.table([]string{"Month", "Records"}, rows, "No data.")

	c.heading("Absence alert")
	c.note(alert.Message)
	rows = rows[:0]
	for _, f := range alert.Flagged {
		rows = append(rows, []string{f.MemberID, f.Name, strconv.Itoa(f.Absences), f.LastAbsent})
	}
	c.table([]string{"ID", "Member", "Absences", "Last absent"}, rows, "")
	return nil
}

func (c *Console) finance(ctx context.Context) error {
	r, err := projections.QueryFinanceReport(ctx, c.app.Clock(), c.app.Finance())
	if err != nil {
		return err
	}
	c.stats("Balance", finance.FormatAmount(r.Balance), "Income", finance.FormatAmount(r.TotalIncome), "Expenses", finance.FormatAmount(r.TotalExpense))

	breakdown := func(title string, in []projections.CategoryTotal) {
		c.heading(title)
		rows := make([][]string, 0, len(in))
		for _, ct := range in {
			rows = append(rows, []string{ct.Category, strconv.Itoa(ct.Count), money(ct.Total)})
		}
		c.table([]string{"Category", "Count", "Total"}, rows, "None.")
	}
	breakdown("Income by category", r.IncomeBreakdown)
	breakdown("Expenses by category", r.ExpenseBreakdown)

	c.heading("Monthly")
	rows := make([][]string, 0, len(r.Monthly))
	for _, m := range r.Monthly {
		rows = append(rows, []string{m.Month, money(m.Income), money(m.Expense), money(m.Net)})
	}
	c.table([]string{"Month", "Income", "Expense", "Net"}, rows, "No data.")

	c.heading("Top tithers")
	rows = rows[:0]
	for _, t := range r.TopTithers {
		rows = append(rows, []string{t.Name, strconv.Itoa(t.Count), money(t.Sum), money(t.Mean), t.LastDate})
	}
	c.table([]string{"Member", "Count", "Total", "Average", "Last"}, rows, "No tithes recorded.")
	return nil
}

func (c *Console) children(ctx context.Context) error {
	today, err := projections.QueryChildrenToday(ctx, c.app.Clock(), c.app.ChildrenReport())
	if err != nil {
		return err
	}
	c.stats("Registered", strconv.Itoa(today.Registered), "On site "+today.Date, strconv.Itoa(today.CheckedIn))
	c.heading("Class groups")
	c.table([]string{"Group", "Children", "Share"}, shares(today.ByGroup), "No children registered.")
	c.heading("Today's log")
	rows := make([][]string, 0, len(today.Log))
	for _, e := range today.Log {
		out := "on site"
		if !e.CheckIn.CheckOutTime.IsZero() {
			out = e.CheckIn.CheckOutTime.Format("15:04")
		}
		rows = append(rows, []string{e.Child.Name, e.ClassGroup, e.CheckIn.CheckInTime.Format("15:04"), out})
	}
	c.table([]string{"Child", "Group", "In", "Out"}, rows, "No check-ins today.")
	return nil
}

func (c *Console) visitors(ctx context.Context) error {
	all, err := c.app.Visitors.List(ctx)
	if err != nil {
		return err
	}
	pending, err := projections.QueryPendingVisitors(ctx, c.app.Visitors)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(all))
	for _, v := range all {
		rows = append(rows, []string{v.ID, v.Name, v.Phone, v.VisitDate, v.Status, strconv.Itoa(len(v.FollowUps))})
	}
	c.stats("Visitors", strconv.Itoa(len(all)), "Awaiting follow-up", strconv.Itoa(len(pending)))
	c.table([]string{"ID", "Name", "Phone", "Visited", "Status", "Contacts"}, rows, "No visitors recorded.")
	return nil
}

func (c *Console) programs(ctx context.Context) error {
	upcoming, err := projections.QueryUpcomingPrograms(ctx, c.app.Clock(), c.app.Programs)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(upcoming))
	for _, p := range upcoming {
		rows = append(rows, []string{p.Date, p.Name, p.Venue, p.Status, strconv.Itoa(p.ExpectedAttendance), money(p.Budget)})
	}
	c.heading("Upcoming")
	c.table([]string{"Date", "Program", "Venue", "Status", "Expected", "Budget"}, rows, "Nothing planned.")
	return nil
}

func (c *Console) equipment(ctx context.Context) error {
	st, err := projections.QueryEquipmentStatus(ctx, c.app.Equipment)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(st.ByCategory))
	for _, cq := range st.ByCategory {
		rows = append(rows, []string{cq.Category, strconv.Itoa(cq.Items), strconv.Itoa(cq.Quantity)})
	}
	c.table([]string{"Category", "Items", "Quantity"}, rows, "No equipment recorded.")
	c.heading("Needs attention")
	rows = rows[:0]
	for _, it := range st.NeedsAttention {
		rows = append(rows, []string{it.ID, it.Name, it.Condition, it.Location})
	}
	c.table([]string{"ID", "Item", "Condition", "Location"}, rows, "All equipment is in working order.")
	return nil
}

func (c *Console) groups(ctx context.Context) error {
	sizes, err := projections.QueryGroupSizes(ctx, c.app.Groups)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(sizes))
	for _, g := range sizes {
		rows = append(rows, []string{g.Group.ID, g.Group.Name, g.Group.Leader, g.Group.MeetingDay, strconv.Itoa(g.Size)})
	}
	c.table([]string{"ID", "Group", "Leader", "Meets", "Members"}, rows, "No groups yet.")
	return nil
}

func (c *Console) welfare(ctx context.Context) error {
	r, err := projections.QueryWelfareReport(ctx, c.app.WelfareReport())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(r.ByStatus))
	for _, s := range r.ByStatus {
		rows = append(rows, []string{s.Status, strconv.Itoa(s.Count), money(s.Amount)})
	}
	c.table([]string{"Status", "Claims", "Requested"}, rows, "No claims.")
	c.stats("Paid out", finance.FormatAmount(r.TotalPaid), "Payments", strconv.Itoa(r.Payments))
	return nil
}

func (c *Console) partnerships(ctx context.Context) error {
	s, err := projections.QueryPartnershipSummary(ctx, c.app.Clock(), c.app.Partnership())
	if err != nil {
		return err
	}
	c.stats("Partners", strconv.Itoa(s.TotalPartners),
		"Total contributions", finance.FormatAmount(s.TotalContributions),
		"Since "+s.RecentSince, fmt.Sprintf("%d gifts, %s", s.RecentCount, finance.FormatAmount(s.RecentAmount)))
	rows := make([][]string, 0, len(s.TierCounts))
	for _, t := range s.TierCounts {
		rows = append(rows, []string{t.Tier, strconv.Itoa(t.Count)})
	}
	c.heading("Tiers")
	c.table([]string{"Tier", "Partners"}, rows, "No partners yet.")
	return nil
}

func (c *Console) sms(ctx context.Context) error {
	credits, err := c.app.Credits.Balance(ctx)
	if err != nil {
		return err
	}
	msgs, err := c.app.Messages.List(ctx)
	if err != nil {
		return err
	}
	slices.Reverse(msgs)
	c.stats("Credits remaining", strconv.Itoa(credits), "Messages sent", strconv.Itoa(len(msgs)))
	rows := make([][]string, 0, len(msgs))
	for _, m := range msgs {
		rows = append(rows, []string{m.ID, m.SentAt.Format("2006-01-02 15:04"), m.Channel, strconv.Itoa(len(m.Recipients)), strconv.Itoa(m.Segments), m.Status})
	}
	c.table([]string{"ID", "Sent", "Channel", "Recipients", "Segments", "Status"}, rows, "No messages sent.")
	return nil
}

func (c *Console) prayer(ctx context.Context) error {
	open, err := projections.QueryOpenPrayers(ctx, true, c.app.Prayers)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(open))
	for _, p := range open {
		who := p.Requester
		if who == "" {
			who = "Anonymous"
		}
		visibility := "public"
		if p.Private {
			visibility = "private"
		}
		rows = append(rows, []string{p.ID, p.SubmittedAt.Format("2006-01-02"), who, visibility, p.Request})
	}
	c.table([]string{"ID", "Submitted", "From", "Visibility", "Request"}, rows, "No open requests.")
	return nil
}

func (c *Console) feedback(ctx context.Context) error {
	s, err := projections.QueryFeedbackSummary(ctx, c.app.FeedbackReport())
	if err != nil {
		return err
	}
	c.stats("Responses", strconv.Itoa(s.Total), "Average rating", fmt.Sprintf("%.1f", s.AverageRating), "Unresolved", strconv.Itoa(s.Unresolved))
	rows := make([][]string, 0, len(s.RatingCounts))
	for rating := len(s.RatingCounts) - 1; rating >= 1; rating-- {
		rows = append(rows, []string{strconv.Itoa(rating), strconv.Itoa(s.RatingCounts[rating])})
	}
	c.heading("Ratings")
	c.table([]string{"Rating", "Count"}, rows, "")
	c.heading("Categories")
	c.table([]string{"Category", "Count", "Share"}, shares(s.ByCategory), "No feedback yet.")
	return nil
}

func (c *Console) dashboard(ctx context.Context) error {
	d, err := projections.QueryDashboard(ctx, c.app.Clock(), c.app.Dashboard())
	if err != nil {
		return err
	}
	last := "none"
	if d.LastService != "" {
		last = fmt.Sprintf("%d present on %s", d.LastServicePresent, d.LastService)
	}
	c.stats(
		"Date", d.Date,
		"Members", fmt.Sprintf("%d (%d active)", d.TotalMembers, d.ActiveMembers),
		"Last service", last,
		"Balance", finance.FormatAmount(d.Balance),
		"Partners", fmt.Sprintf("%d, %s", d.Partners, finance.FormatAmount(d.PartnerTotal)),
		"Children on site", strconv.Itoa(d.ChildrenCheckedIn),
		"Visitors to follow up", strconv.Itoa(d.VisitorsPending),
		"Open prayers", strconv.Itoa(d.OpenPrayers),
		"Pending welfare", strconv.Itoa(d.PendingWelfare),
		"SMS credits", strconv.Itoa(d.SMSCredits),
		"Upcoming programs", strconv.Itoa(d.UpcomingPrograms),
		"Equipment needing attention", strconv.Itoa(d.EquipmentAttention),
	)
	return nil
}

// export writes the workbook and the two CSV files into the export directory.
func (c *Console) export(ctx context.Context) error {
	if err := os.MkdirAll(c.exportDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	stamp := c.app.Clock().Format("2006-01-02")
	src, err := c.app.ExportSource(ctx)
	if err != nil {
		return err
	}

	files := []struct {
		name  string
		write func(*os.File) error
	}{
		{"church_report_" + stamp + ".xlsx", func(f *os.File) error { return export.WriteWorkbook(ctx, f, src) }},
		{"members_" + stamp + ".csv", func(f *os.File) error { return export.WriteMembersCSV(ctx, f, c.app.Members) }},
		{"transactions_" + stamp + ".csv", func(f *os.File) error { return export.WriteTransactionsCSV(ctx, f, c.app.Transactions) }},
	}
	for _, spec := range files {
		path := filepath.Join(c.exportDir, spec.name)
		if err := writeFile(path, spec.write); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Wrote "+path)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
