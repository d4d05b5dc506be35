// Package export writes office reports: one XLSX workbook covering every module and
// CSV extracts of the member directory and the ledger.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"churchdesk/internal/application/projections"
	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/children"
	"churchdesk/internal/domain/equipment"
	"churchdesk/internal/domain/feedback"
	"churchdesk/internal/domain/finance"
	"churchdesk/internal/domain/group"
	"churchdesk/internal/domain/member"
	"churchdesk/internal/domain/partnership"
	"churchdesk/internal/domain/prayer"
	"churchdesk/internal/domain/program"
	"churchdesk/internal/domain/sms"
	"churchdesk/internal/domain/visitor"
	"churchdesk/internal/domain/welfare"
)

// SummarySheet is the first sheet of every workbook.
const SummarySheet = "Summary"

// Source names the tables to export. Nil listers are skipped.
type Source struct {
	Dashboard       *projections.Dashboard
	Members         projections.Lister[member.Member]
	Attendance      projections.Lister[attendance.Record]
	Transactions    projections.Lister[finance.Transaction]
	Children        projections.Lister[children.Child]
	ChildCheckIns   projections.Lister[children.CheckIn]
	Partners        projections.Lister[partnership.Partner]
	Contributions   projections.Lister[partnership.Contribution]
	Visitors        projections.Lister[visitor.Visitor]
	Programs        projections.Lister[program.Program]
	Equipment       projections.Lister[equipment.Item]
	Groups          projections.Lister[group.Group]
	Prayers         projections.Lister[prayer.Request]
	WelfareClaims   projections.Lister[welfare.Claim]
	WelfarePayments projections.Lister[welfare.Payment]
	Messages        projections.Lister[sms.Message]
	Feedback        projections.Lister[feedback.Feedback]
}

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

func collect[T any](ctx context.Context, l projections.Lister[T], name string, header []string, row func(T) []any) (*sheet, error) {
	if l == nil {
		return nil, nil
	}
	items, err := l.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", name, err)
	}
	s := &sheet{name: name, header: header, rows: make([][]any, 0, len(items))}
	for _, it := range items {
		s.rows = append(s.rows, row(it))
	}
	return s, nil
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func stampPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return stamp(*t)
}

// sheets builds every table in workbook order.
func sheets(ctx context.Context, src Source) ([]*sheet, error) {
	builders := []func() (*sheet, error){
		func() (*sheet, error) {
			return collect(ctx, src.Members, "Members",
				[]string{"ID", "Name", "Email", "Phone", "DOB", "Gender", "Department", "Status", "Marital Status", "Address", "Registered"},
				func(m member.Member) []any {
					return []any{m.ID, m.Name, m.Email, m.Phone, m.DOB, m.Gender, m.Department, m.Status, m.MaritalStatus, m.Address, m.RegistrationDate}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Attendance, "Attendance",
				[]string{"ID", "Member", "Service Date", "Service", "Status", "Method", "Checked In"},
				func(r attendance.Record) []any {
					return []any{r.ID, r.MemberID, r.ServiceDate, r.ServiceType, r.Status, r.CheckInMethod, stamp(r.CheckInTime)}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Transactions, "Finance",
				[]string{"ID", "Date", "Type", "Category", "Amount", "Member", "Method", "Description"},
				func(t finance.Transaction) []any {
					return []any{t.ID, t.Date, t.Type, t.Category, t.Amount.InexactFloat64(), t.MemberID, t.PaymentMethod, t.Description}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Children, "Children",
				[]string{"ID", "Name", "DOB", "Gender", "Parent", "Parent Phone", "Allergies"},
				func(c children.Child) []any {
					return []any{c.ID, c.Name, c.DOB, c.Gender, c.ParentName, c.ParentPhone, c.Allergies}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.ChildCheckIns, "Child Check-ins",
				[]string{"ID", "Child", "Service Date", "In", "Out", "Collected By"},
				func(c children.CheckIn) []any {
					return []any{c.ID, c.ChildID, c.ServiceDate, stamp(c.CheckInTime), stamp(c.CheckOutTime), c.CheckedOutBy}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Partners, "Partners",
				[]string{"ID", "Name", "Email", "Phone", "Since", "Tier", "Total", "Last Contribution"},
				func(p partnership.Partner) []any {
					return []any{p.ID, p.Name, p.Email, p.Phone, p.PartnershipDate, p.Tier, p.TotalContributions.InexactFloat64(), p.LastContributionDate}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Contributions, "Contributions",
				[]string{"ID", "Partner", "Date", "Amount", "Type", "Notes"},
				func(c partnership.Contribution) []any {
					return []any{c.ID, c.PartnerID, c.Date, c.Amount.InexactFloat64(), c.Type, c.Notes}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Visitors, "Visitors",
				[]string{"ID", "Name", "Phone", "Email", "Visit Date", "Invited By", "Status", "Follow-ups", "Member"},
				func(v visitor.Visitor) []any {
					return []any{v.ID, v.Name, v.Phone, v.Email, v.VisitDate, v.InvitedBy, v.Status, len(v.FollowUps), v.MemberID}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Programs, "Programs",
				[]string{"ID", "Name", "Date", "Venue", "Status", "Expected", "Budget"},
				func(p program.Program) []any {
					return []any{p.ID, p.Name, p.Date, p.Venue, p.Status, p.ExpectedAttendance, p.Budget.InexactFloat64()}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Equipment, "Equipment",
				[]string{"ID", "Name", "Category", "Quantity", "Condition", "Location", "Purchased", "Value"},
				func(i equipment.Item) []any {
					return []any{i.ID, i.Name, i.Category, i.Quantity, i.Condition, i.Location, i.PurchaseDate, i.Value.InexactFloat64()}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Groups, "Groups",
				[]string{"ID", "Name", "Leader", "Meeting Day", "Members"},
				func(g group.Group) []any {
					return []any{g.ID, g.Name, g.Leader, g.MeetingDay, strings.Join(g.MemberIDs, ", ")}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Prayers, "Prayer",
				[]string{"ID", "Requester", "Request", "Private", "Status", "Submitted", "Answered"},
				func(r prayer.Request) []any {
					requester := r.Requester
					if requester == "" {
						requester = "Anonymous"
					}
					return []any{r.ID, requester, r.Request, r.Private, r.Status, stamp(r.SubmittedAt), stampPtr(r.AnsweredAt)}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.WelfareClaims, "Welfare Claims",
				[]string{"ID", "Member", "Type", "Reason", "Requested", "Status", "Submitted", "Decided"},
				func(c welfare.Claim) []any {
					return []any{c.ID, c.MemberID, c.Type, c.Reason, c.AmountRequested.InexactFloat64(), c.Status, stamp(c.SubmittedAt), stampPtr(c.DecidedAt)}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.WelfarePayments, "Welfare Payments",
				[]string{"ID", "Claim", "Member", "Amount", "Paid", "Method"},
				func(p welfare.Payment) []any {
					return []any{p.ID, p.ClaimID, p.MemberID, p.Amount.InexactFloat64(), stamp(p.PaidAt), p.Method}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Messages, "SMS Log",
				[]string{"ID", "Channel", "Recipients", "Subject", "Segments", "Cost", "Status", "Sent"},
				func(m sms.Message) []any {
					return []any{m.ID, m.Channel, len(m.Recipients), m.Subject, m.Segments, m.Cost, m.Status, stamp(m.SentAt)}
				})
		},
		func() (*sheet, error) {
			return collect(ctx, src.Feedback, "Feedback",
				[]string{"ID", "Category", "Rating", "Status", "Name", "Message", "Submitted"},
				func(f feedback.Feedback) []any {
					name := f.Name
					if f.Anonymous {
						name = "Anonymous"
					}
					return []any{f.ID, f.Category, f.Rating, f.Status, name, f.Message, stamp(f.SubmittedAt)}
				})
		},
	}

	var out []*sheet
	for _, build := range builders {
		s, err := build()
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func summaryRows(d *projections.Dashboard) [][]any {
	if d == nil {
		return nil
	}
	return [][]any{
		{"Report date", d.Date},
		{"Total members", d.TotalMembers},
		{"Active members", d.ActiveMembers},
		{"Last service", d.LastService},
		{"Present at last service", d.LastServicePresent},
		{"Balance", d.Balance.InexactFloat64()},
		{"Partners", d.Partners},
		{"Partner contributions", d.PartnerTotal.InexactFloat64()},
		{"Children checked in", d.ChildrenCheckedIn},
		{"Visitors awaiting follow-up", d.VisitorsPending},
		{"Open prayer requests", d.OpenPrayers},
		{"Pending welfare claims", d.PendingWelfare},
		{"SMS credits", d.SMSCredits},
		{"Upcoming programs", d.UpcomingPrograms},
		{"Equipment needing attention", d.EquipmentAttention},
	}
}

// WriteWorkbook renders every table in src to an XLSX workbook on w.
// PRE: src has at least one non-nil field
// POST: Workbook has a Summary sheet followed by one sheet per table, headers in bold
func WriteWorkbook(ctx context.Context, w io.Writer, src Source) error {
	tables, err := sheets(ctx, src)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeRows(f, SummarySheet, []string{"Metric", "Value"}, summaryRows(src.Dashboard), bold); err != nil {
		return err
	}

	for _, t := range tables {
		if _, err := f.NewSheet(t.name); err != nil {
			return fmt.Errorf("add sheet %s: %w", t.name, err)
		}
		if err := writeRows(f, t.name, t.header, t.rows, bold); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, name string, header []string, rows [][]any, headerStyle int) error {
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &head); err != nil {
		return fmt.Errorf("%s header: %w", name, err)
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", name, i+1, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(name, "A", last, 18)
}
