package projections

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/children"
	"churchdesk/internal/domain/equipment"
	"churchdesk/internal/domain/finance"
	"churchdesk/internal/domain/member"
	"churchdesk/internal/domain/partnership"
	"churchdesk/internal/domain/prayer"
	"churchdesk/internal/domain/program"
	"churchdesk/internal/domain/visitor"
	"churchdesk/internal/domain/welfare"
)

// Dashboard is the cross-module summary on the home page.
type Dashboard struct {
	Date               string          `json:"date"`
	TotalMembers       int             `json:"total_members"`
	ActiveMembers      int             `json:"active_members"`
	LastService        string          `json:"last_service"`
	LastServicePresent int             `json:"last_service_present"`
	Balance            decimal.Decimal `json:"balance"`
	Partners           int             `json:"partners"`
	PartnerTotal       decimal.Decimal `json:"partner_total"`
	ChildrenCheckedIn  int             `json:"children_checked_in"`
	VisitorsPending    int             `json:"visitors_pending"`
	OpenPrayers        int             `json:"open_prayers"`
	PendingWelfare     int             `json:"pending_welfare"`
	SMSCredits         int             `json:"sms_credits"`
	UpcomingPrograms   int             `json:"upcoming_programs"`
	NextProgram        string          `json:"next_program,omitempty"`
	EquipmentAttention int             `json:"equipment_attention"`
}

// DashboardDeps holds every store the dashboard reads. It is the only projection that spans modules.
type DashboardDeps struct {
	MemberStore       Lister[member.Member]
	AttendanceStore   Lister[attendance.Record]
	TransactionStore  Lister[finance.Transaction]
	PartnerStore      Lister[partnership.Partner]
	ChildCheckInStore Lister[children.CheckIn]
	VisitorStore      Lister[visitor.Visitor]
	PrayerStore       Lister[prayer.Request]
	ClaimStore        Lister[welfare.Claim]
	ProgramStore      Lister[program.Program]
	EquipmentStore    Lister[equipment.Item]
	Credits           CreditBalance
}

// QueryDashboard reads each store once and summarizes it.
func QueryDashboard(ctx context.Context, now time.Time, deps DashboardDeps) (Dashboard, error) {
	d := Dashboard{Date: now.Format("2006-01-02")}

	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d.TotalMembers = len(members)
	for _, m := range members {
		if m.IsActive() {
			d.ActiveMembers++
		}
	}

	svc, err := QueryServiceAttendance(ctx, "", now, ServiceAttendanceDeps{AttendanceStore: deps.AttendanceStore})
	if err != nil {
		return Dashboard{}, err
	}
	d.LastService, d.LastServicePresent = svc.Date, svc.Present

	if d.Balance, err = QueryBalance(ctx, FinanceDeps{TransactionStore: deps.TransactionStore}); err != nil {
		return Dashboard{}, err
	}

	partners, err := deps.PartnerStore.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d.Partners = len(partners)
	d.PartnerTotal = decimal.Zero
	for _, p := range partners {
		d.PartnerTotal = d.PartnerTotal.Add(p.TotalContributions)
	}

	checkIns, err := deps.ChildCheckInStore.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	for _, ci := range checkIns {
		if ci.ServiceDate == d.Date && ci.IsOpen() {
			d.ChildrenCheckedIn++
		}
	}

	pending, err := QueryPendingVisitors(ctx, deps.VisitorStore)
	if err != nil {
		return Dashboard{}, err
	}
	d.VisitorsPending = len(pending)

	prayers, err := QueryOpenPrayers(ctx, true, deps.PrayerStore)
	if err != nil {
		return Dashboard{}, err
	}
	d.OpenPrayers = len(prayers)

	claims, err := deps.ClaimStore.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	for _, c := range claims {
		if c.Status == welfare.StatusPending {
			d.PendingWelfare++
		}
	}

	if deps.Credits != nil {
		if d.SMSCredits, err = deps.Credits.Balance(ctx); err != nil {
			return Dashboard{}, err
		}
	}

	upcoming, err := QueryUpcomingPrograms(ctx, now, deps.ProgramStore)
	if err != nil {
		return Dashboard{}, err
	}
	d.UpcomingPrograms = len(upcoming)
	if len(upcoming) > 0 {
		d.NextProgram = upcoming[0].Name + " (" + upcoming[0].Date + ")"
	}

	eq, err := QueryEquipmentStatus(ctx, deps.EquipmentStore)
	if err != nil {
		return Dashboard{}, err
	}
	d.EquipmentAttention = len(eq.NeedsAttention)
	return d, nil
}
