package registry

import (
	"context"
	"time"

	"churchdesk/internal/adapters/export"
	"churchdesk/internal/application/orchestrators"
	"churchdesk/internal/application/projections"
	"churchdesk/internal/domain/attendance"
)

// Recorder receives business events for metrics.
type Recorder interface {
	RecordCheckIn(result attendance.CheckInResult)
	RecordTransaction(txType string)
	RecordSMSSegments(n int)
}

// App joins the stores with the outbound adapters.
type App struct {
	*Stores
	SMS        orchestrators.SMSGateway
	Email      orchestrators.EmailSender
	Metrics    Recorder // optional
	QRValidity time.Duration
	Now        func() time.Time // nil means time.Now
}

// Clock returns the current time from the injected clock.
func (a *App) Clock() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) checkInRecorder() orchestrators.CheckInRecorder {
	if a.Metrics == nil {
		return nil
	}
	return a.Metrics
}

func (a *App) txRecorder() orchestrators.TransactionRecorder {
	if a.Metrics == nil {
		return nil
	}
	return a.Metrics
}

func (a *App) segmentRecorder() orchestrators.SegmentRecorder {
	if a.Metrics == nil {
		return nil
	}
	return a.Metrics
}

// Orchestrator dependencies.

func (a *App) RegisterMember() orchestrators.RegisterMemberDeps {
	return orchestrators.RegisterMemberDeps{MemberStore: a.Members, Now: a.Now}
}

func (a *App) UpdateMember() orchestrators.UpdateMemberDeps {
	return orchestrators.UpdateMemberDeps{MemberStore: a.Members}
}

func (a *App) DeleteMember() orchestrators.DeleteMemberDeps {
	return orchestrators.DeleteMemberDeps{MemberStore: a.Members}
}

func (a *App) RecordAttendance() orchestrators.RecordAttendanceDeps {
	return orchestrators.RecordAttendanceDeps{AttendanceStore: a.Attendance, Now: a.Now}
}

func (a *App) IssueToken() orchestrators.IssueTokenDeps {
	return orchestrators.IssueTokenDeps{TokenStore: a.Tokens, DefaultValidity: a.QRValidity, Now: a.Now}
}

func (a *App) DeactivateToken() orchestrators.DeactivateTokenDeps {
	return orchestrators.DeactivateTokenDeps{TokenStore: a.Tokens}
}

func (a *App) QRCheckIn() orchestrators.QRCheckInDeps {
	return orchestrators.QRCheckInDeps{
		TokenStore:      a.Tokens,
		MemberStore:     a.Members,
		AttendanceStore: a.Attendance,
		Recorder:        a.checkInRecorder(),
		Now:             a.Now,
	}
}

func (a *App) AddTransaction() orchestrators.AddTransactionDeps {
	return orchestrators.AddTransactionDeps{TransactionStore: a.Transactions, Recorder: a.txRecorder(), Now: a.Now}
}

func (a *App) RegisterChild() orchestrators.RegisterChildDeps {
	return orchestrators.RegisterChildDeps{ChildStore: a.Children, Now: a.Now}
}

func (a *App) ChildCheckIn() orchestrators.ChildCheckInDeps {
	return orchestrators.ChildCheckInDeps{ChildStore: a.Children, CheckInStore: a.ChildCheckIns, Now: a.Now}
}

func (a *App) Partner() orchestrators.PartnerDeps {
	return orchestrators.PartnerDeps{
		PartnerStore:      a.Partners,
		ContributionStore: a.Contributions,
		Ledger:            a.Ledger,
		Now:               a.Now,
	}
}

func (a *App) Visitor() orchestrators.VisitorDeps {
	return orchestrators.VisitorDeps{VisitorStore: a.Visitors, MemberStore: a.Members, Now: a.Now}
}

func (a *App) Program() orchestrators.ProgramDeps {
	return orchestrators.ProgramDeps{ProgramStore: a.Programs}
}

func (a *App) EquipmentDeps() orchestrators.EquipmentDeps {
	return orchestrators.EquipmentDeps{EquipmentStore: a.Equipment}
}

func (a *App) Group() orchestrators.GroupDeps {
	return orchestrators.GroupDeps{GroupStore: a.Groups, MemberStore: a.Members}
}

func (a *App) Prayer() orchestrators.PrayerDeps {
	return orchestrators.PrayerDeps{PrayerStore: a.Prayers, Now: a.Now}
}

func (a *App) Welfare() orchestrators.WelfareDeps {
	return orchestrators.WelfareDeps{
		ClaimStore:       a.Claims,
		PaymentStore:     a.Payments,
		MemberStore:      a.Members,
		TransactionStore: a.Transactions,
		Now:              a.Now,
	}
}

func (a *App) Broadcast() orchestrators.BroadcastDeps {
	return orchestrators.BroadcastDeps{
		MessageStore: a.Messages,
		Credits:      a.Credits,
		SMS:          a.SMS,
		Email:        a.Email,
		MemberStore:  a.Members,
		Recorder:     a.segmentRecorder(),
		Now:          a.Now,
	}
}

func (a *App) FeedbackDeps() orchestrators.FeedbackDeps {
	return orchestrators.FeedbackDeps{FeedbackStore: a.Feedback, Now: a.Now}
}

// SeedSample bundles every module for the sample data loader.
func (a *App) SeedSample() orchestrators.SeedSampleDeps {
	return orchestrators.SeedSampleDeps{
		Members:    a.RegisterMember(),
		Attendance: a.RecordAttendance(),
		Finance:    a.AddTransaction(),
		Children:   a.RegisterChild(),
		CheckIns:   a.ChildCheckIn(),
		Partners:   a.Partner(),
		Visitors:   a.Visitor(),
		Programs:   a.Program(),
		Equipment:  a.EquipmentDeps(),
		Groups:     a.Group(),
		Prayer:     a.Prayer(),
		Welfare:    a.Welfare(),
		Feedback:   a.FeedbackDeps(),
		Now:        a.Now,
	}
}

// Projection dependencies.

func (a *App) Distribution() projections.MemberDistributionDeps {
	return projections.MemberDistributionDeps{MemberStore: a.Members}
}

func (a *App) Birthdays() projections.BirthdaysDeps {
	return projections.BirthdaysDeps{MemberStore: a.Members}
}

func (a *App) Trend() projections.AttendanceTrendDeps {
	return projections.AttendanceTrendDeps{AttendanceStore: a.Attendance}
}

func (a *App) Absence() projections.AbsenceAlertDeps {
	return projections.AbsenceAlertDeps{AttendanceStore: a.Attendance, MemberStore: a.Members}
}

func (a *App) ServiceAttendance() projections.ServiceAttendanceDeps {
	return projections.ServiceAttendanceDeps{AttendanceStore: a.Attendance}
}

func (a *App) Finance() projections.FinanceDeps {
	return projections.FinanceDeps{TransactionStore: a.Transactions, MemberStore: a.Members}
}

func (a *App) Partnership() projections.PartnershipDeps {
	return projections.PartnershipDeps{PartnerStore: a.Partners, ContributionStore: a.Contributions}
}

func (a *App) WelfareReport() projections.WelfareDeps {
	return projections.WelfareDeps{ClaimStore: a.Claims, PaymentStore: a.Payments, MemberStore: a.Members}
}

func (a *App) FeedbackReport() projections.FeedbackDeps {
	return projections.FeedbackDeps{FeedbackStore: a.Feedback}
}

func (a *App) ChildrenReport() projections.ChildrenDeps {
	return projections.ChildrenDeps{ChildStore: a.Children, CheckInStore: a.ChildCheckIns}
}

func (a *App) Dashboard() projections.DashboardDeps {
	return projections.DashboardDeps{
		MemberStore:       a.Members,
		AttendanceStore:   a.Attendance,
		TransactionStore:  a.Transactions,
		PartnerStore:      a.Partners,
		ChildCheckInStore: a.ChildCheckIns,
		VisitorStore:      a.Visitors,
		PrayerStore:       a.Prayers,
		ClaimStore:        a.Claims,
		ProgramStore:      a.Programs,
		EquipmentStore:    a.Equipment,
		Credits:           a.Credits,
	}
}

// ExportSource computes the dashboard and names every table for the workbook.
func (a *App) ExportSource(ctx context.Context) (export.Source, error) {
	dash, err := projections.QueryDashboard(ctx, a.Clock(), a.Dashboard())
	if err != nil {
		return export.Source{}, err
	}
	return export.Source{
		Dashboard:       &dash,
		Members:         a.Members,
		Attendance:      a.Attendance,
		Transactions:    a.Transactions,
		Children:        a.Children,
		ChildCheckIns:   a.ChildCheckIns,
		Partners:        a.Partners,
		Contributions:   a.Contributions,
		Visitors:        a.Visitors,
		Programs:        a.Programs,
		Equipment:       a.Equipment,
		Groups:          a.Groups,
		Prayers:         a.Prayers,
		WelfareClaims:   a.Claims,
		WelfarePayments: a.Payments,
		Messages:        a.Messages,
		Feedback:        a.Feedback,
	}, nil
}
