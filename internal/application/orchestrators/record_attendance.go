package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"churchdesk/internal/domain/attendance"
)

// RecordAttendanceInput carries input for a manual attendance entry.
type RecordAttendanceInput struct {
	MemberID    string
	ServiceDate string
	ServiceType string
	Status      string // defaults to Present
}

// RecordAttendanceDeps holds dependencies for RecordAttendance.
type RecordAttendanceDeps struct {
	AttendanceStore AttendanceStore
	Now             func() time.Time
}

// ExecuteRecordAttendance appends a manual attendance record.
// Manual entries are not deduplicated; ushers may correct a mark by adding another row.
// PRE: MemberID non-empty, ServiceDate is YYYY-MM-DD
// POST: One record appended with CheckInMethod = Manual
func ExecuteRecordAttendance(ctx context.Context, input RecordAttendanceInput, deps RecordAttendanceDeps) (attendance.Record, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	status := input.Status
	if status == "" {
		status = attendance.StatusPresent
	}
	serviceType := input.ServiceType
	if serviceType == "" {
		serviceType = attendance.ServiceSunday
	}

	rec, err := deps.AttendanceStore.Create(ctx, func(id string) (attendance.Record, error) {
		r := attendance.Record{
			ID:            id,
			MemberID:      input.MemberID,
			ServiceDate:   input.ServiceDate,
			ServiceType:   serviceType,
			Status:        status,
			CheckInMethod: attendance.MethodManual,
			CheckInTime:   now(),
		}
		return r, r.Validate()
	})
	if err != nil {
		return attendance.Record{}, err
	}
	slog.Info("checkin_event", "event", "attendance_recorded", "member_id", rec.MemberID, "service_date", rec.ServiceDate, "status", rec.Status)
	return rec, nil
}
