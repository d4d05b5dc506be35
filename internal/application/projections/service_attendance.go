package projections

import (
	"context"
	"time"

	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/dateutil"
)

// ServiceAttendance totals one service date.
type ServiceAttendance struct {
	Date    string
	Present int
	Absent  int
	Excused int
	ViaQR   int
	Total   int
}

// Rate is the present share of all records for the date.
func (s ServiceAttendance) Rate() Share {
	return Share{Label: attendance.StatusPresent, Count: s.Present, Percent: percent(float64(s.Present), float64(s.Total))}
}

// ServiceAttendanceDeps holds dependencies for the service queries.
type ServiceAttendanceDeps struct {
	AttendanceStore Lister[attendance.Record]
}

// QueryServiceAttendance totals the records for date. An empty date means the latest service on
// or before now.
func QueryServiceAttendance(ctx context.Context, date string, now time.Time, deps ServiceAttendanceDeps) (ServiceAttendance, error) {
	records, err := deps.AttendanceStore.List(ctx)
	if err != nil {
		return ServiceAttendance{}, err
	}
	if date == "" {
		date = latestServiceDate(records, dateutil.Format(now))
	}
	out := ServiceAttendance{Date: date}
	if date == "" {
		return out, nil
	}
	for _, r := range records {
		if r.ServiceDate != date {
			continue
		}
		out.Total++
		switch r.Status {
		case attendance.StatusPresent:
			out.Present++
		case attendance.StatusAbsent:
			out.Absent++
		case attendance.StatusExcused:
			out.Excused++
		}
		if r.CheckInMethod == attendance.MethodQR {
			out.ViaQR++
		}
	}
	return out, nil
}

// latestServiceDate returns the most recent service date not after today, or "".
func latestServiceDate(records []attendance.Record, today string) string {
	latest := ""
	for _, r := range records {
		if r.ServiceDate <= today && r.ServiceDate > latest {
			latest = r.ServiceDate
		}
	}
	return latest
}
