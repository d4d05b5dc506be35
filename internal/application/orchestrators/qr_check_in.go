package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/member"
)

// AttendanceStore defines the attendance table operations.
type AttendanceStore interface {
	Create(ctx context.Context, build func(id string) (attendance.Record, error)) (attendance.Record, error)
	CreateUnless(ctx context.Context, clash func(attendance.Record) bool, build func(id string) (attendance.Record, error)) (attendance.Record, error)
}

// MemberLookup is the read side of the member table.
type MemberLookup interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// CheckInRecorder receives QR check-in outcomes for metrics. Optional.
type CheckInRecorder interface {
	RecordCheckIn(result attendance.CheckInResult)
}

// QRCheckInInput carries input for the orchestrator.
type QRCheckInInput struct {
	TokenID  string
	MemberID string
}

// QRCheckInDeps holds dependencies for QRCheckIn.
type QRCheckInDeps struct {
	TokenStore      TokenStore
	MemberStore     MemberLookup
	AttendanceStore AttendanceStore
	Recorder        CheckInRecorder
	Now             func() time.Time
}

// ExecuteQRCheckIn marks a member present for the token's service.
// Business outcomes are reported through the result; err is reserved for store failures.
// PRE: TokenID and MemberID come from a scanned code and the member picker
// POST: On CheckInSuccess exactly one Present/QR record exists for (member, service date)
// INVARIANT: concurrent scans for the same member and date produce one record
func ExecuteQRCheckIn(ctx context.Context, input QRCheckInInput, deps QRCheckInDeps) (attendance.CheckInResult, attendance.Record, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	at := now()

	result, rec, err := qrCheckIn(ctx, input, deps, at)
	if err != nil {
		return result, rec, err
	}
	if deps.Recorder != nil {
		deps.Recorder.RecordCheckIn(result)
	}
	slog.Info("checkin_event", "event", "qr_check_in", "token_id", input.TokenID, "member_id", input.MemberID, "result", result.String())
	return result, rec, nil
}

func qrCheckIn(ctx context.Context, input QRCheckInInput, deps QRCheckInDeps, at time.Time) (attendance.CheckInResult, attendance.Record, error) {
	if input.TokenID == "" {
		return attendance.CheckInInvalidToken, attendance.Record{}, nil
	}
	token, err := deps.TokenStore.GetByID(ctx, input.TokenID)
	if errors.Is(err, memory.ErrNotFound) {
		return attendance.CheckInInvalidToken, attendance.Record{}, nil
	}
	if err != nil {
		return attendance.CheckInInvalidToken, attendance.Record{}, err
	}
	if token.IsExpired(at) {
		return attendance.CheckInExpired, attendance.Record{}, nil
	}

	if _, err := deps.MemberStore.GetByID(ctx, input.MemberID); err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			return attendance.CheckInUnknownMember, attendance.Record{}, nil
		}
		return attendance.CheckInUnknownMember, attendance.Record{}, err
	}

	sameService := func(r attendance.Record) bool {
		return r.MemberID == input.MemberID && r.ServiceDate == token.ServiceDate
	}
	rec, err := deps.AttendanceStore.CreateUnless(ctx, sameService, func(id string) (attendance.Record, error) {
		r := attendance.Record{
			ID:            id,
			MemberID:      input.MemberID,
			ServiceDate:   token.ServiceDate,
			ServiceType:   token.ServiceType,
			Status:        attendance.StatusPresent,
			CheckInMethod: attendance.MethodQR,
			CheckInTime:   at,
			TokenID:       token.ID,
		}
		return r, r.Validate()
	})
	if errors.Is(err, memory.ErrConflict) {
		return attendance.CheckInAlreadyMarked, attendance.Record{}, nil
	}
	if err != nil {
		return attendance.CheckInInvalidToken, attendance.Record{}, err
	}
	return attendance.CheckInSuccess, rec, nil
}
