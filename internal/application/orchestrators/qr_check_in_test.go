package orchestrators

import (
	"context"
	"sync"
	"testing"
	"time"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/attendance"
)

type checkInCounter struct {
	mu      sync.Mutex
	results map[attendance.CheckInResult]int
}

func (c *checkInCounter) RecordCheckIn(r attendance.CheckInResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.results == nil {
		c.results = make(map[attendance.CheckInResult]int)
	}
	c.results[r]++
}

type qrFixture struct {
	deps   QRCheckInDeps
	token  attendance.QRToken
	member string
	att    *memory.Store[attendance.Record]
}

func newQRFixture(t *testing.T) qrFixture {
	t.Helper()
	ctx := context.Background()
	tokens := newTokenStore()
	members := newMemberStore()
	att := newAttendanceStore()
	m := seedMember(t, members, "Ama Owusu", "0241111111", "")

	tok, err := ExecuteIssueToken(ctx, IssueTokenInput{ServiceType: attendance.ServiceSunday}, IssueTokenDeps{
		TokenStore: tokens,
		Now:        clockAt(sundayNoon),
		GenerateID: func() string { return "tok-1" },
	})
	if err != nil {
		t.Fatalf("ExecuteIssueToken: %v", err)
	}
	return qrFixture{
		deps: QRCheckInDeps{
			TokenStore:      tokens,
			MemberStore:     members,
			AttendanceStore: att,
			Recorder:        &checkInCounter{},
			Now:             clockAt(sundayNoon.Add(5 * time.Minute)),
		},
		token:  tok,
		member: m.ID,
		att:    att,
	}
}

// TestExecuteIssueToken_Window tests the default validity window.
func TestExecuteIssueToken_Window(t *testing.T) {
	f := newQRFixture(t)
	if f.token.ServiceDate != "2026-03-01" {
		t.Errorf("service date = %s, want today", f.token.ServiceDate)
	}
	if got := f.token.ValidUntil.Sub(f.token.ValidFrom); got != attendance.DefaultValidity {
		t.Errorf("validity = %v, want %v", got, attendance.DefaultValidity)
	}
	if !f.token.Active {
		t.Error("new token should be active")
	}
}

// TestExecuteQRCheckIn_SecondScanAlreadyMarked tests per-service dedupe.
func TestExecuteQRCheckIn_SecondScanAlreadyMarked(t *testing.T) {
	f := newQRFixture(t)
	ctx := context.Background()
	in := QRCheckInInput{TokenID: f.token.ID, MemberID: f.member}

	res, rec, err := ExecuteQRCheckIn(ctx, in, f.deps)
	if err != nil || res != attendance.CheckInSuccess {
		t.Fatalf("first scan = %v, %v", res, err)
	}
	if rec.CheckInMethod != attendance.MethodQR || rec.Status != attendance.StatusPresent {
		t.Errorf("record = %+v", rec)
	}
	res, _, err = ExecuteQRCheckIn(ctx, in, f.deps)
	if err != nil || res != attendance.CheckInAlreadyMarked {
		t.Fatalf("second scan = %v, %v", res, err)
	}
	recs, _ := f.att.List(ctx)
	if len(recs) != 1 {
		t.Errorf("records = %d, want 1", len(recs))
	}
	counter := f.deps.Recorder.(*checkInCounter)
	if counter.results[attendance.CheckInSuccess] != 1 || counter.results[attendance.CheckInAlreadyMarked] != 1 {
		t.Errorf("recorded = %v", counter.results)
	}
}

// TestExecuteQRCheckIn_Expiry tests the validity boundary.
func TestExecuteQRCheckIn_Expiry(t *testing.T) {
	tests := []struct {
		name string
		at   time.Duration
		want attendance.CheckInResult
	}{
		{"inside window", 10 * time.Minute, attendance.CheckInSuccess},
		{"exact boundary", attendance.DefaultValidity, attendance.CheckInSuccess},
		{"one second late", attendance.DefaultValidity + time.Second, attendance.CheckInExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQRFixture(t)
			f.deps.Now = clockAt(sundayNoon.Add(tt.at))
			res, _, err := ExecuteQRCheckIn(context.Background(), QRCheckInInput{TokenID: f.token.ID, MemberID: f.member}, f.deps)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res != tt.want {
				t.Errorf("result = %v, want %v", res, tt.want)
			}
		})
	}
}

// TestExecuteQRCheckIn_Rejections tests invalid tokens and members.
func TestExecuteQRCheckIn_Rejections(t *testing.T) {
	f := newQRFixture(t)
	ctx := context.Background()

	if res, _, _ := ExecuteQRCheckIn(ctx, QRCheckInInput{MemberID: f.member}, f.deps); res != attendance.CheckInInvalidToken {
		t.Errorf("empty token = %v", res)
	}
	if res, _, _ := ExecuteQRCheckIn(ctx, QRCheckInInput{TokenID: "nope", MemberID: f.member}, f.deps); res != attendance.CheckInInvalidToken {
		t.Errorf("unknown token = %v", res)
	}
	if res, _, _ := ExecuteQRCheckIn(ctx, QRCheckInInput{TokenID: f.token.ID, MemberID: "M999"}, f.deps); res != attendance.CheckInUnknownMember {
		t.Errorf("unknown member = %v", res)
	}

	if err := ExecuteDeactivateToken(ctx, f.token.ID, DeactivateTokenDeps{TokenStore: f.deps.TokenStore}); err != nil {
		t.Fatalf("ExecuteDeactivateToken: %v", err)
	}
	if res, _, _ := ExecuteQRCheckIn(ctx, QRCheckInInput{TokenID: f.token.ID, MemberID: f.member}, f.deps); res != attendance.CheckInExpired {
		t.Errorf("deactivated token = %v", res)
	}
}

// TestExecuteQRCheckIn_ConcurrentScans tests that racing scans store one record.
func TestExecuteQRCheckIn_ConcurrentScans(t *testing.T) {
	f := newQRFixture(t)
	ctx := context.Background()
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, _, _ := ExecuteQRCheckIn(ctx, QRCheckInInput{TokenID: f.token.ID, MemberID: f.member}, f.deps)
			if res == attendance.CheckInSuccess {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if successes != 1 {
		t.Errorf("successes = %d, want 1", successes)
	}
}

// TestExecuteRecordAttendance_Defaults tests manual entry defaults.
func TestExecuteRecordAttendance_Defaults(t *testing.T) {
	store := newAttendanceStore()
	rec, err := ExecuteRecordAttendance(context.Background(), RecordAttendanceInput{MemberID: "M001", ServiceDate: "2026-03-01"}, RecordAttendanceDeps{
		AttendanceStore: store,
		Now:             clockAt(sundayNoon),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Status != attendance.StatusPresent || rec.ServiceType != attendance.ServiceSunday || rec.CheckInMethod != attendance.MethodManual {
		t.Errorf("record = %+v", rec)
	}
}
