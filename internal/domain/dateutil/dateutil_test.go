package dateutil_test

import (
	"testing"
	"time"

	"churchdesk/internal/domain/dateutil"
)

// TestAgeOn tests whole-year age calculation around the birthday.
func TestAgeOn(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		dob  string
		want int
	}{
		{"birthday passed", "2000-01-01", 26},
		{"birthday today", "2000-06-15", 26},
		{"birthday tomorrow", "2000-06-16", 25},
		{"born this year", "2026-01-01", 0},
		{"born in future", "2027-01-01", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dateutil.AgeOn(tt.dob, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AgeOn(%s) = %d, want %d", tt.dob, got, tt.want)
			}
		})
	}
}

// TestAgeOn_InvalidDate tests that malformed dates are rejected.
func TestAgeOn_InvalidDate(t *testing.T) {
	if _, err := dateutil.AgeOn("15/06/2000", time.Now()); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

// TestNextBirthday tests rollover into the next year.
func TestNextBirthday(t *testing.T) {
	now := time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC)
	next, err := dateutil.NextBirthday("1990-01-02", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dateutil.Format(next); got != "2027-01-02" {
		t.Errorf("next = %s, want 2027-01-02", got)
	}
	if d := dateutil.DaysBetween(now, next); d != 3 {
		t.Errorf("days = %d, want 3", d)
	}
}
