package dateutil

import (
	"fmt"
	"time"
)

// Layout is the storage format for calendar dates.
const Layout = "2006-01-02"

// MonthLayout is the format used for monthly buckets.
const MonthLayout = "2006-01"

// Parse parses a YYYY-MM-DD date in UTC.
// PRE: s is non-empty
// POST: Returns the date at midnight UTC or an error
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Valid reports whether s parses as a YYYY-MM-DD date.
func Valid(s string) bool {
	_, err := time.Parse(Layout, s)
	return err == nil
}

// AgeOn returns the age in whole years of someone born on dob, as of now.
// PRE: dob is a valid YYYY-MM-DD date
// POST: Returns age >= 0, or an error if dob cannot be parsed
func AgeOn(dob string, now time.Time) (int, error) {
	born, err := Parse(dob)
	if err != nil {
		return 0, err
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age, nil
}

// NextBirthday returns the next occurrence of dob's month/day on or after now's date.
// Feb 29 birthdays fall on Mar 1 in non-leap years.
func NextBirthday(dob string, now time.Time) (time.Time, error) {
	born, err := Parse(dob)
	if err != nil {
		return time.Time{}, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	next := time.Date(today.Year(), born.Month(), born.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, born.Month(), born.Day(), 0, 0, 0, 0, time.UTC)
	}
	return next, nil
}

// DaysBetween returns the number of whole days from a to b (dates only).
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
