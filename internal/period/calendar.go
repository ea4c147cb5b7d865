package period

import (
	"fmt"
	"time"
)

// ISOLayout is the storage format for transaction dates.
const ISOLayout = "2006-01-02"

const hoursPerDay = 24

// Day truncates t to midnight UTC of its own calendar date. The wall clock
// date in t's location is kept, so zone and time of day never shift the day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseISODate parses a YYYY-MM-DD date. Longer strings are accepted when
// their first ten characters form such a date (e.g. RFC3339 timestamps).
func ParseISODate(s string) (time.Time, error) {
	if len(s) > len(ISOLayout) {
		s = s[:len(ISOLayout)]
	}
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatISODate formats a date as YYYY-MM-DD.
func FormatISODate(t time.Time) string {
	return t.Format(ISOLayout)
}

// DaysInclusive counts the calendar days in [from, to], both bounds included.
func DaysInclusive(from, to time.Time) int {
	diff := Day(to).Sub(Day(from))
	return int(diff.Hours()/hoursPerDay) + 1
}

func addDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// startOfWeek returns the Monday on or before t.
func startOfWeek(t time.Time) time.Time {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return addDays(d, -offset)
}

func endOfWeek(t time.Time) time.Time {
	return addDays(startOfWeek(t), 6)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(t time.Time) time.Time {
	return addDays(startOfMonth(t).AddDate(0, 1, 0), -1)
}

func startOfQuarter(t time.Time) time.Time {
	first := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), first, 1, 0, 0, 0, 0, time.UTC)
}

func endOfQuarter(t time.Time) time.Time {
	return addDays(startOfQuarter(t).AddDate(0, 3, 0), -1)
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

func endOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

// monthsBetween counts calendar months touched by [from, to], floored at 1.
func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}
