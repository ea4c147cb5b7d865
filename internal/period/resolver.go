// Package period resolves dashboard period selections into concrete,
// inclusive calendar date ranges.
package period

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-dashboard/internal/model"
)

// Fallback labels for custom ranges that cannot be honored.
const (
	LabelCustomIncomplete = "Custom range (incomplete, fallback to this month)"
	LabelCustomInvalid    = "Custom range (invalid, fallback to this month)"
)

// averageMonthDays is the mean Gregorian month length, used to express
// week-family ranges in months for averaging display.
var averageMonthDays = decimal.RequireFromString("30.4375")

var modeLabels = map[model.PeriodMode]string{
	model.PeriodThisWeek:       "This week",
	model.PeriodThisMonth:      "This month",
	model.PeriodThisQuarter:    "This quarter",
	model.PeriodThisYear:       "This year",
	model.PeriodLastWeek:       "Last week",
	model.PeriodLastMonth:      "Last month",
	model.PeriodLastQuarter:    "Last quarter",
	model.PeriodLastYear:       "Last year",
	model.PeriodRollingWeek:    "Rolling week",
	model.PeriodRollingMonth:   "Rolling month",
	model.PeriodRollingQuarter: "Rolling quarter",
	model.PeriodRollingYear:    "Rolling year",
	model.PeriodCustom:         "Custom range",
}

// Range is a resolved, inclusive calendar interval.
type Range struct {
	From          time.Time
	To            time.Time
	MonthsInRange decimal.Decimal
	Mode          model.PeriodMode
	Label         string
	// Normalized is set when the requested selection could not be honored
	// as given and a fallback was substituted.
	Normalized bool
}

// Days returns the number of calendar days in the range.
func (r Range) Days() int {
	return DaysInclusive(r.From, r.To)
}

// Contains reports whether the calendar date of t lies within the range.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.From)) && !d.After(Day(r.To))
}

// FromISO returns the lower bound as YYYY-MM-DD.
func (r Range) FromISO() string { return FormatISODate(r.From) }

// ToISO returns the upper bound as YYYY-MM-DD.
func (r Range) ToISO() string { return FormatISODate(r.To) }

// Label returns the display label of a mode, or "" when unknown.
func Label(mode model.PeriodMode) string {
	return modeLabels[mode]
}

// NormalizeMode maps an unrecognized mode to thisMonth. The boolean reports
// whether a correction was made; callers holding the mode should store the
// returned value.
func NormalizeMode(mode model.PeriodMode) (model.PeriodMode, bool) {
	if mode.Valid() {
		return mode, false
	}
	return model.PeriodThisMonth, true
}

// Resolve turns a period selection into a concrete range relative to today.
// It never fails: unknown modes and unusable custom bounds fall back to the
// current month.
func Resolve(mode model.PeriodMode, today time.Time, customFrom, customTo string) Range {
	today = Day(today)

	mode, normalized := NormalizeMode(mode)
	r := Range{Mode: mode, Label: modeLabels[mode], Normalized: normalized}

	switch mode {
	case model.PeriodThisWeek:
		r.From, r.To = startOfWeek(today), endOfWeek(today)
	case model.PeriodThisMonth:
		r.From, r.To = startOfMonth(today), endOfMonth(today)
	case model.PeriodThisQuarter:
		r.From, r.To = startOfQuarter(today), endOfQuarter(today)
	case model.PeriodThisYear:
		r.From, r.To = startOfYear(today), endOfYear(today)

	case model.PeriodLastWeek:
		r.To = addDays(startOfWeek(today), -1)
		r.From = addDays(r.To, -6)
	case model.PeriodLastMonth:
		r.To = addDays(startOfMonth(today), -1)
		r.From = startOfMonth(r.To)
	case model.PeriodLastQuarter:
		r.To = addDays(startOfQuarter(today), -1)
		r.From = startOfQuarter(r.To)
	case model.PeriodLastYear:
		r.To = addDays(startOfYear(today), -1)
		r.From = startOfYear(r.To)

	case model.PeriodRollingWeek:
		r.From, r.To = addDays(today, -6), today
	case model.PeriodRollingMonth:
		r.From, r.To = rollingStart(today, 1), today
	case model.PeriodRollingQuarter:
		r.From, r.To = rollingStart(today, 3), today
	case model.PeriodRollingYear:
		r.From, r.To = rollingStart(today, 12), today

	case model.PeriodCustom:
		return resolveCustom(today, customFrom, customTo)
	}

	r.MonthsInRange = monthsInRange(mode, r.From, r.To)
	return r
}

// rollingStart returns the first day of a window of whole months ending today.
// AddDate normalizes overflow (Mar 31 - 1 month = Mar 3), which is kept.
func rollingStart(today time.Time, months int) time.Time {
	return addDays(today.AddDate(0, -months, 0), 1)
}

func resolveCustom(today time.Time, customFrom, customTo string) Range {
	fallback := Range{
		Mode:          model.PeriodCustom,
		From:          startOfMonth(today),
		To:            endOfMonth(today),
		MonthsInRange: decimal.NewFromInt(1),
		Normalized:    true,
	}

	if customFrom == "" || customTo == "" {
		fallback.Label = LabelCustomIncomplete
		return fallback
	}

	from, errFrom := ParseISODate(customFrom)
	to, errTo := ParseISODate(customTo)
	if errFrom != nil || errTo != nil || from.After(to) {
		fallback.Label = LabelCustomInvalid
		return fallback
	}

	return Range{
		Mode:          model.PeriodCustom,
		From:          from,
		To:            to,
		Label:         FormatISODate(from) + " → " + FormatISODate(to),
		MonthsInRange: monthsInRange(model.PeriodCustom, from, to),
	}
}

func monthsInRange(mode model.PeriodMode, from, to time.Time) decimal.Decimal {
	switch mode.Family() {
	case model.FamilyMonth:
		return decimal.NewFromInt(1)
	case model.FamilyQuarter:
		return decimal.NewFromInt(3)
	case model.FamilyYear:
		return decimal.NewFromInt(12)
	case model.FamilyCustom:
		return decimal.NewFromInt(int64(monthsBetween(from, to)))
	case model.FamilyWeek:
		return decimal.NewFromInt(int64(DaysInclusive(from, to))).Div(averageMonthDays)
	default:
		return decimal.NewFromInt(1)
	}
}
