package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-dashboard/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveModes(t *testing.T) {
	// Wednesday
	today := time.Date(2025, time.October, 15, 17, 45, 0, 0, time.UTC)

	tests := []struct {
		mode   model.PeriodMode
		from   string
		to     string
		label  string
		months string
	}{
		{model.PeriodThisWeek, "2025-10-13", "2025-10-19", "This week", ""},
		{model.PeriodThisMonth, "2025-10-01", "2025-10-31", "This month", "1"},
		{model.PeriodThisQuarter, "2025-10-01", "2025-12-31", "This quarter", "3"},
		{model.PeriodThisYear, "2025-01-01", "2025-12-31", "This year", "12"},
		{model.PeriodLastWeek, "2025-10-06", "2025-10-12", "Last week", ""},
		{model.PeriodLastMonth, "2025-09-01", "2025-09-30", "Last month", "1"},
		{model.PeriodLastQuarter, "2025-07-01", "2025-09-30", "Last quarter", "3"},
		{model.PeriodLastYear, "2024-01-01", "2024-12-31", "Last year", "12"},
		{model.PeriodRollingWeek, "2025-10-09", "2025-10-15", "Rolling week", ""},
		{model.PeriodRollingMonth, "2025-09-16", "2025-10-15", "Rolling month", "1"},
		{model.PeriodRollingQuarter, "2025-07-16", "2025-10-15", "Rolling quarter", "3"},
		{model.PeriodRollingYear, "2024-10-16", "2025-10-15", "Rolling year", "12"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := Resolve(tt.mode, today, "", "")
			assert.Equal(t, tt.mode, r.Mode)
			assert.Equal(t, tt.from, r.FromISO())
			assert.Equal(t, tt.to, r.ToISO())
			assert.Equal(t, tt.label, r.Label)
			assert.False(t, r.Normalized)
			if tt.months != "" {
				assert.Equal(t, tt.months, r.MonthsInRange.String())
			}
		})
	}
}

func TestResolveWeekMonthsApproximation(t *testing.T) {
	r := Resolve(model.PeriodThisWeek, date(2025, time.October, 15), "", "")

	months, _ := r.MonthsInRange.Float64()
	assert.InDelta(t, 7/30.4375, months, 1e-12)
}

func TestResolveWeekStartsMonday(t *testing.T) {
	start := date(2024, time.January, 1)
	for i := 0; i < 400; i++ {
		today := start.AddDate(0, 0, i)
		r := Resolve(model.PeriodThisWeek, today, "", "")

		assert.Equal(t, time.Monday, r.From.Weekday(), "today=%s", FormatISODate(today))
		assert.Equal(t, 6*24*time.Hour, r.To.Sub(r.From))
		assert.True(t, r.Contains(today))
	}
}

func TestResolveSundayBelongsToPrecedingWeek(t *testing.T) {
	sunday := date(2025, time.October, 19)
	r := Resolve(model.PeriodThisWeek, sunday, "", "")

	assert.Equal(t, "2025-10-13", r.FromISO())
	assert.Equal(t, "2025-10-19", r.ToISO())

	last := Resolve(model.PeriodLastWeek, sunday, "", "")
	assert.Equal(t, "2025-10-06", last.FromISO())
	assert.Equal(t, "2025-10-12", last.ToISO())
}

func TestResolveFromNeverAfterTo(t *testing.T) {
	start := date(2023, time.December, 20)
	for i := 0; i < 800; i += 3 {
		today := start.AddDate(0, 0, i)
		for _, mode := range model.AllPeriodModes() {
			r := Resolve(mode, today, "", "")
			assert.False(t, r.From.After(r.To), "mode=%s today=%s", mode, FormatISODate(today))
		}
	}
}

func TestResolveRollingEndsToday(t *testing.T) {
	start := date(2024, time.February, 25)
	for i := 0; i < 500; i++ {
		today := start.AddDate(0, 0, i)
		for _, mode := range []model.PeriodMode{
			model.PeriodRollingWeek, model.PeriodRollingMonth,
			model.PeriodRollingQuarter, model.PeriodRollingYear,
		} {
			r := Resolve(mode, today, "", "")
			assert.Equal(t, FormatISODate(today), r.ToISO(), "mode=%s", mode)
		}
	}
}

func TestResolveRollingMonthOverflow(t *testing.T) {
	// March 31 minus one month normalizes to March 3, so the window starts March 4.
	r := Resolve(model.PeriodRollingMonth, date(2025, time.March, 31), "", "")
	assert.Equal(t, "2025-03-04", r.FromISO())
	assert.Equal(t, "2025-03-31", r.ToISO())
}

func TestResolveIgnoresTimeOfDayAndZone(t *testing.T) {
	loc := time.FixedZone("UTC-10", -10*60*60)
	late := time.Date(2025, time.December, 31, 23, 59, 59, 0, loc)

	r := Resolve(model.PeriodThisMonth, late, "", "")
	assert.Equal(t, "2025-12-01", r.FromISO())
	assert.Equal(t, "2025-12-31", r.ToISO())
}

func TestResolveUnknownModeNormalizes(t *testing.T) {
	r := Resolve(model.PeriodMode("fortnight"), date(2025, time.October, 15), "", "")

	assert.Equal(t, model.PeriodThisMonth, r.Mode)
	assert.True(t, r.Normalized)
	assert.Equal(t, "This month", r.Label)
	assert.Equal(t, "2025-10-01", r.FromISO())
	assert.Equal(t, "2025-10-31", r.ToISO())
	assert.Equal(t, "1", r.MonthsInRange.String())

	mode, changed := NormalizeMode("fortnight")
	assert.Equal(t, model.PeriodThisMonth, mode)
	assert.True(t, changed)

	mode, changed = NormalizeMode(model.PeriodLastYear)
	assert.Equal(t, model.PeriodLastYear, mode)
	assert.False(t, changed)
}

func TestResolveCustom(t *testing.T) {
	today := date(2025, time.October, 15)

	t.Run("single day", func(t *testing.T) {
		r := Resolve(model.PeriodCustom, today, "2025-09-01", "2025-09-01")
		assert.Equal(t, "2025-09-01", r.FromISO())
		assert.Equal(t, "2025-09-01", r.ToISO())
		assert.Equal(t, 1, r.Days())
		assert.Equal(t, "1", r.MonthsInRange.String())
		assert.Equal(t, "2025-09-01 → 2025-09-01", r.Label)
		assert.False(t, r.Normalized)
	})

	t.Run("spanning year boundary", func(t *testing.T) {
		r := Resolve(model.PeriodCustom, today, "2024-11-15", "2025-02-03")
		assert.Equal(t, "4", r.MonthsInRange.String())
		assert.Equal(t, 81, r.Days())
	})

	tests := []struct {
		name  string
		from  string
		to    string
		label string
	}{
		{"missing from", "", "2025-09-30", LabelCustomIncomplete},
		{"missing to", "2025-09-01", "", LabelCustomIncomplete},
		{"inverted", "2025-09-30", "2025-09-01", LabelCustomInvalid},
		{"garbage", "yesterday", "2025-09-01", LabelCustomInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(model.PeriodCustom, today, tt.from, tt.to)
			assert.Equal(t, model.PeriodCustom, r.Mode)
			assert.True(t, r.Normalized)
			assert.Equal(t, tt.label, r.Label)
			assert.Equal(t, "2025-10-01", r.FromISO())
			assert.Equal(t, "2025-10-31", r.ToISO())
			assert.Equal(t, "1", r.MonthsInRange.String())
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	today := date(2025, time.October, 15)
	for _, mode := range model.AllPeriodModes() {
		a := Resolve(mode, today, "2025-01-01", "2025-03-31")
		b := Resolve(mode, today, "2025-01-01", "2025-03-31")
		assert.Equal(t, a, b)
	}
}

func TestDaysInclusive(t *testing.T) {
	assert.Equal(t, 1, DaysInclusive(date(2025, 9, 1), date(2025, 9, 1)))
	assert.Equal(t, 30, DaysInclusive(date(2025, 9, 1), date(2025, 9, 30)))
	assert.Equal(t, 366, DaysInclusive(date(2024, 1, 1), date(2024, 12, 31)))

	from := time.Date(2025, 9, 1, 23, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysInclusive(from, to))
}

func TestParseISODate(t *testing.T) {
	d, err := ParseISODate("2025-10-03")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.October, 3), d)

	d, err = ParseISODate("2025-10-03T14:22:00Z")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.October, 3), d)

	_, err = ParseISODate("03/10/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestValidateCustom(t *testing.T) {
	assert.NoError(t, ValidateCustom("2025-09-01", "2025-09-01"))
	assert.ErrorIs(t, ValidateCustom("", "2025-09-01"), ErrMissingBound)
	assert.ErrorIs(t, ValidateCustom("2025-09-01", "nope"), ErrInvalidDate)
	assert.ErrorIs(t, ValidateCustom("2025-09-02", "2025-09-01"), ErrInvertedRange)
}
