// Package model defines the core domain models used throughout the application.
package model

// PeriodMode selects how the dashboard date range is resolved.
type PeriodMode string

// Period modes.
const (
	PeriodThisWeek       PeriodMode = "thisWeek"
	PeriodThisMonth      PeriodMode = "thisMonth"
	PeriodThisQuarter    PeriodMode = "thisQuarter"
	PeriodThisYear       PeriodMode = "thisYear"
	PeriodLastWeek       PeriodMode = "lastWeek"
	PeriodLastMonth      PeriodMode = "lastMonth"
	PeriodLastQuarter    PeriodMode = "lastQuarter"
	PeriodLastYear       PeriodMode = "lastYear"
	PeriodRollingWeek    PeriodMode = "rollingWeek"
	PeriodRollingMonth   PeriodMode = "rollingMonth"
	PeriodRollingQuarter PeriodMode = "rollingQuarter"
	PeriodRollingYear    PeriodMode = "rollingYear"
	PeriodCustom         PeriodMode = "custom"
)

// PeriodFamily groups period modes by granularity.
type PeriodFamily string

// Period families.
const (
	FamilyWeek    PeriodFamily = "week"
	FamilyMonth   PeriodFamily = "month"
	FamilyQuarter PeriodFamily = "quarter"
	FamilyYear    PeriodFamily = "year"
	FamilyCustom  PeriodFamily = "custom"
)

// AllPeriodModes returns every supported mode in display order.
func AllPeriodModes() []PeriodMode {
	return []PeriodMode{
		PeriodThisWeek, PeriodThisMonth, PeriodThisQuarter, PeriodThisYear,
		PeriodLastWeek, PeriodLastMonth, PeriodLastQuarter, PeriodLastYear,
		PeriodRollingWeek, PeriodRollingMonth, PeriodRollingQuarter, PeriodRollingYear,
		PeriodCustom,
	}
}

// Valid reports whether m is a supported mode.
func (m PeriodMode) Valid() bool {
	return m.Family() != ""
}

// Family returns the granularity of the mode, or "" when unknown.
func (m PeriodMode) Family() PeriodFamily {
	switch m {
	case PeriodThisWeek, PeriodLastWeek, PeriodRollingWeek:
		return FamilyWeek
	case PeriodThisMonth, PeriodLastMonth, PeriodRollingMonth:
		return FamilyMonth
	case PeriodThisQuarter, PeriodLastQuarter, PeriodRollingQuarter:
		return FamilyQuarter
	case PeriodThisYear, PeriodLastYear, PeriodRollingYear:
		return FamilyYear
	case PeriodCustom:
		return FamilyCustom
	default:
		return ""
	}
}

// DisplayMode controls how statement amounts are scaled for display.
type DisplayMode string

// Display modes.
const (
	DisplayTotal    DisplayMode = "total"
	DisplayPerDay   DisplayMode = "perDay"
	DisplayPerMonth DisplayMode = "perMonth"
	DisplayPerYear  DisplayMode = "perYear"
)

// Valid reports whether d is a supported display mode.
func (d DisplayMode) Valid() bool {
	switch d {
	case DisplayTotal, DisplayPerDay, DisplayPerMonth, DisplayPerYear:
		return true
	default:
		return false
	}
}

// DateFilter is the dashboard period selection. From and To are only
// meaningful for PeriodCustom.
type DateFilter struct {
	Mode PeriodMode `mapstructure:"period"`
	From string     `mapstructure:"from"`
	To   string     `mapstructure:"to"`
}
