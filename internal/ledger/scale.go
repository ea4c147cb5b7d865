package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/period"
)

var monthsPerYear = decimal.NewFromInt(12)

// Scale converts a period total into the requested display unit. It only
// affects presentation; percentages are computed on unscaled amounts.
func Scale(amount decimal.Decimal, mode model.DisplayMode, r period.Range) decimal.Decimal {
	switch mode {
	case model.DisplayPerDay:
		days := r.Days()
		if days <= 0 {
			return amount
		}
		return amount.Div(decimal.NewFromInt(int64(days)))
	case model.DisplayPerMonth:
		if !r.MonthsInRange.IsPositive() {
			return amount
		}
		return amount.Div(r.MonthsInRange)
	case model.DisplayPerYear:
		if !r.MonthsInRange.IsPositive() {
			return amount
		}
		return amount.Mul(monthsPerYear).Div(r.MonthsInRange)
	default:
		return amount
	}
}

// ScaleFactor returns the multiplier Scale applies for mode over r.
func ScaleFactor(mode model.DisplayMode, r period.Range) decimal.Decimal {
	return Scale(decimal.NewFromInt(1), mode, r)
}
