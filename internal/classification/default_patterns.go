package classification

import "github.com/Veraticus/budget-dashboard/internal/model"

// DefaultPatterns returns the income keyword rules used to type categories
// that arrive without an explicit type.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:       "Salary",
			Type:       model.CategoryTypeIncome,
			Regex:      `salary|payroll`,
			Priority:   100,
			Confidence: 0.95,
		},
		{
			Name:       "Bonus",
			Type:       model.CategoryTypeIncome,
			Regex:      `bonus`,
			Priority:   90,
			Confidence: 0.90,
		},
		{
			Name:       "Interest",
			Type:       model.CategoryTypeIncome,
			Regex:      `interest|dividend`,
			Priority:   90,
			Confidence: 0.90,
		},
		{
			Name:       "Cashback",
			Type:       model.CategoryTypeIncome,
			Regex:      `cash\s*back|refund`,
			Priority:   85,
			Confidence: 0.85,
		},
		{
			Name:       "Allowance",
			Type:       model.CategoryTypeIncome,
			Regex:      `allowance|per\s*diem`,
			Priority:   85,
			Confidence: 0.85,
		},
		// Generic catch-all, checked last.
		{
			Name:       "Income",
			Type:       model.CategoryTypeIncome,
			Regex:      `income`,
			Priority:   50,
			Confidence: 0.75,
		},
	}
}
