// Package sample provides the built-in demonstration data set: a small
// income and expense category forest and a handful of transactions from
// autumn 2025.
package sample

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-dashboard/internal/model"
)

// Category ids in the sample set.
const (
	IncomeRoot     = "income-root"
	BaseSalary     = "income-base-salary"
	Cashback       = "income-cashback"
	PerDiem        = "income-per-diem"
	InterestIncome = "income-interest"
	Food           = "exp-food"
	Restaurants    = "exp-restaurants"
	FoodDelivery   = "exp-food-delivery"
	Life           = "exp-life"
	Gifts          = "exp-gifts"
)

// Categories returns a fresh copy of the sample category forest.
func Categories() []model.Category {
	return []model.Category{
		{ID: IncomeRoot, Name: "Income", Type: model.CategoryTypeIncome},
		{ID: BaseSalary, Name: "Base Salary", ParentID: IncomeRoot, Type: model.CategoryTypeIncome},
		{ID: Cashback, Name: "Cashback", ParentID: IncomeRoot, Type: model.CategoryTypeIncome},
		{ID: PerDiem, Name: "Per Diem", ParentID: IncomeRoot, Type: model.CategoryTypeIncome},
		{ID: InterestIncome, Name: "Interest Income", ParentID: IncomeRoot, Type: model.CategoryTypeIncome},
		{ID: Food, Name: "Food & Drinks", Type: model.CategoryTypeExpense},
		{ID: Restaurants, Name: "Restaurants", ParentID: Food, Type: model.CategoryTypeExpense},
		{ID: FoodDelivery, Name: "Food Delivery", ParentID: Food, Type: model.CategoryTypeExpense},
		{ID: Life, Name: "Life & Entertainment", Type: model.CategoryTypeExpense},
		{ID: Gifts, Name: "Gifts", ParentID: Life, Type: model.CategoryTypeExpense},
	}
}

// Transactions returns a fresh copy of the sample transactions.
func Transactions() []model.Transaction {
	return []model.Transaction{
		{
			ID:          1,
			Date:        "2025-10-01",
			Description: "September Salary",
			Amount:      decimal.NewFromInt(16000),
			CategoryID:  BaseSalary,
			Labels:      []string{"Work"},
			Account:     "Salary Account",
		},
		{
			ID:          2,
			Date:        "2025-10-03",
			Description: "Dinner out",
			Amount:      decimal.NewFromInt(-210),
			CategoryID:  Restaurants,
			Labels:      []string{"Food"},
			Account:     "Card",
		},
		{
			ID:          3,
			Date:        "2025-10-04",
			Description: "Food delivery",
			Amount:      decimal.NewFromInt(-95),
			CategoryID:  FoodDelivery,
			Labels:      []string{"Food", "Delivery"},
			Account:     "Card",
		},
		{
			ID:          4,
			Date:        "2025-09-29",
			Description: "Gift for friend",
			Amount:      decimal.NewFromInt(-150),
			CategoryID:  Gifts,
			Labels:      []string{"Gift"},
			Account:     "Card",
		},
	}
}
