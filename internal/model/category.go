package model

import "strings"

// CategoryType indicates whether a category collects income or expenses.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

// ParseCategoryType parses a category type in any casing.
func ParseCategoryType(s string) (CategoryType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(CategoryTypeIncome):
		return CategoryTypeIncome, true
	case string(CategoryTypeExpense):
		return CategoryTypeExpense, true
	default:
		return "", false
	}
}

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category is a node in the category forest. A node's own Type is
// authoritative; it is never inherited from its ancestors.
type Category struct {
	ID       string       `json:"id" mapstructure:"id"`
	Name     string       `json:"name" mapstructure:"name"`
	ParentID string       `json:"parentId,omitempty" mapstructure:"parent"`
	Type     CategoryType `json:"type" mapstructure:"type"`
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == ""
}
