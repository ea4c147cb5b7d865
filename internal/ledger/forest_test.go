package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/sample"
)

func expense(id, name, parent string) model.Category {
	return model.Category{ID: id, Name: name, ParentID: parent, Type: model.CategoryTypeExpense}
}

func income(id, name, parent string) model.Category {
	return model.Category{ID: id, Name: name, ParentID: parent, Type: model.CategoryTypeIncome}
}

func TestForestNavigation(t *testing.T) {
	f := NewForest(sample.Categories())

	assert.Equal(t, 10, f.Len())

	var roots []string
	for _, r := range f.Roots() {
		roots = append(roots, r.Name)
	}
	assert.Equal(t, []string{"Food & Drinks", "Income", "Life & Entertainment"}, roots)

	var kids []string
	for _, c := range f.Children(sample.IncomeRoot) {
		kids = append(kids, c.Name)
	}
	assert.Equal(t, []string{"Base Salary", "Cashback", "Interest Income", "Per Diem"}, kids)

	assert.Equal(t, "Food & Drinks > Restaurants", f.Path(sample.Restaurants))
	assert.Equal(t, 1, f.Depth(sample.Restaurants))
	assert.Equal(t, 0, f.Depth(sample.Food))
	assert.Empty(t, f.Path("missing"))

	assert.ElementsMatch(t, []string{sample.Food, sample.Restaurants, sample.FoodDelivery}, f.Descendants(sample.Food))
	assert.Nil(t, f.Descendants("missing"))

	_, ok := f.Get("")
	assert.False(t, ok)
}

func TestForestWalkDepths(t *testing.T) {
	cats := []model.Category{
		expense("a", "A", ""),
		expense("b", "B", "a"),
		expense("c", "C", "b"),
		expense("d", "D", ""),
	}
	f := NewForest(cats)

	var visited []string
	var depths []int
	f.Walk(func(c model.Category, depth int) {
		visited = append(visited, c.ID)
		depths = append(depths, depth)
	})
	assert.Equal(t, []string{"a", "b", "c", "d"}, visited)
	assert.Equal(t, []int{0, 1, 2, 0}, depths)
}

func TestForestToleratesMalformedInput(t *testing.T) {
	cats := []model.Category{
		expense("orphan", "Orphan", "gone"),
		expense("self", "Self", "self"),
		expense("x", "X", "y"),
		expense("y", "Y", "x"),
		expense("dup", "First", ""),
		expense("dup", "Second", ""),
		expense("", "No ID", ""),
	}
	f := NewForest(cats)

	var roots []string
	for _, r := range f.Roots() {
		roots = append(roots, r.ID)
	}
	assert.Equal(t, []string{"dup", "orphan", "self"}, roots)

	c, ok := f.Get("dup")
	require.True(t, ok)
	assert.Equal(t, "First", c.Name)

	assert.Len(t, f.Ancestors("x"), 1, "cycle walk stops at the repeated node")
	assert.Empty(t, f.Ancestors("self"))
}

func TestValidateForest(t *testing.T) {
	t.Run("sample forest is valid", func(t *testing.T) {
		assert.NoError(t, ValidateForest(sample.Categories()))
	})

	tests := []struct {
		name    string
		cats    []model.Category
		wantErr error
	}{
		{"empty id", []model.Category{expense(" ", "Blank", "")}, ErrEmptyCategoryID},
		{"duplicate", []model.Category{expense("a", "A", ""), expense("a", "B", "")}, ErrDuplicateCategory},
		{"unknown parent", []model.Category{expense("a", "A", "nope")}, ErrUnknownParent},
		{"self cycle", []model.Category{expense("a", "A", "a")}, ErrCategoryCycle},
		{"long cycle", []model.Category{
			expense("a", "A", "c"),
			expense("b", "B", "a"),
			expense("c", "C", "b"),
		}, ErrCategoryCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateForest(tt.cats)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateForestReportsCycleOnce(t *testing.T) {
	err := ValidateForest([]model.Category{
		expense("a", "A", "b"),
		expense("b", "B", "a"),
		expense("tail", "Tail", "a"),
	})
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 1)
}

func TestTypeMismatches(t *testing.T) {
	cats := append(sample.Categories(), income("refunds", "Refunds", sample.Food))

	got := TypeMismatches(cats)
	require.Len(t, got, 1)
	assert.Equal(t, "refunds", got[0].Category.ID)
	assert.Equal(t, sample.Food, got[0].Parent.ID)

	assert.Empty(t, TypeMismatches(sample.Categories()))
}
