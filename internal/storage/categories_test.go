package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-dashboard/internal/ledger"
	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/sample"
)

func TestLoadCategoriesValidatesForest(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	tests := []struct {
		wantErr error
		name    string
		cats    []model.Category
	}{
		{
			name:    "unknown parent",
			cats:    []model.Category{{ID: "a", Name: "A", ParentID: "b", Type: model.CategoryTypeExpense}},
			wantErr: ledger.ErrUnknownParent,
		},
		{
			name: "cycle",
			cats: []model.Category{
				{ID: "a", Name: "A", ParentID: "b", Type: model.CategoryTypeExpense},
				{ID: "b", Name: "B", ParentID: "a", Type: model.CategoryTypeExpense},
			},
			wantErr: ledger.ErrCategoryCycle,
		},
		{
			name:    "bad type",
			cats:    []model.Category{{ID: "a", Name: "A", Type: "transfer"}},
			wantErr: ErrInvalidCategory,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.LoadCategories(ctx, tt.cats)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats, "failed loads leave the store untouched")
}

func TestAddCategoryAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := newSampleStorage(t)

	_, err := s.AddCategory(ctx, model.Category{ID: "cat-2", Name: "Taken", Type: model.CategoryTypeExpense})
	require.NoError(t, err)

	first, err := s.AddCategory(ctx, model.Category{Name: "Groceries", ParentID: sample.Food, Type: model.CategoryTypeExpense})
	require.NoError(t, err)
	assert.Equal(t, "cat-1", first.ID)

	second, err := s.AddCategory(ctx, model.Category{Name: "Rent", Type: model.CategoryTypeExpense})
	require.NoError(t, err)
	assert.Equal(t, "cat-3", second.ID, "taken ids are skipped")

	_, err = s.AddCategory(ctx, model.Category{ID: sample.Food, Name: "Dup", Type: model.CategoryTypeExpense})
	assert.ErrorIs(t, err, ErrDuplicateCategory)

	_, err = s.AddCategory(ctx, model.Category{Name: "Side Gig", ParentID: sample.Food, Type: model.CategoryTypeIncome})
	assert.ErrorIs(t, err, ErrParentTypeMismatch)

	_, err = s.AddCategory(ctx, model.Category{Name: "Orphan", ParentID: "missing", Type: model.CategoryTypeExpense})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = s.AddCategory(ctx, model.Category{Name: " ", Type: model.CategoryTypeExpense})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestUpdateCategoryRejectsCycles(t *testing.T) {
	ctx := context.Background()
	s := newSampleStorage(t)

	food, err := s.GetCategory(ctx, sample.Food)
	require.NoError(t, err)

	food.ParentID = sample.Restaurants
	assert.ErrorIs(t, s.UpdateCategory(ctx, food), ErrCategoryCycle)

	food.ParentID = sample.Food
	assert.ErrorIs(t, s.UpdateCategory(ctx, food), ErrCategoryCycle)

	food.ParentID = sample.Life
	require.NoError(t, s.UpdateCategory(ctx, food))

	got, _ := s.GetCategory(ctx, sample.Food)
	assert.Equal(t, sample.Life, got.ParentID)

	assert.ErrorIs(t, s.UpdateCategory(ctx, model.Category{ID: "nope", Name: "X", Type: model.CategoryTypeExpense}), ErrCategoryNotFound)
}

func TestDeleteCategoryCascades(t *testing.T) {
	ctx := context.Background()
	s := newSampleStorage(t)

	result, err := s.DeleteCategory(ctx, sample.Food)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{sample.Food, sample.Restaurants, sample.FoodDelivery}, result.Removed)
	assert.Equal(t, 2, result.Cleared)

	cats, _ := s.Categories(ctx)
	assert.Len(t, cats, 7)

	for _, id := range []int{2, 3} {
		tx, err := s.GetTransaction(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, tx.CategoryID)
	}
	gift, _ := s.GetTransaction(ctx, 4)
	assert.Equal(t, sample.Gifts, gift.CategoryID)

	_, err = s.DeleteCategory(ctx, sample.Food)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestFindAndEnsureCategory(t *testing.T) {
	ctx := context.Background()
	s := newSampleStorage(t)

	c, err := s.FindCategoryByName(ctx, "  restaurants ")
	require.NoError(t, err)
	assert.Equal(t, sample.Restaurants, c.ID)

	_, err = s.FindCategoryByName(ctx, "Travel")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = s.FindCategoryByName(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyString)

	existing, created, err := s.EnsureCategory(ctx, "GIFTS", model.CategoryTypeExpense)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, sample.Gifts, existing.ID)

	fresh, created, err := s.EnsureCategory(ctx, "Travel", model.CategoryTypeExpense)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "cat-1", fresh.ID)
	assert.True(t, fresh.IsRoot())

	again, created, err := s.EnsureCategory(ctx, "travel", model.CategoryTypeIncome)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, fresh.ID, again.ID)
}
