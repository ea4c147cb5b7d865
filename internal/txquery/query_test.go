package txquery

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/sample"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ids(txs []model.Transaction) []int {
	out := make([]int, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func TestApplyFilters(t *testing.T) {
	txs := sample.Transactions()
	cats := sample.Categories()

	tests := []struct {
		name  string
		query Query
		want  []int
	}{
		{"zero query is newest first", Query{}, []int{3, 2, 1, 4}},
		{"search description", Query{Search: "dinner"}, []int{2}},
		{"search category name", Query{Search: "  base SALARY "}, []int{1}},
		{"search labels", Query{Search: "delivery"}, []int{3}},
		{"search account", Query{Search: "card"}, []int{3, 2, 4}},
		{"date on", Query{DateMode: DateOn, DateFrom: "2025-10-03"}, []int{2}},
		{"date before inclusive", Query{DateMode: DateBefore, DateFrom: "2025-10-01"}, []int{1, 4}},
		{"date after inclusive", Query{DateMode: DateAfter, DateFrom: "2025-10-03"}, []int{3, 2}},
		{"date between", Query{DateMode: DateBetween, DateFrom: "2025-09-30", DateTo: "2025-10-03"}, []int{2, 1}},
		{"between without upper bound is ignored", Query{DateMode: DateBetween, DateFrom: "2025-09-30"}, []int{3, 2, 1, 4}},
		{"date mode without bound is ignored", Query{DateMode: DateOn}, []int{3, 2, 1, 4}},
		{"category exact", Query{CategoryID: sample.Restaurants}, []int{2}},
		{"category does not include children", Query{CategoryID: sample.Food}, []int{}},
		{"label substring", Query{Label: "deliv"}, []int{3}},
		{"account exact", Query{Account: "Card"}, []int{3, 2, 4}},
		{"account is case sensitive", Query{Account: "card"}, []int{}},
		{"amount gt", Query{AmountMode: AmountGreater, Min: amount("-100")}, []int{3, 1}},
		{"amount lt", Query{AmountMode: AmountLess, Max: amount("-100")}, []int{2, 4}},
		{"amount eq", Query{AmountMode: AmountEqual, Min: amount("-95.00")}, []int{3}},
		{"amount between", Query{AmountMode: AmountBetween, Min: amount("-210"), Max: amount("-150")}, []int{2, 4}},
		{"amount gt without min", Query{AmountMode: AmountGreater}, []int{3, 2, 1, 4}},
		{"combined", Query{Account: "Card", DateMode: DateAfter, DateFrom: "2025-10-01", AmountMode: AmountLess, Max: amount("-100")}, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(txs, cats, tt.query)))
		})
	}
}

func TestApplySorting(t *testing.T) {
	txs := sample.Transactions()
	cats := sample.Categories()

	tests := []struct {
		field     SortField
		ascending bool
		want      []int
	}{
		{SortDate, true, []int{4, 1, 2, 3}},
		{SortAmount, true, []int{2, 4, 3, 1}},
		{SortAmount, false, []int{1, 3, 4, 2}},
		{SortDescription, true, []int{2, 3, 4, 1}},
		{SortCategory, true, []int{1, 3, 4, 2}},
		{SortAccount, true, []int{2, 3, 4, 1}},
		{SortAccount, false, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got := Apply(txs, cats, Query{SortBy: tt.field, Ascending: tt.ascending})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	txs := sample.Transactions()
	got := Apply(txs, nil, Query{SortBy: SortAmount, Ascending: true})
	got[0].Labels[0] = "changed"

	assert.Equal(t, sample.Transactions(), txs)
}

func TestApplySkipsUnparsableDatesWhenFiltering(t *testing.T) {
	txs := []model.Transaction{{ID: 1, Date: "garbage"}, {ID: 2, Date: "2025-10-01"}}

	assert.Equal(t, []int{2}, ids(Apply(txs, nil, Query{DateMode: DateAfter, DateFrom: "2025-01-01"})))
	assert.Len(t, Apply(txs, nil, Query{}), 2)
}

func TestQueryValidate(t *testing.T) {
	assert.NoError(t, Query{}.Validate())
	assert.NoError(t, Query{DateMode: DateBetween, DateFrom: "2025-01-01", DateTo: "2025-02-01", SortBy: SortAmount}.Validate())

	err := Query{DateMode: "sometime", AmountMode: "huge", SortBy: "color", DateFrom: "01/01/2025"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Contains(t, err.Error(), "sometime")
	assert.Contains(t, err.Error(), "huge")
	assert.Contains(t, err.Error(), "color")
}
