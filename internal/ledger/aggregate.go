// Package ledger aggregates transactions into an income statement over a
// category forest.
package ledger

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/period"
)

// Synthetic bucket keys for transactions without a usable category.
const (
	UnmappedIncomeID  = "unmapped-income"
	UnmappedExpenseID = "unmapped-expense"
)

// Display names for the synthetic buckets.
const (
	UnmappedIncomeName  = "(Uncategorised income)"
	UnmappedExpenseName = "(Uncategorised expense)"
)

// Options controls aggregation policy and presentation scaling.
type Options struct {
	Display model.DisplayMode
	// RollUpToAncestors adds each amount to every ancestor of the same type,
	// so a parent row shows its own transactions plus all descendants.
	// Section totals are unaffected.
	RollUpToAncestors bool
}

// Row is one statement line.
type Row struct {
	Amount        decimal.Decimal
	Display       decimal.Decimal
	PctOfIncome   decimal.Decimal
	PctOfExpenses decimal.Decimal
	CategoryID    string
	Name          string
	Type          model.CategoryType
	Depth         int
	Count         int
	Unmapped      bool
}

// Statement is the income statement for a resolved range.
type Statement struct {
	Range           period.Range
	TotalIncome     decimal.Decimal
	TotalExpenses   decimal.Decimal
	Net             decimal.Decimal
	SavingRate      decimal.Decimal
	AbsExpenses     decimal.Decimal
	DisplayIncome   decimal.Decimal
	DisplayExpenses decimal.Decimal
	DisplayNet      decimal.Decimal
	Display         model.DisplayMode
	IncomeRows      []Row
	ExpenseRows     []Row
	Transactions    int
	IncomeCount     int
	ExpenseCount    int
	Skipped         int
	RollUp          bool
}

type bucket struct {
	amount decimal.Decimal
	typ    model.CategoryType
	count  int
}

// Classify returns the statement section of a transaction: its category's
// own type when the category is known, otherwise the sign of the amount.
func Classify(tx model.Transaction, forest *Forest) model.CategoryType {
	if c, ok := forest.Get(tx.CategoryID); ok && c.Type.Valid() {
		return c.Type
	}
	if tx.IsIncomeLike() {
		return model.CategoryTypeIncome
	}
	return model.CategoryTypeExpense
}

// FilterRange returns the transactions dated within r. The second return
// value counts transactions whose date could not be parsed.
func FilterRange(txs []model.Transaction, r period.Range) ([]model.Transaction, int) {
	out := make([]model.Transaction, 0, len(txs))
	skipped := 0
	for _, tx := range txs {
		d, err := period.ParseISODate(tx.Date)
		if err != nil {
			skipped++
			slog.Debug("skipping transaction with unparsable date", "id", tx.ID, "date", tx.Date)
			continue
		}
		if r.Contains(d) {
			out = append(out, tx)
		}
	}
	return out, skipped
}

// Aggregate builds the income statement for txs over r. It is pure: inputs
// are not modified and identical inputs give identical output.
func Aggregate(txs []model.Transaction, categories []model.Category, r period.Range, opts Options) Statement {
	forest := NewForest(categories)
	kept, skipped := FilterRange(txs, r)

	direct := make(map[string]*bucket)
	rolled := make(map[string]*bucket)
	add := func(m map[string]*bucket, id string, typ model.CategoryType, amount decimal.Decimal) {
		b, ok := m[id]
		if !ok {
			b = &bucket{typ: typ}
			m[id] = b
		}
		b.amount = b.amount.Add(amount)
		b.count++
	}

	for _, tx := range kept {
		typ := Classify(tx, forest)
		id := tx.CategoryID
		if _, known := forest.Get(id); !known {
			id = unmappedID(typ)
		}

		add(direct, id, typ, tx.Amount)
		if !opts.RollUpToAncestors {
			continue
		}
		add(rolled, id, typ, tx.Amount)
		for _, ancestor := range forest.Ancestors(id) {
			if ancestor.Type == typ {
				add(rolled, ancestor.ID, typ, tx.Amount)
			}
		}
	}

	st := Statement{
		Range:        r,
		Display:      opts.Display,
		RollUp:       opts.RollUpToAncestors,
		Transactions: len(kept),
		Skipped:      skipped,
	}

	for _, id := range orderedIDs(forest, direct) {
		b := direct[id]
		if b.typ == model.CategoryTypeIncome {
			st.TotalIncome = st.TotalIncome.Add(b.amount)
			st.IncomeCount += b.count
		} else {
			st.TotalExpenses = st.TotalExpenses.Add(b.amount)
			st.AbsExpenses = st.AbsExpenses.Add(b.amount.Abs())
			st.ExpenseCount += b.count
		}
	}
	st.Net = st.TotalIncome.Add(st.TotalExpenses)
	st.SavingRate = ratio(st.Net, st.TotalIncome)

	rowBuckets := direct
	if opts.RollUpToAncestors {
		rowBuckets = rolled
	}
	for _, id := range orderedIDs(forest, rowBuckets) {
		b := rowBuckets[id]
		if b.amount.IsZero() {
			continue
		}
		row := st.newRow(forest, id, b)
		if row.Type == model.CategoryTypeIncome {
			st.IncomeRows = append(st.IncomeRows, row)
		} else {
			st.ExpenseRows = append(st.ExpenseRows, row)
		}
	}

	st.DisplayIncome = Scale(st.TotalIncome, opts.Display, r)
	st.DisplayExpenses = Scale(st.TotalExpenses, opts.Display, r)
	st.DisplayNet = Scale(st.Net, opts.Display, r)

	return st
}

func (st *Statement) newRow(forest *Forest, id string, b *bucket) Row {
	row := Row{
		CategoryID:  id,
		Type:        b.typ,
		Amount:      b.amount,
		Count:       b.count,
		Display:     Scale(b.amount, st.Display, st.Range),
		PctOfIncome: ratio(b.amount, st.TotalIncome),
	}

	if c, ok := forest.Get(id); ok {
		row.Name = c.Name
		row.Depth = forest.Depth(id)
	} else {
		row.Unmapped = true
		row.Name = UnmappedExpenseName
		if b.typ == model.CategoryTypeIncome {
			row.Name = UnmappedIncomeName
		}
	}

	if b.typ == model.CategoryTypeExpense {
		row.PctOfExpenses = ratio(b.amount.Abs(), st.AbsExpenses)
	}
	return row
}

// orderedIDs returns bucket ids in forest display order, followed by any
// bucket the walk did not reach, then the synthetic buckets.
func orderedIDs(forest *Forest, buckets map[string]*bucket) []string {
	ids := make([]string, 0, len(buckets))
	seen := make(map[string]bool, len(buckets))

	forest.Walk(func(c model.Category, _ int) {
		if _, ok := buckets[c.ID]; ok {
			ids = append(ids, c.ID)
			seen[c.ID] = true
		}
	})

	var rest []string
	for id := range buckets {
		if !seen[id] && id != UnmappedIncomeID && id != UnmappedExpenseID {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	ids = append(ids, rest...)

	for _, id := range []string{UnmappedIncomeID, UnmappedExpenseID} {
		if _, ok := buckets[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func unmappedID(typ model.CategoryType) string {
	if typ == model.CategoryTypeIncome {
		return UnmappedIncomeID
	}
	return UnmappedExpenseID
}

// ratio divides n by d, returning zero when d is zero.
func ratio(n, d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return n.Div(d)
}
