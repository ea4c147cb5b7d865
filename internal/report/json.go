package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-dashboard/internal/ledger"
	"github.com/Veraticus/budget-dashboard/internal/model"
)

type statementJSON struct {
	Period   periodJSON        `json:"period"`
	Display  model.DisplayMode `json:"display"`
	RollUp   bool              `json:"rollUp"`
	Totals   totalsJSON        `json:"totals"`
	Scaled   scaledJSON        `json:"displayTotals"`
	Income   []rowJSON         `json:"income"`
	Expenses []rowJSON         `json:"expenses"`
	Count    int               `json:"transactions"`
	Skipped  int               `json:"skipped"`
}

type periodJSON struct {
	Mode          model.PeriodMode `json:"mode"`
	Label         string           `json:"label"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	MonthsInRange decimal.Decimal  `json:"monthsInRange"`
	Days          int              `json:"days"`
	Normalized    bool             `json:"normalized"`
}

type totalsJSON struct {
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Net         decimal.Decimal `json:"net"`
	SavingRate  decimal.Decimal `json:"savingRate"`
	AbsExpenses decimal.Decimal `json:"absExpenses"`
}

type scaledJSON struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type rowJSON struct {
	CategoryID    string          `json:"categoryId"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Display       decimal.Decimal `json:"display"`
	PctOfIncome   decimal.Decimal `json:"pctOfIncome"`
	PctOfExpenses decimal.Decimal `json:"pctOfExpenses"`
	Depth         int             `json:"depth"`
	Count         int             `json:"count"`
	Unmapped      bool            `json:"unmapped,omitempty"`
}

// WriteJSON encodes st as indented JSON. Amounts are decimal strings so no
// precision is lost.
func WriteJSON(w io.Writer, st ledger.Statement) error {
	out := statementJSON{
		Period: periodJSON{
			Mode:          st.Range.Mode,
			Label:         st.Range.Label,
			From:          st.Range.FromISO(),
			To:            st.Range.ToISO(),
			MonthsInRange: st.Range.MonthsInRange,
			Days:          st.Range.Days(),
			Normalized:    st.Range.Normalized,
		},
		Display: st.Display,
		RollUp:  st.RollUp,
		Totals: totalsJSON{
			Income:      st.TotalIncome,
			Expenses:    st.TotalExpenses,
			Net:         st.Net,
			SavingRate:  st.SavingRate,
			AbsExpenses: st.AbsExpenses,
		},
		Scaled: scaledJSON{
			Income:   st.DisplayIncome,
			Expenses: st.DisplayExpenses,
			Net:      st.DisplayNet,
		},
		Income:   rowsJSON(st.IncomeRows),
		Expenses: rowsJSON(st.ExpenseRows),
		Count:    st.Transactions,
		Skipped:  st.Skipped,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode statement: %w", err)
	}
	return nil
}

func rowsJSON(rows []ledger.Row) []rowJSON {
	out := make([]rowJSON, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowJSON{
			CategoryID:    r.CategoryID,
			Name:          r.Name,
			Amount:        r.Amount,
			Display:       r.Display,
			PctOfIncome:   r.PctOfIncome,
			PctOfExpenses: r.PctOfExpenses,
			Depth:         r.Depth,
			Count:         r.Count,
			Unmapped:      r.Unmapped,
		})
	}
	return out
}
