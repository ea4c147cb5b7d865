package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-dashboard/internal/cli"
	"github.com/Veraticus/budget-dashboard/internal/ledger"
	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/period"
)

var displayLabels = map[model.DisplayMode]string{
	model.DisplayTotal:    "totals",
	model.DisplayPerDay:   "per day",
	model.DisplayPerMonth: "per month",
	model.DisplayPerYear:  "per year",
}

// RenderStatement writes a summary followed by the income and expense
// tables of st.
func RenderStatement(w io.Writer, st ledger.Statement, opts Options) error {
	var b strings.Builder
	writeSummary(&b, st, opts)

	b.WriteString("\n")
	if err := writeIncomeTable(&b, st, opts); err != nil {
		return err
	}
	b.WriteString("\n")
	if err := writeExpenseTable(&b, st, opts); err != nil {
		return err
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write statement: %w", err)
	}
	return nil
}

// PeriodLine describes a resolved range, e.g.
// "This month: 2025-10-01 to 2025-10-31 (31 days)".
func PeriodLine(r period.Range) string {
	label := r.Label
	if r.Mode == model.PeriodCustom && !r.Normalized {
		label = period.Label(model.PeriodCustom)
	}
	return fmt.Sprintf("%s: %s to %s (%d days)", label, r.FromISO(), r.ToISO(), r.Days())
}

func writeSummary(b *strings.Builder, st ledger.Statement, opts Options) {
	b.WriteString(opts.paint(cli.TitleStyle, PeriodLine(st.Range)))
	b.WriteString("\n")

	savingRate := "n/a"
	if !st.TotalIncome.IsZero() {
		savingRate = FormatPercent(st.SavingRate)
	}
	fmt.Fprintf(b, "Income %s  Expenses %s  Net %s  Saving rate %s\n",
		opts.paint(cli.IncomeStyle, FormatAmount(st.DisplayIncome)),
		opts.paint(cli.ExpenseStyle, FormatAmount(st.DisplayExpenses)),
		opts.paint(cli.BoldStyle, FormatAmount(st.DisplayNet)),
		savingRate)

	var notes []string
	if st.Display != "" && st.Display != model.DisplayTotal {
		notes = append(notes, "amounts shown "+displayLabels[st.Display])
	}
	if st.RollUp {
		notes = append(notes, "parents include subcategories")
	}
	if len(notes) > 0 {
		b.WriteString(opts.paint(cli.SubtleStyle, strings.Join(notes, "; ")))
		b.WriteString("\n")
	}
	if st.Skipped > 0 {
		b.WriteString(opts.paint(cli.WarningStyle,
			fmt.Sprintf("%d transaction(s) skipped: unreadable date", st.Skipped)))
		b.WriteString("\n")
	}
}

func writeIncomeTable(b *strings.Builder, st ledger.Statement, opts Options) error {
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	header := []string{"INCOME", "AMOUNT", "% OF INCOME", "COUNT"}
	writeRow(tw, opts.headerCells(header))

	writeRow(tw, []string{
		opts.paint(cli.BoldStyle, "Total income"),
		opts.paint(cli.IncomeStyle, FormatAmount(st.DisplayIncome)),
		percentCell(decimal.NewFromInt(1), st.TotalIncome),
		fmt.Sprint(st.IncomeCount),
	})
	for _, row := range st.IncomeRows {
		writeRow(tw, []string{
			rowLabel(row),
			opts.paint(cli.IncomeStyle, FormatAmount(row.Display)),
			percentCell(row.PctOfIncome, st.TotalIncome),
			fmt.Sprint(row.Count),
		})
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render income table: %w", err)
	}
	return nil
}

func writeExpenseTable(b *strings.Builder, st ledger.Statement, opts Options) error {
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	header := []string{"EXPENSES", "AMOUNT", "% OF EXPENSES", "% OF INCOME", "COUNT"}
	writeRow(tw, opts.headerCells(header))

	writeRow(tw, []string{
		opts.paint(cli.BoldStyle, "Total expenses"),
		opts.paint(cli.ExpenseStyle, FormatAmount(st.DisplayExpenses)),
		percentCell(decimal.NewFromInt(1), st.AbsExpenses),
		percentCell(ratioOf(st.TotalExpenses, st.TotalIncome), st.TotalIncome),
		fmt.Sprint(st.ExpenseCount),
	})
	for _, row := range st.ExpenseRows {
		writeRow(tw, []string{
			rowLabel(row),
			opts.paint(cli.ExpenseStyle, FormatAmount(row.Display)),
			percentCell(row.PctOfExpenses, st.AbsExpenses),
			percentCell(row.PctOfIncome, st.TotalIncome),
			fmt.Sprint(row.Count),
		})
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render expense table: %w", err)
	}
	return nil
}

func (o Options) headerCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = o.paint(cli.TableHeaderStyle, c)
	}
	return out
}

func writeRow(tw *tabwriter.Writer, cells []string) {
	fmt.Fprintln(tw, strings.Join(cells, "\t"))
}

func rowLabel(row ledger.Row) string {
	return strings.Repeat("  ", row.Depth) + row.Name
}

func ratioOf(n, d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return n.Div(d)
}
