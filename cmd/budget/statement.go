package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-dashboard/internal/cli"
	"github.com/Veraticus/budget-dashboard/internal/ledger"
	"github.com/Veraticus/budget-dashboard/internal/period"
	"github.com/Veraticus/budget-dashboard/internal/report"
)

func statementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Show the income statement for a period",
		Long: `Resolve the selected period into a calendar range and aggregate the
transactions in it by category.

Periods: thisWeek, thisMonth, thisQuarter, thisYear, lastWeek, lastMonth,
lastQuarter, lastYear, rollingWeek, rollingMonth, rollingQuarter,
rollingYear and custom (with --from and --to).

Examples:
  # Current month of the sample data
  budget statement --sample --today 2025-10-15

  # Last quarter averaged per month, parents including their subcategories
  budget statement --period lastQuarter --display perMonth --rollup

  # A custom range as JSON
  budget statement --period custom --from 2025-01-01 --to 2025-06-30 --format json`,
		Args: cobra.NoArgs,
		RunE: runStatement,
	}

	cmd.Flags().String("period", "thisMonth", "period to report on")
	cmd.Flags().String("from", "", "first day of a custom period (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last day of a custom period (YYYY-MM-DD)")
	cmd.Flags().String("display", "total", "amount scaling (total, perDay, perMonth, perYear)")
	cmd.Flags().Bool("rollup", false, "include subcategory amounts in parent rows")

	bindFlags(cmd, map[string]string{
		"dashboard.period":  "period",
		"dashboard.from":    "from",
		"dashboard.to":      "to",
		"dashboard.display": "display",
		"dashboard.rollup":  "rollup",
	}, false)

	return cmd
}

func runStatement(cmd *cobra.Command, _ []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	snap, err := ws.snapshot(cmd.Context())
	if err != nil {
		return err
	}

	dash := ws.settings.Dashboard
	r := period.Resolve(dash.Filter.Mode, ws.today, dash.Filter.From, dash.Filter.To)
	if r.Normalized {
		slog.Warn("Period selection replaced by a fallback", "requested", dash.Filter.Mode, "label", r.Label)
	}

	st := ledger.Aggregate(snap.Transactions, snap.Categories, r, ledger.Options{
		Display:           dash.Display,
		RollUpToAncestors: dash.RollUp,
	})
	slog.Debug("aggregated statement",
		"from", r.FromISO(), "to", r.ToISO(),
		"transactions", st.Transactions, "skipped", st.Skipped)

	if ws.jsonOutput() {
		return report.WriteJSON(ws.out, st)
	}
	if len(snap.Transactions) == 0 {
		fmt.Fprintln(ws.errOut, cli.FormatInfo("No transactions loaded. Use --sample or --transactions."))
	}
	return report.RenderStatement(ws.out, st, ws.renderOptions())
}
