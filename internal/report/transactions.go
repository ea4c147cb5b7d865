package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/budget-dashboard/internal/cli"
	"github.com/Veraticus/budget-dashboard/internal/ledger"
	"github.com/Veraticus/budget-dashboard/internal/model"
)

// RenderTransactions writes txs as a table. Category ids are shown as their
// full path; ids that no longer resolve are shown as is.
func RenderTransactions(w io.Writer, txs []model.Transaction, categories []model.Category, opts Options) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, opts.paint(cli.InfoStyle, "No transactions match."))
		return err
	}

	forest := ledger.NewForest(categories)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeRow(tw, opts.headerCells([]string{"ID", "DATE", "DESCRIPTION", "AMOUNT", "CATEGORY", "ACCOUNT", "LABELS"}))

	for _, tx := range txs {
		amountStyle := cli.ExpenseStyle
		if tx.IsIncomeLike() {
			amountStyle = cli.IncomeStyle
		}

		category := forest.Path(tx.CategoryID)
		switch {
		case tx.CategoryID == "":
			category = opts.paint(cli.SubtleStyle, "-")
		case category == "":
			category = tx.CategoryID
		}

		writeRow(tw, []string{
			fmt.Sprint(tx.ID),
			tx.Date,
			tx.Description,
			opts.paint(amountStyle, FormatAmount(tx.Amount)),
			category,
			tx.Account,
			strings.Join(tx.Labels, ", "),
		})
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render transactions: %w", err)
	}
	return nil
}
