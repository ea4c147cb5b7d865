package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-dashboard/internal/cli"
	"github.com/Veraticus/budget-dashboard/internal/common"
	"github.com/Veraticus/budget-dashboard/internal/importer"
	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/report"
	"github.com/Veraticus/budget-dashboard/internal/txquery"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List and edit transactions",
		Long: `List transactions with filters and sorting, and recategorise, label or
delete them. Edits apply to the data loaded for this run; each edit prints
the resulting list.`,
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(recategorizeCmd())
	cmd.AddCommand(labelCmd())
	cmd.AddCommand(deleteTransactionsCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long: `List transactions, newest first by default.

Examples:
  # Card spending over 100 in October, largest first
  budget tx list --account Card --amount lt --max -100 \
    --date between --date-from 2025-10-01 --date-to 2025-10-31 --sort amount --asc

  # Everything labelled food mentioning "delivery"
  budget tx list --label food --search delivery`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := queryFromFlags(cmd)
			if err != nil {
				return err
			}
			ws, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.renderTransactions(cmd, q)
		},
	}

	f := cmd.Flags()
	f.String("search", "", "text to find in description, note, account, category or labels")
	f.String("category", "", "category id")
	f.String("label", "", "label text (case-insensitive)")
	f.String("account", "", "account name")
	f.String("date", string(txquery.DateAny), "date filter (any, on, before, after, between)")
	f.String("date-from", "", "date filter start (YYYY-MM-DD)")
	f.String("date-to", "", "date filter end (YYYY-MM-DD)")
	f.String("amount", string(txquery.AmountAny), "amount filter (any, gt, lt, eq, between)")
	f.String("min", "", "lower amount bound, used by gt, eq and between")
	f.String("max", "", "upper amount bound, used by lt and between")
	f.String("sort", string(txquery.SortDate), "sort field (date, description, amount, category, account)")
	f.Bool("asc", false, "sort ascending")

	return cmd
}

// queryFromFlags builds a txquery.Query from the list flags. Unknown flags
// of other commands read as empty values.
func queryFromFlags(cmd *cobra.Command) (txquery.Query, error) {
	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return strings.TrimSpace(v)
	}
	asc, _ := cmd.Flags().GetBool("asc")

	q := txquery.Query{
		Search:     str("search"),
		CategoryID: str("category"),
		Label:      str("label"),
		Account:    str("account"),
		DateMode:   txquery.DateMode(str("date")),
		DateFrom:   str("date-from"),
		DateTo:     str("date-to"),
		AmountMode: txquery.AmountMode(str("amount")),
		SortBy:     txquery.SortField(str("sort")),
		Ascending:  asc,
	}

	for name, dst := range map[string]**decimal.Decimal{"min": &q.Min, "max": &q.Max} {
		raw := str(name)
		if raw == "" {
			continue
		}
		d, err := importer.ParseAmount(raw)
		if err != nil {
			return txquery.Query{}, common.NewUserError(fmt.Sprintf("Invalid --%s amount", name), err)
		}
		*dst = &d
	}

	if err := q.Validate(); err != nil {
		return txquery.Query{}, common.NewUserError("Invalid filter", err)
	}
	return q, nil
}

func (ws *workspace) renderTransactions(cmd *cobra.Command, q txquery.Query) error {
	snap, err := ws.snapshot(cmd.Context())
	if err != nil {
		return err
	}
	txs := txquery.Apply(snap.Transactions, snap.Categories, q)

	if ws.jsonOutput() {
		if txs == nil {
			txs = []model.Transaction{}
		}
		return writeJSON(ws.out, txs)
	}
	return report.RenderTransactions(ws.out, txs, snap.Categories, ws.renderOptions())
}

func recategorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recategorize <category-id> <id>...",
		Short: "Move transactions to a category",
		Long: `Move transactions to a category. Use --clear instead of a category id to
make them uncategorised.`,
		Args: func(cmd *cobra.Command, args []string) error {
			clearCategory, _ := cmd.Flags().GetBool("clear")
			if clearCategory {
				return cobra.MinimumNArgs(1)(cmd, args)
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID := ""
			if clearCategory, _ := cmd.Flags().GetBool("clear"); !clearCategory {
				categoryID, args = args[0], args[1:]
			}
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			n, err := ws.store.Recategorize(cmd.Context(), ids, categoryID)
			if err != nil {
				return common.NewUserError("Could not recategorise", err)
			}
			fmt.Fprintln(ws.errOut, cli.FormatSuccess(fmt.Sprintf("Updated %d transaction(s)", n)))
			return ws.renderTransactions(cmd, txquery.Query{})
		},
	}

	cmd.Flags().Bool("clear", false, "remove the category instead of setting one")

	return cmd
}

func labelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label <labels> <id>...",
		Short: "Add labels to transactions",
		Long:  `Add comma or semicolon separated labels to transactions. Labels already present are kept once.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			labels := importer.SplitLabels(args[0])
			if len(labels) == 0 {
				return common.NewUserError("No labels given", nil)
			}
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			n, err := ws.store.ApplyLabels(cmd.Context(), ids, labels)
			if err != nil {
				return common.NewUserError("Could not label transactions", err)
			}
			fmt.Fprintln(ws.errOut, cli.FormatSuccess(fmt.Sprintf("Labelled %d transaction(s)", n)))
			return ws.renderTransactions(cmd, txquery.Query{})
		},
	}
}

func deleteTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), ws.errOut,
					fmt.Sprintf("Delete %d transaction(s)?", len(ids)))
				if err != nil {
					if errors.Is(err, cli.ErrInputCancelled) {
						return common.ErrAborted
					}
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if !ok {
					fmt.Fprintln(ws.errOut, cli.FormatInfo("Nothing deleted."))
					return nil
				}
			}

			n, err := ws.store.DeleteTransactions(ctx, ids...)
			if err != nil {
				return common.NewUserError("Could not delete transactions", err)
			}
			fmt.Fprintln(ws.errOut, cli.FormatSuccess(fmt.Sprintf("Deleted %d transaction(s)", n)))
			return ws.renderTransactions(cmd, txquery.Query{})
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil || id <= 0 {
				return nil, common.NewUserError(fmt.Sprintf("Invalid transaction id %q", part), err)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, common.NewUserError("No transaction ids given", nil)
	}
	return ids, nil
}
