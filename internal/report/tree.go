package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/budget-dashboard/internal/cli"
	"github.com/Veraticus/budget-dashboard/internal/ledger"
	"github.com/Veraticus/budget-dashboard/internal/model"
)

// RenderTree writes the category forest as an indented outline, one
// category per line with its type and id.
func RenderTree(w io.Writer, categories []model.Category, opts Options) error {
	if len(categories) == 0 {
		_, err := fmt.Fprintln(w, opts.paint(cli.InfoStyle, "No categories defined."))
		return err
	}

	forest := ledger.NewForest(categories)
	var b strings.Builder
	forest.Walk(func(c model.Category, depth int) {
		style := cli.ExpenseStyle
		if c.Type == model.CategoryTypeIncome {
			style = cli.IncomeStyle
		}
		fmt.Fprintf(&b, "%s%s %s %s\n",
			strings.Repeat("  ", depth),
			c.Name,
			opts.paint(style, "("+string(c.Type)+")"),
			opts.paint(cli.SubtleStyle, "["+c.ID+"]"))
	})

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write category tree: %w", err)
	}
	return nil
}
