package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-dashboard/internal/cli"
	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/period"
)

type periodJSON struct {
	Mode          model.PeriodMode `json:"mode"`
	Label         string           `json:"label"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	MonthsInRange string           `json:"monthsInRange"`
	Days          int              `json:"days"`
}

func periodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "List every period and the range it resolves to today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}

			var ranges []period.Range
			for _, mode := range model.AllPeriodModes() {
				if mode == model.PeriodCustom {
					continue
				}
				ranges = append(ranges, period.Resolve(mode, ws.today, "", ""))
			}

			if ws.jsonOutput() {
				out := make([]periodJSON, 0, len(ranges))
				for _, r := range ranges {
					out = append(out, periodJSON{
						Mode:          r.Mode,
						Label:         r.Label,
						From:          r.FromISO(),
						To:            r.ToISO(),
						MonthsInRange: r.MonthsInRange.String(),
						Days:          r.Days(),
					})
				}
				return writeJSON(ws.out, out)
			}

			w := tabwriter.NewWriter(ws.out, 0, 0, 2, ' ', 0)
			header := func(s string) string {
				if ws.settings.Output.Color {
					return cli.TableHeaderStyle.Render(s)
				}
				return s
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				header("MODE"), header("LABEL"), header("FROM"), header("TO"), header("DAYS"), header("MONTHS"))
			for _, r := range ranges {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					r.Mode, r.Label, r.FromISO(), r.ToISO(), r.Days(), r.MonthsInRange.StringFixed(2))
			}
			return w.Flush()
		},
	}
}
