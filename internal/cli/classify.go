package cli

import (
	"fmt"
	"io"
	"strings"

	"mixwise-api/internal/core/cocktail"
	"mixwise-api/internal/core/matching"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	var flags matchFlags
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Group recipes into ready, almost there and far",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := flags.report(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.output != outputTable {
				return writeStructured(out, flags.output, report)
			}
			writeClassifyTable(out, report)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func writeClassifyTable(w io.Writer, report *cocktail.Report) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Tier", "Recipe", "Covered", "Missing"})
	appendTier(t, "ready", report.Ready)
	appendTier(t, "almost there", report.AlmostThere)
	appendTier(t, "far", report.Far)
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d recipes", len(report.Ready)+len(report.AlmostThere)+len(report.Far)), "", ""})
	t.SetColumnConfigs(rightAligned(3))
	t.Render()
}

func appendTier(t table.Writer, tier string, results []matching.MatchResult) {
	for _, r := range results {
		t.AppendRow(table.Row{
			tier,
			r.Recipe.Name,
			fmt.Sprintf("%d/%d", r.RequiredCovered, r.RequiredTotal),
			strings.Join(r.MissingRequiredNames, ", "),
		})
	}
}
