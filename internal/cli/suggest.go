package cli

import (
	"io"

	"mixwise-api/internal/core/cocktail"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	var flags matchFlags
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank ingredients by how many recipes they unlock",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := flags.report(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.output != outputTable {
				return writeStructured(out, flags.output, report.Suggestions)
			}
			writeSuggestTable(out, report.Suggestions)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func writeSuggestTable(w io.Writer, suggestions []cocktail.Suggestion) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Ingredient", "Score", "Completes", "Advances"})
	for i, s := range suggestions {
		t.AppendRow(table.Row{i + 1, s.Name, s.UnlockScore, s.UnlocksAtMissing1, s.UnlocksAtMissing2})
	}
	t.SetColumnConfigs(rightAligned(1, 3, 4, 5))
	t.Render()
}
