package cli

import (
	"errors"
	"fmt"
	"io"

	"mixwise-api/internal/core/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// ErrValidationFailed 目錄含有驗證錯誤
var ErrValidationFailed = errors.New("catalog validation failed")

func newValidateCmd() *cobra.Command {
	var (
		flags  catalogFlags
		output string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check recipe slugs and ingredient lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			doc, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			report := catalog.Validate(doc)

			out := cmd.OutOrStdout()
			if output == outputTable {
				writeValidateTable(out, report)
			} else if err := writeStructured(out, output, report); err != nil {
				return err
			}

			if !report.OK() || (strict && report.Warnings() > 0) {
				return fmt.Errorf("%w: %d errors, %d warnings", ErrValidationFailed, report.Errors(), report.Warnings())
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&output, "output", outputTable, "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")
	return cmd
}

func writeValidateTable(w io.Writer, report catalog.Report) {
	if len(report.Issues) > 0 {
		t := newTable(w)
		t.AppendHeader(table.Row{"Severity", "Recipe", "Line", "Message"})
		for _, issue := range report.Issues {
			line := ""
			if issue.Line > 0 {
				line = fmt.Sprint(issue.Line)
			}
			t.AppendRow(table.Row{issue.Severity, issue.Recipe, line, issue.Message})
		}
		t.SetColumnConfigs(rightAligned(3))
		t.Render()
	}

	fmt.Fprintf(w, "Recipes:      %d\n", report.Recipes)
	fmt.Fprintf(w, "Lines:        %d\n", report.Lines)
	fmt.Fprintf(w, "Unique slugs: %d\n", report.UniqueSlugs)
	fmt.Fprintf(w, "Errors:       %d\n", report.Errors())
	fmt.Fprintf(w, "Warnings:     %d\n", report.Warnings())
}
