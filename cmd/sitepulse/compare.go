package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/sitepulse/internal/report"
	"github.com/spf13/cobra"
)

// errEntryNotFound is returned when a compared history id does not exist.
var errEntryNotFound = errors.New("history entry not found (use 'sitepulse history' to list ids)")

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <id-a> <id-b>",
		Short: "Compare two saved analyses",
		Long: `Compare shows the category scores of two saved analyses side by side,
with the difference A minus B for each category.

Examples:
  # Compare two history entries
  sitepulse compare 3f1c... 9ab2...

  # Output the comparison as Markdown
  sitepulse compare --markdown 3f1c... 9ab2...`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	f, err := reportFormatFlags(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	comparison, err := a.history.Compare(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if comparison == nil {
		return errEntryNotFound
	}

	out := cmd.OutOrStdout()
	if _, err := report.NewWriter(f, out).WriteComparison(comparison); err != nil {
		return err
	}
	if f != report.FormatJSON {
		_, err = io.WriteString(out, "\n")
	}
	return err
}

// reportFormatFlags maps --json and --markdown to a report format.
func reportFormatFlags(cmd *cobra.Command) (report.Format, error) {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return "", err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return "", err
	}
	switch {
	case jsonOutput && markdownOutput:
		return "", fmt.Errorf("--json and --markdown cannot be used together")
	case jsonOutput:
		return report.FormatJSON, nil
	case markdownOutput:
		return report.FormatMarkdown, nil
	default:
		return report.FormatText, nil
	}
}
