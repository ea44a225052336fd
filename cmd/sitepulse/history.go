package main

import (
	"fmt"
	"io"
	"time"

	"github.com/nao1215/sitepulse/internal/format"
	"github.com/nao1215/sitepulse/internal/model"
	"github.com/nao1215/sitepulse/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved analyses",
		Long: `History lists the analyses saved with 'sitepulse analyze --save',
newest first. At most 50 entries are kept.

Examples:
  # Show the saved analyses
  sitepulse history

  # Show the five most recent as JSON
  sitepulse history --limit 5 --json

  # Delete all saved analyses
  sitepulse history --clear`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output history in JSON format")
	cmd.Flags().IntP("limit", "n", 0, "Show at most this many entries (0 = all)")
	cmd.Flags().Bool("clear", false, "Delete all saved analyses")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	clearAll, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if clearAll {
		if err := a.history.Clear(ctx); err != nil {
			return err
		}
		a.notifier.Success("History cleared")
		return nil
	}

	entries, err := a.history.List(ctx)
	if err != nil {
		return err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(entries)
		return err
	}
	return writeHistoryTable(out, entries, time.Now())
}

// writeHistoryTable prints entries as a table with relative timestamps.
func writeHistoryTable(w io.Writer, entries []model.HistoryEntry, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No saved analyses. Run 'sitepulse analyze --save <url>' to add one.")
		return err
	}

	tbl := format.NewTable(format.ASCII)
	tbl.Header("ID", "URL", "Overall", "Perf", "A11y", "Best Pr.", "SEO", "Analyzed")
	var total int
	for _, e := range entries {
		total += e.OverallScore
		when := e.Timestamp
		if t, err := format.ParseTimestamp(e.Timestamp); err == nil {
			when = format.TimeAgo(t, now)
		}
		tbl.Row(e.ID, e.URL, e.OverallScore,
			e.Scores.Performance, e.Scores.Accessibility, e.Scores.BestPractices, e.Scores.SEO,
			when)
	}
	tbl.Footer("", format.Int(len(entries))+" entries",
		format.Number(float64(total)/float64(len(entries)), 1), "", "", "", "", "")
	tbl.Columns(
		format.ColumnConfig{Number: 2, MaxWidth: 48},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
		format.ColumnConfig{Number: 6, Align: format.AlignRight},
		format.ColumnConfig{Number: 7, Align: format.AlignRight},
	)
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}
