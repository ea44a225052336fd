package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/nao1215/sitepulse/internal/analysis"
	"github.com/nao1215/sitepulse/internal/model"
	"github.com/nao1215/sitepulse/internal/report"
	"github.com/spf13/cobra"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [url...]",
		Short: "Analyze one or more websites",
		Long: `Analyze scores each URL for performance, accessibility, best practices
and SEO, and prints a report.

With an API key the PageSpeed Insights API is queried (mobile strategy).
Without one, or when the API request fails, a simulated result derived from
the hostname is shown instead and marked as simulated.

Examples:
  # Analyze a single site
  sitepulse analyze https://example.com

  # Analyze several sites concurrently and save them to history
  sitepulse analyze --save https://example.com https://example.org

  # Read URLs from a file, one per line
  sitepulse analyze --list sites.txt

  # Markdown report written to a file
  sitepulse analyze --markdown -o report.md https://example.com

  # Markdown to a file, plain text on the terminal
  sitepulse analyze --markdown -o report.md --tee https://example.com

  # Copy the text report to the clipboard
  sitepulse analyze --copy https://example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"With --output, also print the text report to stdout")
	cmd.Flags().BoolP("save", "s", false,
		"Save results to history")
	cmd.Flags().Bool("copy", false,
		"Copy the text report to the clipboard")
	cmd.Flags().IntP("concurrency", "n", 0,
		"Number of concurrent analyses (default from config)")
	cmd.Flags().StringP("list", "l", "",
		"File with one URL per line (# starts a comment)")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// analyzeOptions holds the analyze flags.
type analyzeOptions struct {
	format      report.Format
	output      string
	tee         bool
	save        bool
	copy        bool
	concurrency int
	urls        []string
}

func parseAnalyzeOptions(cmd *cobra.Command, args []string) (*analyzeOptions, error) {
	opts := &analyzeOptions{format: report.FormatText}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	mdOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	switch {
	case jsonOut:
		opts.format = report.FormatJSON
	case mdOut:
		opts.format = report.FormatMarkdown
	}

	if opts.output, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if opts.tee, err = cmd.Flags().GetBool("tee"); err != nil {
		return nil, err
	}
	if opts.tee && opts.output == "" {
		return nil, errors.New("--tee requires --output")
	}
	if opts.save, err = cmd.Flags().GetBool("save"); err != nil {
		return nil, err
	}
	if opts.copy, err = cmd.Flags().GetBool("copy"); err != nil {
		return nil, err
	}
	if opts.concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, err
	}

	opts.urls = append(opts.urls, args...)
	listFile, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listFile != "" {
		fromFile, err := readURLList(listFile)
		if err != nil {
			return nil, err
		}
		opts.urls = append(opts.urls, fromFile...)
	}

	if len(opts.urls) == 0 {
		return nil, errors.New("no URLs provided (specify one or more URLs as arguments or use --list)")
	}
	return opts, nil
}

// readURLList reads one URL per line, skipping blank lines and # comments.
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // user-selected list file
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseAnalyzeOptions(cmd, args)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.concurrency > 0 {
		a.cfg.Concurrency = opts.concurrency
		a.service = a.newService()
	}
	if !a.service.LiveEnabled() {
		a.notifier.Warning("No API key configured; showing simulated results")
	}

	ctx := cmd.Context()
	outcomes, err := a.service.AnalyzeBatch(ctx, opts.urls)
	if err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}

	var failed int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			a.notifier.Error("%s: %v", o.URL, o.Err)
		}
	}
	results := analysis.Results(outcomes)

	if err := writeResults(cmd.OutOrStdout(), opts, results); err != nil {
		return err
	}

	if opts.save {
		for _, r := range results {
			entries, err := a.history.Save(ctx, r)
			if err != nil {
				return err
			}
			a.notifier.Success("Saved %s to history (id %s)", r.URL, entries[0].ID)
		}
	}

	if opts.copy && len(results) > 0 {
		copyReports(a, results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(outcomes))
	}
	return nil
}

// writeResults writes the reports to opts.output (or stdout). With --tee the
// text report is printed to stdout as well.
func writeResults(stdout io.Writer, opts *analyzeOptions, results []*model.AnalysisResult) error {
	if len(results) == 0 {
		return nil
	}

	out, closeOut, err := openOutput(opts.output, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	if opts.format == report.FormatJSON {
		jw := report.NewJSONWriter(out, report.WithPrettyPrint())
		if len(results) == 1 {
			_, err = jw.Write(results[0])
		} else {
			_, err = jw.WriteValue(results)
		}
		if err != nil || !opts.tee {
			return err
		}
		return writeReports(stdout, report.NewTextWriter(stdout), results)
	}

	if opts.tee {
		w := report.NewMultiWriter(report.NewWriter(opts.format, out), report.NewTextWriter(stdout))
		return writeReports(io.MultiWriter(out, stdout), w, results)
	}
	return writeReports(out, report.NewWriter(opts.format, out), results)
}

// writeReports writes each result with w, separated by blank lines written
// to sep.
func writeReports(sep io.Writer, w report.Writer, results []*model.AnalysisResult) error {
	for i, r := range results {
		if i > 0 {
			if _, err := io.WriteString(sep, "\n\n"); err != nil {
				return err
			}
		}
		if _, err := w.Write(r); err != nil {
			return err
		}
	}
	_, err := io.WriteString(sep, "\n")
	return err
}

func copyReports(a *app, results []*model.AnalysisResult) {
	now := time.Now()
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = report.Render(r, now)
	}
	if err := copyToClipboard(strings.Join(texts, "\n\n")); err != nil {
		a.notifier.Error("Failed to copy: %v", err)
		return
	}
	a.notifier.Success("Copied to clipboard!")
}
