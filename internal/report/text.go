package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/sitepulse/internal/format"
	"github.com/nao1215/sitepulse/internal/model"
)

// needsAttention is shown for opportunities without a display value.
const needsAttention = "Needs attention"

// Render returns the plain-text health report for result, stamped with
// generatedAt in its own location.
func Render(result *model.AnalysisResult, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("WEBSITE HEALTH REPORT\n")
	sb.WriteString("=====================\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", format.Date(generatedAt, format.DateFull))

	fmt.Fprintf(&sb, "URL: %s\n", result.URL)
	fmt.Fprintf(&sb, "Overall Score: %d/100\n\n", result.OverallScore())

	sb.WriteString("SCORES\n------\n")
	fmt.Fprintf(&sb, "Performance: %d/100\n", result.Scores.Performance)
	fmt.Fprintf(&sb, "Accessibility: %d/100\n", result.Scores.Accessibility)
	fmt.Fprintf(&sb, "Best Practices: %d/100\n", result.Scores.BestPractices)
	fmt.Fprintf(&sb, "SEO: %d/100\n\n", result.Scores.SEO)

	sb.WriteString("CORE WEB VITALS\n---------------\n")
	fmt.Fprintf(&sb, "First Contentful Paint: %s\n", result.Metrics.FCP)
	fmt.Fprintf(&sb, "Largest Contentful Paint: %s\n", result.Metrics.LCP)
	fmt.Fprintf(&sb, "Cumulative Layout Shift: %s\n", result.Metrics.CLS)
	fmt.Fprintf(&sb, "Total Blocking Time: %s\n", result.Metrics.TBT)
	fmt.Fprintf(&sb, "Speed Index: %s\n\n", result.Metrics.SI)

	opportunities := result.Opportunities()
	lines := make([]string, len(opportunities))
	for i, a := range opportunities {
		value := a.DisplayValue
		if value == "" {
			value = needsAttention
		}
		lines[i] = fmt.Sprintf("• %s: %s", a.Title, value)
	}
	sb.WriteString("OPPORTUNITIES\n-------------\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\n")

	passed := result.Passed()
	lines = make([]string, len(passed))
	for i, a := range passed {
		lines[i] = "✓ " + a.Title
	}
	sb.WriteString("PASSED AUDITS\n-------------\n")
	sb.WriteString(strings.Join(lines, "\n"))

	return strings.TrimSpace(sb.String())
}

// TextWriter outputs the plain-text report.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...Option) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output, opts...)}
}

// Write outputs the report followed by a newline.
func (w *TextWriter) Write(result *model.AnalysisResult) (int, error) {
	return io.WriteString(w.output, Render(result, w.now())+"\n")
}

// WriteComparison outputs a side-by-side table of two history entries.
func (w *TextWriter) WriteComparison(c *model.Comparison) (int, error) {
	return io.WriteString(w.output, RenderComparison(c))
}

// RenderComparison returns the plain-text comparison of c.
func RenderComparison(c *model.Comparison) string {
	a, b := c.Sites[0], c.Sites[1]

	var sb strings.Builder
	sb.WriteString("SITE COMPARISON\n")
	sb.WriteString("===============\n")
	fmt.Fprintf(&sb, "A: %s (%s)\n", a.URL, a.Timestamp)
	fmt.Fprintf(&sb, "B: %s (%s)\n\n", b.URL, b.Timestamp)

	tbl := format.NewTable(format.ASCII)
	tbl.Header("Category", "A", "B", "Difference")
	for _, row := range comparisonRows(c) {
		tbl.Row(row.label, row.a, row.b, format.Delta(row.diff))
	}
	tbl.Footer("Overall", a.OverallScore, b.OverallScore, format.Delta(c.OverallDifference()))
	tbl.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
	)
	sb.WriteString(tbl.String())
	sb.WriteString("\n")
	return sb.String()
}

type comparisonRow struct {
	label string
	a, b  int
	diff  int
}

func comparisonRows(c *model.Comparison) []comparisonRow {
	a, b := c.Sites[0].Scores, c.Sites[1].Scores
	d := c.Differences
	return []comparisonRow{
		{"Performance", a.Performance, b.Performance, d.Performance},
		{"Accessibility", a.Accessibility, b.Accessibility, d.Accessibility},
		{"Best Practices", a.BestPractices, b.BestPractices, d.BestPractices},
		{"SEO", a.SEO, b.SEO, d.SEO},
	}
}
