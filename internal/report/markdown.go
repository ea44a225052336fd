package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sitepulse/internal/format"
	"github.com/nao1215/sitepulse/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavoured Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output, opts...)}
}

// Write outputs the analysis result in Markdown format.
func (w *MarkdownWriter) Write(result *model.AnalysisResult) (int, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	w.writeHeader(md, result)
	w.writeScores(md, result)
	w.writeVitals(md, result)
	w.writeImpactChart(md, result)
	w.writeOpportunities(md, result)
	w.writePassed(md, result)
	w.writeFooter(md)

	return w.flush(md, &buf)
}

// flush builds md into buf and copies it to the output, returning the
// number of bytes written to the output.
func (w *MarkdownWriter) flush(md *markdown.Markdown, buf *bytes.Buffer) (int, error) {
	if err := md.Build(); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.AnalysisResult) {
	md.H1("Website Health Report")
	md.PlainText("")

	source := "Live measurement"
	if result.Simulated {
		source = "Simulated"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + result.URL + "`"},
			{"Generated", format.Date(w.now(), format.DateFull)},
			{"Captured", result.Timestamp},
			{"Overall Score", "**" + format.Score(result.OverallScore()) + "**"},
			{"Data Source", source},
		},
	})
	md.PlainText("")

	w.writeAlert(md, result)
}

// writeAlert writes an alert matching the overall score.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.AnalysisResult) {
	overall := result.OverallScore()
	switch {
	case overall >= 90:
		md.Tip(fmt.Sprintf("Overall score %d/100: the site is in good health.", overall))
	case overall >= 50:
		md.Warningf("Overall score %d/100: %d opportunity(ies) need attention.", overall, len(result.Opportunities()))
	default:
		md.Cautionf("Overall score %d/100: the site needs significant work.", overall)
	}
	md.PlainText("")

	if result.Simulated {
		md.Note("These numbers were simulated because no live measurement was available.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeScores(md *markdown.Markdown, result *model.AnalysisResult) {
	md.H2("Scores")
	md.PlainText("")

	s := result.Scores
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Score", "Rating"},
		Rows: [][]string{
			{"Performance", strconv.Itoa(s.Performance), format.Grade(s.Performance)},
			{"Accessibility", strconv.Itoa(s.Accessibility), format.Grade(s.Accessibility)},
			{"Best Practices", strconv.Itoa(s.BestPractices), format.Grade(s.BestPractices)},
			{"SEO", strconv.Itoa(s.SEO), format.Grade(s.SEO)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeVitals(md *markdown.Markdown, result *model.AnalysisResult) {
	md.H2("Core Web Vitals")
	md.PlainText("")

	m := result.Metrics
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"First Contentful Paint", orDash(m.FCP)},
			{"Largest Contentful Paint", orDash(m.LCP)},
			{"Cumulative Layout Shift", orDash(m.CLS)},
			{"Total Blocking Time", orDash(m.TBT)},
			{"Speed Index", orDash(m.SI)},
		},
	})
	md.PlainText("")
}

// writeImpactChart writes a mermaid pie chart of audit impacts.
func (w *MarkdownWriter) writeImpactChart(md *markdown.Markdown, result *model.AnalysisResult) {
	if len(result.Audits) == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Audit Impact Distribution"),
		piechart.WithShowData(true),
	)

	counts := result.ImpactCounts()
	for _, impact := range []model.Impact{model.ImpactFail, model.ImpactWarning, model.ImpactPass, model.ImpactInfo} {
		if n := counts[impact]; n > 0 {
			chart.LabelAndIntValue(format.Label(impact.String()), uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeOpportunities(md *markdown.Markdown, result *model.AnalysisResult) {
	md.H2("Opportunities")
	md.PlainText("")

	opportunities := result.Opportunities()
	if len(opportunities) == 0 {
		md.PlainText("No opportunities found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(opportunities))
	for i, a := range opportunities {
		value := a.DisplayValue
		if value == "" {
			value = needsAttention
		}
		rows[i] = []string{a.Title, value, impactBadge(a.Impact)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Audit", "Details", "Impact"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, a := range opportunities {
		if a.Description != "" {
			md.Details(a.Title, a.Description)
		}
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePassed(md *markdown.Markdown, result *model.AnalysisResult) {
	md.H2("Passed Audits")
	md.PlainText("")

	passed := result.Passed()
	if len(passed) == 0 {
		md.PlainText("No audits passed.")
		md.PlainText("")
		return
	}

	titles := make([]string, len(passed))
	for i, a := range passed {
		titles[i] = a.Title
	}
	md.BulletList(titles...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [SitePulse](https://github.com/nao1215/sitepulse)*")
}

// WriteComparison outputs a comparison in Markdown format.
func (w *MarkdownWriter) WriteComparison(c *model.Comparison) (int, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)
	a, b := c.Sites[0], c.Sites[1]

	md.H1("Site Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Side", "Site", "Captured", "Overall"},
		Rows: [][]string{
			{"A", "`" + a.URL + "`", a.Timestamp, strconv.Itoa(a.OverallScore)},
			{"B", "`" + b.URL + "`", b.Timestamp, strconv.Itoa(b.OverallScore)},
		},
	})
	md.PlainText("")

	rows := make([][]string, 0, 5)
	for _, r := range comparisonRows(c) {
		rows = append(rows, []string{r.label, strconv.Itoa(r.a), strconv.Itoa(r.b), format.Delta(r.diff)})
	}
	rows = append(rows, []string{
		"**Overall**",
		strconv.Itoa(a.OverallScore),
		strconv.Itoa(b.OverallScore),
		format.Delta(c.OverallDifference()),
	})

	md.H2("Scores")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Category", "A", "B", "Difference"},
		Rows:   rows,
	})
	md.PlainText("")

	switch d := c.OverallDifference(); {
	case d > 0:
		md.Note(fmt.Sprintf("A scores %d point(s) higher overall.", d))
	case d < 0:
		md.Note(fmt.Sprintf("B scores %d point(s) higher overall.", -d))
	default:
		md.Note("Both sites have the same overall score.")
	}
	md.PlainText("")

	return w.flush(md, &buf)
}

func impactBadge(i model.Impact) string {
	switch i {
	case model.ImpactFail:
		return "🔴 Fail"
	case model.ImpactWarning:
		return "🟠 Warning"
	case model.ImpactPass:
		return "🟢 Pass"
	default:
		return "⚪ Info"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
