// Package report renders analysis results and comparisons.
//
// Render produces the canonical plain-text health report. The writers wrap
// it and its siblings behind one interface:
//   - TextWriter: the plain-text report, for terminals and clipboards
//   - MarkdownWriter: tables, a score alert and an audit-impact pie chart
//   - JSONWriter: the result itself, for tool integration
//
// Writers implement Writer so callers can pick one by Format and compose
// several with MultiWriter.
package report
