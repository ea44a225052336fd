// Package format holds presentation helpers shared by the CLI, the reports
// and the HTTP API: terminal and Markdown tables, dates, relative times,
// grouped numbers and score deltas.
package format
