package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/sitepulse/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write renders one analysis result.
	Write(result *model.AnalysisResult) (int, error)

	// WriteComparison renders a comparison of two history entries.
	WriteComparison(c *model.Comparison) (int, error)
}

// Format names an output format.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat converts a user-supplied name. "md" is accepted for Markdown
// and the empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// NewWriter returns the writer for f. JSON output is indented.
func NewWriter(f Format, output io.Writer, opts ...Option) Writer {
	switch f {
	case FormatMarkdown:
		return NewMarkdownWriter(output, opts...)
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	default:
		return NewTextWriter(output, opts...)
	}
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all Writers, stopping at the first error.
func (m *MultiWriter) Write(result *model.AnalysisResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteComparison outputs the comparison to all Writers.
func (m *MultiWriter) WriteComparison(c *model.Comparison) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteComparison(c)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Option configures the text and Markdown writers.
type Option func(*baseWriter)

// WithClock sets the clock used for the "Generated" line.
func WithClock(now func() time.Time) Option {
	return func(b *baseWriter) {
		if now != nil {
			b.now = now
		}
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	now    func() time.Time
}

func newBaseWriter(output io.Writer, opts ...Option) baseWriter {
	b := baseWriter{output: output, now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
