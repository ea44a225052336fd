package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/sitepulse/internal/model"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat parses a user-supplied format name. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// FileName returns the default export file name for the format at t.
func (f Format) FileName(t time.Time) string {
	return "sitepulse-history-" + t.UTC().Format("2006-01-02") + "." + string(f)
}

// JSON writes v indented by two spaces.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// HistoryRecords flattens history entries into CSV rows, one per entry,
// with the four category scores as separate columns.
func HistoryRecords(entries []model.HistoryEntry) []Record {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, Record{
			{Name: "id", Value: e.ID},
			{Name: "url", Value: e.URL},
			{Name: "timestamp", Value: e.Timestamp},
			{Name: "overallScore", Value: strconv.Itoa(e.OverallScore)},
			{Name: "performance", Value: strconv.Itoa(e.Scores.Performance)},
			{Name: "accessibility", Value: strconv.Itoa(e.Scores.Accessibility)},
			{Name: "bestPractices", Value: strconv.Itoa(e.Scores.BestPractices)},
			{Name: "seo", Value: strconv.Itoa(e.Scores.SEO)},
		})
	}
	return records
}

// History encodes entries in format f.
func History(w io.Writer, f Format, entries []model.HistoryEntry) error {
	switch f {
	case FormatCSV:
		return CSV(w, HistoryRecords(entries))
	case FormatJSON:
		if entries == nil {
			entries = []model.HistoryEntry{}
		}
		return JSON(w, entries)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// EncodeHistory is History into a byte slice.
func EncodeHistory(f Format, entries []model.HistoryEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := History(&buf, f, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
