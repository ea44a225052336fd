package export

import (
	"bufio"
	"io"
	"strings"
)

// Field is one named cell of a Record.
type Field struct {
	Name  string
	Value string
}

// Record is an ordered row of named cells.
type Record []Field

// Get returns the value of the named field, or "" when absent.
func (r Record) Get(name string) string {
	for _, f := range r {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// CSV writes records as comma-separated values. The header row is the
// field names of the first record, unquoted. Every data cell is quoted and
// embedded quotes are doubled. Rows are joined with "\n" and the output has
// no trailing newline. An empty slice writes nothing.
func CSV(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	header := make([]string, len(records[0]))
	for i, f := range records[0] {
		header[i] = f.Name
	}

	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(strings.Join(header, ","))

	cells := make([]string, len(header))
	for _, r := range records {
		for i, name := range header {
			cells[i] = quote(r.Get(name))
		}
		_, _ = bw.WriteString("\n")
		_, _ = bw.WriteString(strings.Join(cells, ","))
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
