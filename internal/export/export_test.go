package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/sitepulse/internal/model"
)

func sampleEntries() []model.HistoryEntry {
	return []model.HistoryEntry{
		{
			ID:           "a1",
			URL:          "https://example.com",
			Scores:       model.Scores{Performance: 63, Accessibility: 73, BestPractices: 68, SEO: 78},
			Timestamp:    "2026-10-18T09:00:00.000Z",
			OverallScore: 71,
		},
		{
			ID:           "b2",
			URL:          `https://example.org/?q="x"`,
			Scores:       model.Scores{Performance: 0, Accessibility: 100, BestPractices: 50, SEO: 90},
			Timestamp:    "2026-10-17T09:00:00.000Z",
			OverallScore: 60,
		},
	}
}

func TestCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []Record
		want    string
	}{
		{name: "empty", records: nil, want: ""},
		{
			name: "quotes every cell",
			records: []Record{
				{{Name: "name", Value: "a,b"}, {Name: "n", Value: "1"}},
				{{Name: "name", Value: `say "hi"`}, {Name: "n", Value: ""}},
			},
			want: "name,n\n\"a,b\",\"1\"\n\"say \"\"hi\"\"\",\"\"",
		},
		{
			name: "header comes from the first record",
			records: []Record{
				{{Name: "a", Value: "1"}},
				{{Name: "b", Value: "2"}, {Name: "a", Value: "3"}},
			},
			want: "a\n\"1\"\n\"3\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := CSV(&buf, tt.records); err != nil {
				t.Fatalf("CSV() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("CSV() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHistoryCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := History(&buf, FormatCSV, sampleEntries()); err != nil {
		t.Fatal(err)
	}

	want := "id,url,timestamp,overallScore,performance,accessibility,bestPractices,seo\n" +
		`"a1","https://example.com","2026-10-18T09:00:00.000Z","71","63","73","68","78"` + "\n" +
		`"b2","https://example.org/?q=""x""","2026-10-17T09:00:00.000Z","60","0","100","50","90"`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("History(csv) mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := History(&buf, FormatJSON, sampleEntries()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  {\n    \"id\": \"a1\"")) {
		t.Errorf("expected two-space indentation, got:\n%s", buf.String())
	}

	var got []model.HistoryEntry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sampleEntries(), got); diff != "" {
		t.Errorf("decoded entries mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := History(&buf, FormatJSON, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("empty history = %q, want []", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatCSV},
		{in: "CSV", want: FormatCSV},
		{in: " json ", want: FormatJSON},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			}
		})
	}

	if _, err := EncodeHistory(Format("xml"), nil); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("EncodeHistory(xml) error = %v", err)
	}
}

func TestFormatFileName(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	if got := FormatJSON.FileName(at); got != "sitepulse-history-2026-10-18.json" {
		t.Errorf("FileName() = %q", got)
	}
	if FormatCSV.ContentType() != "text/csv" || FormatJSON.ContentType() != "application/json" {
		t.Error("unexpected content types")
	}
}

func TestFileSink(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "exports", "nested")
	sink := NewFileSink(dir)

	path, err := sink.Put(context.Background(), "history.csv", []byte("id\n"), "text/csv")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if path != filepath.Join(dir, "history.csv") {
		t.Errorf("Put() path = %q", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}

	if _, err := sink.Put(context.Background(), "", nil, ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Put(\"\") error = %v, want ErrEmptyName", err)
	}
}

func TestNewS3Sink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     S3Config
		wantErr error
	}{
		{name: "missing endpoint", cfg: S3Config{Bucket: "reports"}, wantErr: ErrMissingEndpoint},
		{name: "missing bucket", cfg: S3Config{Endpoint: "localhost:9000"}, wantErr: ErrMissingBucket},
		{name: "valid", cfg: S3Config{Endpoint: "localhost:9000", Bucket: "reports", AccessKey: "a", SecretKey: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewS3Sink(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewS3Sink() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || s == nil {
				t.Fatalf("NewS3Sink() = %v, %v", s, err)
			}
			if _, err := s.Put(context.Background(), "", nil, ""); !errors.Is(err, ErrEmptyName) {
				t.Errorf("Put(\"\") error = %v, want ErrEmptyName", err)
			}
		})
	}
}
