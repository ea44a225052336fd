package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"testing"
)

func TestRedactingHandler_SensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "api_key is masked", key: "api_key", value: "plain-value-1", wantMask: true},
		{name: "key is masked", key: "key", value: "plain-value-2", wantMask: true},
		{name: "Authorization is masked", key: "Authorization", value: "plain-value-3", wantMask: true},
		{name: "s3 secret key is masked", key: "s3_secret_key", value: "plain-value-4", wantMask: true},
		{name: "database_url is masked", key: "database_url", value: "postgres://u:p@db/x", wantMask: true},
		{name: "url is kept", key: "url", value: "https://example.com/", wantMask: false},
		{name: "driver is kept", key: "driver", value: "sqlite", wantMask: false},
		{name: "score is kept", key: "score", value: "87", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected %q to be masked: %s", tt.value, output)
				}
				if !strings.Contains(output, MaskValue) {
					t.Errorf("expected %q in output: %s", MaskValue, output)
				}
				return
			}
			if !strings.Contains(output, tt.value) {
				t.Errorf("expected %q in output: %s", tt.value, output)
			}
		})
	}
}

func TestRedactString(t *testing.T) {
	t.Parallel()

	googleKey := "AIza" + strings.Repeat("x", 35)

	tests := []struct {
		name      string
		in        string
		mustDrop  string
		mustKeep  string
		wantExact string
	}{
		{name: "google api key", in: googleKey, wantExact: MaskValue},
		{name: "bearer token", in: "Bearer abc.def", wantExact: MaskValue},
		{name: "plain text", in: "analysis finished", wantExact: "analysis finished"},
		{
			name:     "request url key param",
			in:       "https://www.googleapis.com/pagespeedonline/v5/runPagespeed?url=https%3A%2F%2Fexample.com&key=s3cr3t",
			mustDrop: "s3cr3t",
			mustKeep: "url=https%3A%2F%2Fexample.com",
		},
		{
			name:     "url inside error text",
			in:       `Get "https://api.example.com/run?key=s3cr3t&strategy=mobile": timeout`,
			mustDrop: "s3cr3t",
			mustKeep: "strategy=mobile",
		},
		{
			name:      "url without sensitive params",
			in:        "https://example.com/?page=2",
			wantExact: "https://example.com/?page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RedactString(tt.in)
			if tt.wantExact != "" && got != tt.wantExact {
				t.Errorf("RedactString() = %q, want %q", got, tt.wantExact)
			}
			if tt.mustDrop != "" && strings.Contains(got, tt.mustDrop) {
				t.Errorf("RedactString() = %q still contains %q", got, tt.mustDrop)
			}
			if tt.mustKeep != "" && !strings.Contains(got, tt.mustKeep) {
				t.Errorf("RedactString() = %q lost %q", got, tt.mustKeep)
			}
			if tt.mustDrop != "" && !strings.Contains(got, "key="+MaskValue) {
				t.Errorf("RedactString() = %q, want key=%s", got, MaskValue)
			}
		})
	}
}

func TestRedactingHandler_ErrorAndURLValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureJSONLogger(&buf, false)

	u, _ := url.Parse("https://api.example.com/run?key=topsecret")
	err := fmt.Errorf("fetch: %w", errors.New(`Get "https://api.example.com/run?key=topsecret": EOF`))
	logger.Warn("live analysis failed", "error", err, "endpoint", u)

	if strings.Contains(buf.String(), "topsecret") {
		t.Fatalf("secret leaked: %s", buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "live analysis failed" {
		t.Errorf("msg = %v", record["msg"])
	}
}

func TestRedactingHandler_GroupsAndWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true).With("api_key", "withattr-secret")
	logger.Info("grouped", slog.Group("s3", slog.String("secret_key", "group-secret"), slog.String("bucket", "reports")))

	out := buf.String()
	for _, leaked := range []string{"withattr-secret", "group-secret"} {
		if strings.Contains(out, leaked) {
			t.Errorf("output leaks %q: %s", leaked, out)
		}
	}
	if !strings.Contains(out, "reports") {
		t.Errorf("non-sensitive group attr dropped: %s", out)
	}
}

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
	}{
		{name: "quiet", opts: Options{}, wantDebug: false},
		{name: "verbose", opts: Options{Verbose: true}, wantDebug: true},
		{name: "verbose json", opts: Options{Verbose: true, JSON: true}, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := New(&buf, tt.opts)
			logger.Debug("debug line")
			logger.Warn("warn line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug present = %v, want %v", got, tt.wantDebug)
			}
			if !strings.Contains(out, "warn line") {
				t.Errorf("warn line missing: %s", out)
			}
			if tt.opts.JSON && !strings.HasPrefix(out, "{") {
				t.Errorf("expected JSON output, got %s", out)
			}
		})
	}
}

func TestNewRedactingHandler_NilUsesDefault(t *testing.T) {
	t.Parallel()

	h := NewRedactingHandler(nil)
	if h.next == nil {
		t.Fatal("expected default handler")
	}
}
