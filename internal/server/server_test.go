package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/sitepulse/internal/analysis"
	"github.com/nao1215/sitepulse/internal/config"
	"github.com/nao1215/sitepulse/internal/history"
	"github.com/nao1215/sitepulse/internal/kvstore"
	"github.com/nao1215/sitepulse/internal/model"
	"github.com/nao1215/sitepulse/internal/probe"
	"github.com/nao1215/sitepulse/internal/simulator"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type fakeKeys struct {
	mu  sync.Mutex
	key string
}

func (f *fakeKeys) SetAPIKey(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.key = key
}

func (f *fakeKeys) get() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}

type fakeProber struct{}

func (fakeProber) Check(_ context.Context, target string) *probe.Result {
	return &probe.Result{URL: target, Accessible: true, StatusCode: 200, Technologies: []string{probe.TechJQuery}}
}

type testEnv struct {
	srv  *httptest.Server
	kv   *kvstore.Memory
	keys *fakeKeys
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kv := kvstore.NewMemory()
	ids := 0
	var idMu sync.Mutex
	hist := history.New(kv, history.WithIDGenerator(func() string {
		idMu.Lock()
		defer idMu.Unlock()
		ids++
		return fmt.Sprintf("id-%d", ids)
	}))
	sim := simulator.New(simulator.WithClock(func() time.Time { return fixedNow }))
	svc := analysis.New(nil, sim, analysis.WithConcurrency(2))
	keys := &fakeKeys{}

	s := New(svc, hist, kv,
		WithClock(func() time.Time { return fixedNow }),
		WithProber(fakeProber{}),
		WithKeySetter(keys),
		WithLogger(newDiscardLogger()),
	)
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, kv: kv, keys: keys}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, e.srv.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decode[map[string]any](t, resp)
	if got["status"] != "ok" || got["live"] != false {
		t.Errorf("body = %v", got)
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "simulated result", body: `{"url":"https://example.com"}`, wantStatus: http.StatusOK},
		{name: "missing url", body: `{"url":"  "}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{"url":`, wantStatus: http.StatusBadRequest},
		{name: "url without host", body: `{"url":"not a url"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			resp := env.do(t, http.MethodPost, "/api/analyze", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.wantStatus, readBody(t, resp))
			}
			if tt.wantStatus != http.StatusOK {
				got := decode[map[string]string](t, resp)
				if got["error"] == "" {
					t.Error("error body missing")
				}
				return
			}

			got := decode[model.AnalysisResult](t, resp)
			if got.URL != "https://example.com" || !got.Simulated {
				t.Errorf("result = %+v", got)
			}
			if got.Scores.Performance != 63 {
				t.Errorf("performance = %d, want 63", got.Scores.Performance)
			}
		})
	}
}

func TestAnalyzeSaveAndHistory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for _, u := range []string{"https://example.com", "https://example.org"} {
		resp := env.do(t, http.MethodPost, "/api/analyze", fmt.Sprintf(`{"url":%q,"save":true}`, u))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("analyze %s: status %d", u, resp.StatusCode)
		}
	}

	list := decode[[]model.HistoryEntry](t, env.do(t, http.MethodGet, "/api/history", ""))
	if len(list) != 2 || list[0].ID != "id-2" || list[1].ID != "id-1" {
		t.Fatalf("history = %+v, want newest first", list)
	}

	entry := decode[model.HistoryEntry](t, env.do(t, http.MethodGet, "/api/history/id-1", ""))
	if entry.URL != "https://example.com" {
		t.Errorf("entry = %+v", entry)
	}

	if resp := env.do(t, http.MethodGet, "/api/history/missing", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing entry status = %d, want 404", resp.StatusCode)
	}

	cmp := decode[model.Comparison](t, env.do(t, http.MethodGet, "/api/compare?a=id-2&b=id-1", ""))
	// example.org hash offset 12, example.com offset 3.
	if cmp.Differences.Performance != 9 {
		t.Errorf("performance difference = %d, want 9", cmp.Differences.Performance)
	}

	if resp := env.do(t, http.MethodGet, "/api/compare?a=id-2&b=nope", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("compare unknown id status = %d, want 404", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/compare?a=id-2", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("compare missing b status = %d, want 400", resp.StatusCode)
	}

	if resp := env.do(t, http.MethodDelete, "/api/history", ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("clear status = %d", resp.StatusCode)
	}
	list = decode[[]model.HistoryEntry](t, env.do(t, http.MethodGet, "/api/history", ""))
	if len(list) != 0 {
		t.Errorf("history after clear = %+v", list)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/analyze/batch",
		`{"urls":["https://example.com","bad","https://b.io"],"save":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, readBody(t, resp))
	}

	items := decode[[]batchItem](t, resp)
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].Result == nil || items[0].URL != "https://example.com" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Result != nil || items[1].Error == "" {
		t.Errorf("items[1] = %+v, want error", items[1])
	}
	if items[2].Result == nil {
		t.Errorf("items[2] = %+v", items[2])
	}

	list := decode[[]model.HistoryEntry](t, env.do(t, http.MethodGet, "/api/history", ""))
	if len(list) != 2 {
		t.Errorf("saved %d entries, want 2", len(list))
	}

	if resp := env.do(t, http.MethodPost, "/api/analyze/batch", `{"urls":[]}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty batch status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeBatchValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("urls are trimmed", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/analyze/batch", `{"urls":["  https://example.com\n"]}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d: %s", resp.StatusCode, readBody(t, resp))
		}
		items := decode[[]batchItem](t, resp)
		if len(items) != 1 || items[0].URL != "https://example.com" || items[0].Result == nil {
			t.Errorf("items = %+v", items)
		}
	})

	t.Run("blank url", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/analyze/batch", `{"urls":["https://example.com","   "]}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("too many urls", func(t *testing.T) {
		urls := make([]string, maxBatchURLs+1)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://site%d.example", i)
		}
		body, err := json.Marshal(map[string][]string{"urls": urls})
		if err != nil {
			t.Fatal(err)
		}
		resp := env.do(t, http.MethodPost, "/api/analyze/batch", string(body))
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
		if got := readBody(t, resp); !strings.Contains(got, "too many urls") {
			t.Errorf("body = %s", got)
		}
	})
}

func TestHistoryExport(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/analyze", `{"url":"https://example.com","save":true}`)

	resp := env.do(t, http.MethodGet, "/api/history/export?format=csv", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "sitepulse-history-2026-10-18.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body := readBody(t, resp)
	if !strings.HasPrefix(body, "id,url,timestamp,overallScore,") || !strings.Contains(body, `"id-1","https://example.com"`) {
		t.Errorf("csv body = %q", body)
	}

	resp = env.do(t, http.MethodGet, "/api/history/export?format=json", "")
	entries := decode[[]model.HistoryEntry](t, resp)
	if len(entries) != 1 {
		t.Errorf("json export = %+v", entries)
	}

	if resp := env.do(t, http.MethodGet, "/api/history/export?format=xml", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("xml export status = %d, want 400", resp.StatusCode)
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	result := readBody(t, env.do(t, http.MethodPost, "/api/analyze", `{"url":"https://example.com"}`))

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{format: "text", contentType: "text/plain; charset=utf-8", contains: "WEBSITE HEALTH REPORT"},
		{format: "md", contentType: "text/markdown; charset=utf-8", contains: "https://example.com"},
		{format: "json", contentType: "application/json", contains: `"url": "https://example.com"`},
	}
	for _, tt := range tests {
		resp := env.do(t, http.MethodPost, "/api/report?format="+tt.format, result)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.format, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
			t.Errorf("%s: Content-Type = %q", tt.format, ct)
		}
		if body := readBody(t, resp); !strings.Contains(body, tt.contains) {
			t.Errorf("%s: body missing %q:\n%s", tt.format, tt.contains, body)
		}
	}

	if resp := env.do(t, http.MethodPost, "/api/report?format=pdf", result); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("pdf status = %d, want 400", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodPost, "/api/report", `{}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty result status = %d, want 400", resp.StatusCode)
	}
}

func TestSettings(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	got := decode[settingsResponse](t, env.do(t, http.MethodGet, "/api/settings", ""))
	if got.APIKeySet {
		t.Error("APIKeySet = true before any key was stored")
	}

	resp := env.do(t, http.MethodPut, "/api/settings", `{"apiKey":" new-key "}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if strings.Contains(body, "new-key") {
		t.Errorf("settings response echoes the key: %s", body)
	}
	if env.keys.get() != "new-key" {
		t.Errorf("key setter got %q", env.keys.get())
	}

	stored, err := config.LoadSettings(context.Background(), env.kv)
	if err != nil {
		t.Fatal(err)
	}
	if stored.APIKey != "new-key" {
		t.Errorf("stored key = %q", stored.APIKey)
	}

	got = decode[settingsResponse](t, env.do(t, http.MethodGet, "/api/settings", ""))
	if !got.APIKeySet {
		t.Error("APIKeySet = false after storing a key")
	}

	if resp := env.do(t, http.MethodPut, "/api/settings", `{}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing apiKey status = %d, want 400", resp.StatusCode)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	got := decode[probe.Result](t, env.do(t, http.MethodGet, "/api/check?url=https://example.com", ""))
	if !got.Accessible || len(got.Technologies) != 1 || got.Technologies[0] != probe.TechJQuery {
		t.Errorf("check = %+v", got)
	}

	if resp := env.do(t, http.MethodGet, "/api/check", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing url status = %d, want 400", resp.StatusCode)
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, env.srv.URL+"/api/analyze", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := env.srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("preflight response has no Access-Control-Allow-Origin")
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	s := New(analysis.New(nil, simulator.New()), history.New(kvstore.NewMemory()), kvstore.NewMemory(),
		WithLogger(newDiscardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
