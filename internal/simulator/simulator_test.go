package simulator

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/sitepulse/internal/model"
)

func newTestSimulator(seed uint64) *Simulator {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	return New(
		WithRand(rand.New(rand.NewPCG(seed, seed))),
		WithClock(func() time.Time { return fixed }),
	)
}

func TestSimulateExample(t *testing.T) {
	t.Parallel()

	got, err := newTestSimulator(1).Simulate("https://example.com")
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if !got.Simulated {
		t.Error("Simulated = false")
	}
	if got.URL != "https://example.com" {
		t.Errorf("URL = %q", got.URL)
	}
	if got.Timestamp != "2025-01-02T03:04:05.006Z" {
		t.Errorf("Timestamp = %q", got.Timestamp)
	}

	// "example.com" sums to 1113, 1113 % 30 = 3.
	want := model.Scores{Performance: 63, Accessibility: 73, BestPractices: 68, SEO: 78}
	if diff := cmp.Diff(want, got.Scores); diff != "" {
		t.Errorf("Scores mismatch (-want +got):\n%s", diff)
	}

	if len(got.Audits) != 6 {
		t.Fatalf("len(Audits) = %d, want 6", len(got.Audits))
	}
	if got.Audits[3].ID != "https" || got.Audits[3].Impact != model.ImpactPass {
		t.Errorf("Audits[3] = %+v, want passing https audit", got.Audits[3])
	}
	if *got.Audits[3].Score != 1 {
		t.Errorf("https score = %v, want 1", *got.Audits[3].Score)
	}
	if got.Screenshot != "" {
		t.Error("simulated result must not carry a screenshot")
	}
}

func TestSimulateHTTP(t *testing.T) {
	t.Parallel()

	got, err := newTestSimulator(1).Simulate("http://example.com")
	if err != nil {
		t.Fatal(err)
	}
	https := got.Audits[3]
	if https.Impact != model.ImpactFail || *https.Score != 0 {
		t.Errorf("https audit = %+v, want score 0 / fail", https)
	}

	// Scores depend only on the hostname, not the scheme.
	secure, _ := newTestSimulator(2).Simulate("https://example.com/other/path?x=1")
	if diff := cmp.Diff(secure.Scores, got.Scores); diff != "" {
		t.Errorf("scores differ across scheme and path (-https +http):\n%s", diff)
	}
}

func TestSimulateStaticAudits(t *testing.T) {
	t.Parallel()

	got, err := New().Simulate("https://shop.example")
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		id     string
		impact model.Impact
		score  float64
	}{
		{"render-blocking", model.ImpactWarning, 0.6},
		{"unused-css", model.ImpactFail, 0.4},
		{"image-formats", model.ImpactPass, 0.8},
		{"https", model.ImpactPass, 1},
		{"http2", model.ImpactPass, 0.9},
		{"compression", model.ImpactWarning, 0.7},
	}
	for i, w := range want {
		a := got.Audits[i]
		if a.ID != w.id || a.Impact != w.impact || *a.Score != w.score {
			t.Errorf("Audits[%d] = {%s %s %v}, want {%s %s %v}", i, a.ID, a.Impact, *a.Score, w.id, w.impact, w.score)
		}
	}
}

func TestSimulateDeterministicScores(t *testing.T) {
	t.Parallel()

	s := New()
	urls := []string{
		"https://example.com",
		"https://EXAMPLE.com:8443/path",
		"http://a.io",
		"https://bücher.example",
	}

	for _, u := range urls {
		first, err := s.Simulate(u)
		if err != nil {
			t.Fatalf("Simulate(%q) error = %v", u, err)
		}
		second, err := s.Simulate(u)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first.Scores, second.Scores); diff != "" {
			t.Errorf("Simulate(%q) scores not deterministic:\n%s", u, diff)
		}
	}
}

func TestSimulateModularDelta(t *testing.T) {
	t.Parallel()

	s := New()

	// "b.io" sums to 360 (offset 0), "example.org" to 1122 (offset 12).
	low, err := s.Simulate("https://b.io")
	if err != nil {
		t.Fatal(err)
	}
	high, err := s.Simulate("https://example.org")
	if err != nil {
		t.Fatal(err)
	}

	if d := high.Scores.Performance - low.Scores.Performance; d != 12 {
		t.Errorf("performance delta = %d, want 12", d)
	}
	if d := high.Scores.SEO - low.Scores.SEO; d != 12 {
		t.Errorf("seo delta = %d, want 12", d)
	}

	// "a.io" sums to 359 (offset 29): seo 90+29-15 = 104 is clamped.
	clamped, err := s.Simulate("https://a.io")
	if err != nil {
		t.Fatal(err)
	}
	if clamped.Scores.SEO != 100 {
		t.Errorf("SEO = %d, want clamp to 100", clamped.Scores.SEO)
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base int
		hash int
		want int
	}{
		{name: "lowest offset", base: 75, hash: 0, want: 60},
		{name: "highest offset", base: 75, hash: 29, want: 89},
		{name: "wraps at window", base: 75, hash: 30, want: 60},
		{name: "clamped high", base: 90, hash: 59, want: 100},
		{name: "clamped low", base: 10, hash: 0, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.base, tt.hash); got != tt.want {
				t.Errorf("Score(%d, %d) = %d, want %d", tt.base, tt.hash, got, tt.want)
			}
		})
	}
}

func TestHostname(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://example.com", want: "example.com"},
		{in: "https://Example.COM:8080/a?b=c", want: "example.com"},
		{in: "https://bücher.example", want: "xn--bcher-kva.example"},
		{in: "example.com", wantErr: true},
		{in: "https://", wantErr: true},
		{in: "", wantErr: true},
		{in: "http://%zz", wantErr: true},
		{in: "http://[::1]:8080/", want: "[::1]"},
		{in: "http://[2001:DB8:0:0:0:0:0:1]/", want: "[2001:db8::1]"},
		{in: "http://[fe80::1%25en0]/", wantErr: true},
		{in: " https://example.com ", want: "example.com"},
		{in: "\thttps://example.com\n", want: "example.com"},
		{in: "https:example.com", want: "example.com"},
		{in: `https:\\example.com\path`, want: "example.com"},
		{in: "HTTPS:///Example.com", want: "example.com"},
		{in: "mailto:someone@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := Hostname(tt.in)
			if tt.wantErr {
				var ierr *InputError
				if !errors.As(err, &ierr) {
					t.Errorf("Hostname(%q) error = %v, want *InputError", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Hostname(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Hostname(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHostHashMatchesBrowserHostname(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{in: "http://[::1]:8080/", want: 349},
		{in: " https://example.com ", want: 1113},
		{in: "https:example.com", want: 1113},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			host, err := Hostname(tt.in)
			if err != nil {
				t.Fatalf("Hostname(%q) error = %v", tt.in, err)
			}
			if got := HostHash(host); got != tt.want {
				t.Errorf("HostHash(%q) = %d, want %d", host, got, tt.want)
			}
		})
	}
}

func TestSimulateInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := New().Simulate("not a url")
	var ierr *InputError
	if !errors.As(err, &ierr) {
		t.Fatalf("Simulate() error = %v, want *InputError", err)
	}
	if ierr.URL != "not a url" {
		t.Errorf("InputError.URL = %q", ierr.URL)
	}
}

func TestSimulateMetricFormats(t *testing.T) {
	t.Parallel()

	seconds := regexp.MustCompile(`^\d+\.\d s$`)
	cls := regexp.MustCompile(`^0\.\d{3}$`)
	ms := regexp.MustCompile(`^\d+ ms$`)

	s := New()
	for range 50 {
		got, err := s.Simulate("https://example.com")
		if err != nil {
			t.Fatal(err)
		}
		m := got.Metrics
		for name, v := range map[string]string{"fcp": m.FCP, "lcp": m.LCP, "si": m.SI} {
			if !seconds.MatchString(v) {
				t.Errorf("%s = %q, want seconds with one decimal", name, v)
			}
		}
		if !cls.MatchString(m.CLS) {
			t.Errorf("cls = %q", m.CLS)
		}
		if !ms.MatchString(m.TBT) {
			t.Errorf("tbt = %q", m.TBT)
		}
	}
}

func TestSimulateMetricsVary(t *testing.T) {
	t.Parallel()

	s := New(WithRand(rand.New(rand.NewPCG(7, 11))))
	seen := make(map[model.Metrics]struct{})
	for range 20 {
		got, err := s.Simulate("https://example.com")
		if err != nil {
			t.Fatal(err)
		}
		seen[got.Metrics] = struct{}{}
	}
	if len(seen) < 2 {
		t.Error("metrics should be drawn independently on every call")
	}
}
