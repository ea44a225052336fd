package simulator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/netip"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/sitepulse/internal/model"
	"golang.org/x/net/idna"
)

// Base values of each category before the hostname offset is applied.
const (
	basePerformance   = 75
	baseAccessibility = 85
	baseBestPractices = 80
	baseSEO           = 90
)

// Score bounds and hostname offset window.
const (
	minScore     = 20
	maxScore     = 100
	offsetWindow = 30
	offsetShift  = 15
)

var (
	errMissingScheme = errors.New("missing scheme")
	errMissingHost   = errors.New("missing host")
	errInvalidIPv6   = errors.New("invalid IPv6 address")
)

// Simulator produces simulated results. The zero value is not usable;
// create one with New.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand sets the random source used for metrics.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		s.rng = r
	}
}

// WithClock sets the function used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		s.now = now
	}
}

// New creates a Simulator seeded from the runtime's random source.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate returns a synthesized result for rawURL. Only a URL without a
// scheme or host is rejected, with an *InputError.
func (s *Simulator) Simulate(rawURL string) (*model.AnalysisResult, error) {
	host, err := Hostname(rawURL)
	if err != nil {
		return nil, err
	}
	hash := HostHash(host)

	return &model.AnalysisResult{
		URL:       rawURL,
		Timestamp: model.FormatTimestamp(s.now()),
		Simulated: true,
		Scores: model.Scores{
			Performance:   Score(basePerformance, hash),
			Accessibility: Score(baseAccessibility, hash),
			BestPractices: Score(baseBestPractices, hash),
			SEO:           Score(baseSEO, hash),
		},
		Metrics: s.metrics(),
		Audits:  audits(rawURL),
	}, nil
}

// specialSchemes are the schemes for which browsers always expect an
// authority, so "https:example.com" and "https:\\example.com" name a host.
var specialSchemes = map[string]bool{
	"http": true, "https": true, "ws": true, "wss": true, "ftp": true,
}

// Hostname extracts the hostname of rawURL as a browser reports it:
// lowercase ASCII, with IPv6 literals in brackets.
func Hostname(rawURL string) (string, error) {
	u, err := url.Parse(withAuthority(strings.TrimFunc(rawURL, isC0OrSpace)))
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", &InputError{URL: rawURL, Err: err}
	}
	if u.Scheme == "" {
		return "", &InputError{URL: rawURL, Err: errMissingScheme}
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", &InputError{URL: rawURL, Err: errMissingHost}
	}

	if strings.Contains(host, ":") {
		addr, err := netip.ParseAddr(host)
		if err != nil || !addr.Is6() || addr.Zone() != "" {
			return "", &InputError{URL: rawURL, Err: errInvalidIPv6}
		}
		return "[" + formatIPv6(addr) + "]", nil
	}

	ascii, err := idna.ToASCII(host)
	if err != nil {
		return "", &InputError{URL: rawURL, Err: err}
	}
	return ascii, nil
}

func isC0OrSpace(r rune) bool {
	return r <= ' '
}

// withAuthority rewrites a special-scheme URL to the "scheme://" form,
// accepting any number of slashes or backslashes after the colon.
func withAuthority(raw string) string {
	i := strings.IndexByte(raw, ':')
	if i <= 0 {
		return raw
	}
	scheme := strings.ToLower(raw[:i])
	if !specialSchemes[scheme] {
		return raw
	}

	rest := strings.TrimLeft(raw[i+1:], `/\`)
	end := strings.IndexAny(rest, "?#")
	if end < 0 {
		end = len(rest)
	}
	rest = strings.ReplaceAll(rest[:end], `\`, "/") + rest[end:]
	return scheme + "://" + rest
}

// formatIPv6 serializes addr in eight lowercase hex pieces, compressing the
// first longest run of two or more zero pieces. Embedded IPv4 is not
// written in dotted form.
func formatIPv6(addr netip.Addr) string {
	b := addr.As16()
	var pieces [8]uint16
	for i := range pieces {
		pieces[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}

	start, length := -1, 0
	for i := 0; i < len(pieces); {
		if pieces[i] != 0 {
			i++
			continue
		}
		j := i
		for j < len(pieces) && pieces[j] == 0 {
			j++
		}
		if j-i > length && j-i >= 2 {
			start, length = i, j-i
		}
		i = j
	}

	var sb strings.Builder
	for i := 0; i < len(pieces); i++ {
		if i == start {
			sb.WriteString("::")
			i += length - 1
			continue
		}
		if i > 0 && i != start+length {
			sb.WriteByte(':')
		}
		fmt.Fprintf(&sb, "%x", pieces[i])
	}
	return sb.String()
}

// HostHash sums the character codes of host.
func HostHash(host string) int {
	sum := 0
	for _, r := range host {
		sum += int(r)
	}
	return sum
}

// Score applies the hostname offset to base and clamps it to [20, 100].
func Score(base, hash int) int {
	return min(maxScore, max(minScore, base+hash%offsetWindow-offsetShift))
}

func (s *Simulator) metrics() model.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return model.Metrics{
		FCP: fmt.Sprintf("%.1f s", 1.5+s.rng.Float64()),
		LCP: fmt.Sprintf("%.1f s", 2.0+s.rng.Float64()*2),
		CLS: fmt.Sprintf("%.3f", s.rng.Float64()*0.2),
		TBT: fmt.Sprintf("%d ms", model.Round(100+s.rng.Float64()*300)),
		SI:  fmt.Sprintf("%.1f s", 2+s.rng.Float64()*2),
	}
}

// audits returns the fixed simulated audit list. Only the https entry depends
// on the input, and it checks the literal prefix of the full URL.
func audits(rawURL string) []model.Audit {
	httpsScore, httpsImpact := 0.0, model.ImpactFail
	if strings.HasPrefix(rawURL, "https") {
		httpsScore, httpsImpact = 1, model.ImpactPass
	}

	return []model.Audit{
		{ID: "render-blocking", Title: "Eliminate render-blocking resources", Score: model.Float(0.6), Impact: model.ImpactWarning, DisplayValue: "Potential savings of 500ms"},
		{ID: "unused-css", Title: "Reduce unused CSS", Score: model.Float(0.4), Impact: model.ImpactFail, DisplayValue: "45 KB savings"},
		{ID: "image-formats", Title: "Use modern image formats", Score: model.Float(0.8), Impact: model.ImpactPass, DisplayValue: "Using WebP"},
		{ID: "https", Title: "Uses HTTPS", Score: model.Float(httpsScore), Impact: httpsImpact},
		{ID: "http2", Title: "Uses HTTP/2", Score: model.Float(0.9), Impact: model.ImpactPass},
		{ID: "compression", Title: "Enable text compression", Score: model.Float(0.7), Impact: model.ImpactWarning, DisplayValue: "Potential savings of 120 KB"},
	}
}
