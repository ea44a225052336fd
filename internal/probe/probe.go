package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidURL is reported for a target that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid URL: must be an absolute http or https URL")

// Result is the outcome of one Check.
type Result struct {
	URL          string   `json:"url"`
	Accessible   bool     `json:"accessible"`
	StatusCode   int      `json:"statusCode,omitempty"`
	ResponseMS   int64    `json:"responseTime,omitempty"`
	Title        string   `json:"title,omitempty"`
	Technologies []string `json:"technologies"`
	Error        string   `json:"error,omitempty"`
	CheckedAt    string   `json:"checkedAt"`
}

// ResponseTime returns the measured response time.
func (r *Result) ResponseTime() time.Duration {
	return time.Duration(r.ResponseMS) * time.Millisecond
}

// Prober performs site checks.
type Prober struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	now         func() time.Time
}

// Option configures a Prober.
type Option func(*Prober)

// WithHTTPClient sets the HTTP client, e.g. one routed through a proxy.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Prober) {
		p.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		p.userAgent = ua
	}
}

// WithMaxBodySize limits how much of the landing page is read.
func WithMaxBodySize(n int64) Option {
	return func(p *Prober) {
		p.maxBodySize = n
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Prober) {
		p.now = now
	}
}

// New creates a Prober.
func New(opts ...Option) *Prober {
	p := &Prober{
		client:      &http.Client{Timeout: 15 * time.Second},
		userAgent:   "Mozilla/5.0 (compatible; sitepulse)",
		maxBodySize: 5 * 1024 * 1024,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check requests target once. Any HTTP response, whatever its status, marks
// the site accessible; a transport failure does not. Technologies are
// detected only in HTML responses. Check never returns nil.
func (p *Prober) Check(ctx context.Context, target string) *Result {
	res := &Result{
		URL:          target,
		Technologies: make([]string, 0),
		CheckedAt:    p.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}

	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		res.Error = ErrInvalidURL.Error()
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")

	start := p.now()
	resp, err := p.client.Do(req)
	if err != nil {
		res.Error = transportError(err)
		return res
	}
	defer resp.Body.Close()

	res.Accessible = true
	res.StatusCode = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBodySize))
	res.ResponseMS = p.now().Sub(start).Milliseconds()
	if err != nil {
		res.Error = fmt.Sprintf("failed to read body: %v", err)
		return res
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "html") {
		return res
	}
	pg, err := parsePage(bytes.NewReader(body))
	if err != nil {
		res.Error = fmt.Sprintf("failed to parse HTML: %v", err)
		return res
	}
	res.Title = pg.title
	res.Technologies = pg.technologies()
	return res
}

func transportError(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err.Error()
	}
	return err.Error()
}
