package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/sitepulse/internal/model"
	"github.com/nao1215/sitepulse/internal/pagespeed"
)

// LiveClient performs requests against the live audit API.
// *pagespeed.Client satisfies it.
type LiveClient interface {
	// HasAPIKey reports whether a credential is configured.
	HasAPIKey() bool

	// Fetch performs one request for target.
	Fetch(ctx context.Context, target string) (*pagespeed.Response, error)
}

// Simulator produces fallback results.
// *simulator.Simulator satisfies it.
type Simulator interface {
	Simulate(rawURL string) (*model.AnalysisResult, error)
}

// DefaultConcurrency is the batch limit used when none is configured.
const DefaultConcurrency = 4

// Service picks between the live API and the simulator.
type Service struct {
	live        LiveClient
	sim         Simulator
	logger      *slog.Logger
	now         func() time.Time
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used to report live failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the clock used to stamp live results.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithConcurrency sets the maximum number of concurrent analyses in a batch.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a Service. live may be nil, in which case every analysis
// is simulated.
func New(live LiveClient, sim Simulator, opts ...Option) *Service {
	s := &Service{
		live:        live,
		sim:         sim,
		now:         time.Now,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// LiveEnabled reports whether Analyze will try the live API first.
func (s *Service) LiveEnabled() bool {
	return s.live != nil && s.live.HasAPIKey()
}

// Analyze returns the analysis of rawURL. Live failures of any kind are
// logged and replaced by a simulated result. The returned error is
// non-nil only when the simulator rejects rawURL.
func (s *Service) Analyze(ctx context.Context, rawURL string) (*model.AnalysisResult, error) {
	if !s.LiveEnabled() {
		return s.sim.Simulate(rawURL)
	}

	result, err := s.analyzeLive(ctx, rawURL)
	if err != nil {
		s.logger.Warn("live analysis failed, using simulated result",
			"url", rawURL,
			"error", err,
		)
		return s.sim.Simulate(rawURL)
	}

	s.logger.Debug("live analysis completed",
		"url", result.URL,
		"overall", result.OverallScore(),
	)
	return result, nil
}

// analyzeLive performs the live request and parses the response.
func (s *Service) analyzeLive(ctx context.Context, rawURL string) (*model.AnalysisResult, error) {
	raw, err := s.live.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return pagespeed.Parse(raw, s.now())
}
