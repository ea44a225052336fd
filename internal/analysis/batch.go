package analysis

import (
	"context"
	"time"

	"github.com/nao1215/sitepulse/internal/model"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one URL in a batch.
type Outcome struct {
	// URL is the requested address.
	URL string `json:"url"`

	// Result is nil when Err is set.
	Result *model.AnalysisResult `json:"result,omitempty"`

	// Err is the simulator's input error for an invalid URL, or the
	// context error for a URL skipped after cancellation.
	Err error `json:"-"`
}

// AnalyzeBatch analyzes urls concurrently, at most the configured
// concurrency at a time. Outcomes are returned in input order. Each URL is
// analyzed independently, so duplicates cause duplicate requests.
//
// An invalid URL is recorded in its Outcome and does not stop the batch.
// The returned error is non-nil only when ctx ends before every URL
// has started.
func (s *Service) AnalyzeBatch(ctx context.Context, urls []string) ([]Outcome, error) {
	s.logger.Info("starting batch analysis",
		"total", len(urls),
		"concurrency", s.concurrency,
	)
	start := time.Now()

	// Each goroutine writes only its own index.
	outcomes := make([]Outcome, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				outcomes[i] = Outcome{URL: u, Err: ctx.Err()}
				return ctx.Err()
			default:
			}

			result, err := s.Analyze(ctx, u)
			outcomes[i] = Outcome{URL: u, Result: result, Err: err}
			if err != nil {
				s.logger.Warn("analysis rejected", "url", u, "error", err)
			}
			return nil
		})
	}

	err := g.Wait()

	s.logger.Info("batch analysis complete",
		"total", len(urls),
		"elapsed", time.Since(start),
	)

	return outcomes, err
}

// Results returns the non-nil results of outcomes in order.
func Results(outcomes []Outcome) []*model.AnalysisResult {
	out := make([]*model.AnalysisResult, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Result != nil {
			out = append(out, o.Result)
		}
	}
	return out
}
