package pagespeed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nao1215/sitepulse/internal/model"
)

// PriorityAudits is the fixed list of opportunity audits surfaced in a
// result, in display order.
var PriorityAudits = []string{
	"render-blocking-resources",
	"unused-css-rules",
	"unused-javascript",
	"modern-image-formats",
	"uses-text-compression",
	"uses-responsive-images",
	"efficient-animated-content",
	"uses-http2",
	"uses-long-cache-ttl",
}

// Parse maps a raw API response into an AnalysisResult stamped with now.
// It returns a *ShapeError when a required field is absent.
func Parse(raw *Response, now time.Time) (*model.AnalysisResult, error) {
	if raw == nil || raw.LighthouseResult == nil {
		return nil, &ShapeError{Field: "lighthouseResult"}
	}
	if raw.ID == "" {
		return nil, &ShapeError{Field: "id"}
	}
	lh := raw.LighthouseResult

	scores, err := parseScores(lh.Categories)
	if err != nil {
		return nil, err
	}

	metrics, err := parseMetrics(lh.Audits)
	if err != nil {
		return nil, err
	}

	return &model.AnalysisResult{
		URL:        raw.ID,
		Timestamp:  model.FormatTimestamp(now),
		Scores:     scores,
		Metrics:    metrics,
		Audits:     ExtractAudits(lh.Audits),
		Screenshot: screenshot(lh.Audits),
	}, nil
}

func parseScores(categories map[string]Category) (model.Scores, error) {
	var out [4]int
	for i, id := range Categories {
		c, ok := categories[id]
		if !ok {
			return model.Scores{}, &ShapeError{Field: "categories." + id}
		}
		// Lighthouse reports null when a category could not be computed.
		if c.Score == nil {
			continue
		}
		if *c.Score < 0 || *c.Score > 1 {
			return model.Scores{}, &ShapeError{
				Field: "categories." + id + ".score",
				Err:   fmt.Errorf("%v is outside [0, 1]", *c.Score),
			}
		}
		out[i] = model.Round(*c.Score * 100)
	}

	return model.Scores{
		Performance:   out[0],
		Accessibility: out[1],
		BestPractices: out[2],
		SEO:           out[3],
	}, nil
}

func parseMetrics(audits map[string]Audit) (model.Metrics, error) {
	ids := []string{
		AuditFirstContentfulPaint,
		AuditLargestContentfulPaint,
		AuditCumulativeLayoutShift,
		AuditTotalBlockingTime,
		AuditSpeedIndex,
	}

	values := make([]string, len(ids))
	for i, id := range ids {
		a, ok := audits[id]
		if !ok {
			return model.Metrics{}, &ShapeError{Field: "audits." + id}
		}
		values[i] = a.DisplayValue
	}

	return model.Metrics{
		FCP: values[0],
		LCP: values[1],
		CLS: values[2],
		TBT: values[3],
		SI:  values[4],
	}, nil
}

// screenshot returns final-screenshot.details.data, or "" when any level
// of the path is missing.
func screenshot(audits map[string]Audit) string {
	a, ok := audits[AuditFinalScreenshot]
	if !ok || len(a.Details) == 0 {
		return ""
	}
	var details struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(a.Details, &details); err != nil {
		return ""
	}
	return details.Data
}

// ExtractAudits walks PriorityAudits and returns the audits present in
// audits, in priority order. Identifiers missing from the map are skipped.
func ExtractAudits(audits map[string]Audit) []model.Audit {
	out := make([]model.Audit, 0, len(PriorityAudits))
	for _, id := range PriorityAudits {
		a, ok := audits[id]
		if !ok {
			continue
		}
		out = append(out, model.Audit{
			ID:           id,
			Title:        a.Title,
			Description:  a.Description,
			Score:        a.Score,
			DisplayValue: a.DisplayValue,
			Impact:       model.ImpactFromScore(a.Score),
		})
	}
	return out
}
