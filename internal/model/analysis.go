package model

import "time"

// TimestampLayout is the ISO-8601 layout used for every stored timestamp.
// It always carries millisecond precision and a literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Scores holds the four category scores, each an integer in [0, 100].
type Scores struct {
	Performance   int `json:"performance"`
	Accessibility int `json:"accessibility"`
	BestPractices int `json:"bestPractices"`
	SEO           int `json:"seo"`
}

// Overall returns the unweighted mean of the four categories, rounded to the
// nearest integer.
func (s Scores) Overall() int {
	sum := s.Performance + s.Accessibility + s.BestPractices + s.SEO
	return Round(float64(sum) / 4)
}

// Metrics holds the five web-vitals measurements as display strings
// (for example "1.8 s" or "230 ms").
type Metrics struct {
	FCP string `json:"fcp"`
	LCP string `json:"lcp"`
	CLS string `json:"cls"`
	TBT string `json:"tbt"`
	SI  string `json:"si"`
}

// Audit is a single named check taken from an analysis.
type Audit struct {
	// ID is the audit identifier (e.g. "uses-http2").
	ID string `json:"id"`

	// Title is the human-readable audit name.
	Title string `json:"title"`

	// Description is the longer explanation, when the source provides one.
	Description string `json:"description,omitempty"`

	// Score is the 0-1 score, or nil for informational audits.
	Score *float64 `json:"score"`

	// DisplayValue is a short summary such as "Potential savings of 120 KB".
	DisplayValue string `json:"displayValue,omitempty"`

	// Impact is derived from Score.
	Impact Impact `json:"impact"`
}

// AnalysisResult is the normalized outcome of analyzing one URL, whether it
// came from the live audit API or from the simulator.
type AnalysisResult struct {
	// URL is the analyzed address.
	URL string `json:"url"`

	// Timestamp is the capture time formatted with TimestampLayout.
	Timestamp string `json:"timestamp"`

	// Simulated is true only for synthesized results.
	Simulated bool `json:"simulated,omitempty"`

	Scores  Scores  `json:"scores"`
	Metrics Metrics `json:"metrics"`

	// Audits are ordered by the extraction priority list.
	Audits []Audit `json:"audits"`

	// Screenshot is embedded image data (a data URI); live results only.
	Screenshot string `json:"screenshot,omitempty"`
}

// OverallScore returns the rounded mean of the result's category scores.
func (r *AnalysisResult) OverallScore() int {
	return r.Scores.Overall()
}

// AuditsWithImpact returns the audits whose impact is one of impacts,
// preserving their original order.
func (r *AnalysisResult) AuditsWithImpact(impacts ...Impact) []Audit {
	out := make([]Audit, 0, len(r.Audits))
	for _, a := range r.Audits {
		for _, want := range impacts {
			if a.Impact == want {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// Opportunities returns the failing and warning audits in original order.
func (r *AnalysisResult) Opportunities() []Audit {
	return r.AuditsWithImpact(ImpactFail, ImpactWarning)
}

// Passed returns the passing audits in original order.
func (r *AnalysisResult) Passed() []Audit {
	return r.AuditsWithImpact(ImpactPass)
}

// ImpactCounts returns how many audits fall in each impact bucket.
func (r *AnalysisResult) ImpactCounts() map[Impact]int {
	counts := map[Impact]int{
		ImpactPass:    0,
		ImpactWarning: 0,
		ImpactFail:    0,
		ImpactInfo:    0,
	}
	for _, a := range r.Audits {
		counts[a.Impact]++
	}
	return counts
}
