package pagespeed

import "encoding/json"

// Response is the subset of the runPagespeed response body SitePulse reads.
type Response struct {
	// ID is the analyzed URL as reported by the API.
	ID               string            `json:"id"`
	LighthouseResult *LighthouseResult `json:"lighthouseResult"`
}

// LighthouseResult holds category scores and the audit map.
type LighthouseResult struct {
	Categories map[string]Category `json:"categories"`
	Audits     map[string]Audit    `json:"audits"`
}

// Category is one Lighthouse category with a 0-1 score.
type Category struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Score *float64 `json:"score"`
}

// Audit is a raw Lighthouse audit entry.
type Audit struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Score        *float64 `json:"score"`
	DisplayValue string   `json:"displayValue"`

	// Details varies per audit; only the screenshot's is decoded.
	Details json.RawMessage `json:"details,omitempty"`
}

// Category identifiers requested from the API, in request order.
const (
	CategoryPerformance   = "performance"
	CategoryAccessibility = "accessibility"
	CategoryBestPractices = "best-practices"
	CategorySEO           = "seo"
)

// Categories lists every requested category.
var Categories = []string{
	CategoryPerformance,
	CategoryAccessibility,
	CategoryBestPractices,
	CategorySEO,
}

// Audit identifiers of the five web-vitals metrics and the screenshot.
const (
	AuditFirstContentfulPaint   = "first-contentful-paint"
	AuditLargestContentfulPaint = "largest-contentful-paint"
	AuditCumulativeLayoutShift  = "cumulative-layout-shift"
	AuditTotalBlockingTime      = "total-blocking-time"
	AuditSpeedIndex             = "speed-index"
	AuditFinalScreenshot        = "final-screenshot"
)
