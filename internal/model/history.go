package model

// HistoryEntry is the compact record kept for each saved analysis.
// Entries are created by the history store and never modified afterwards.
type HistoryEntry struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Scores       Scores `json:"scores"`
	Timestamp    string `json:"timestamp"`
	OverallScore int    `json:"overallScore"`
}

// NewHistoryEntry builds the entry for result under the given id.
func NewHistoryEntry(id string, result *AnalysisResult) HistoryEntry {
	return HistoryEntry{
		ID:           id,
		URL:          result.URL,
		Scores:       result.Scores,
		Timestamp:    result.Timestamp,
		OverallScore: result.Scores.Overall(),
	}
}

// ScoreDifferences holds signed per-category differences.
type ScoreDifferences struct {
	Performance   int `json:"performance"`
	Accessibility int `json:"accessibility"`
	BestPractices int `json:"bestPractices"`
	SEO           int `json:"seo"`
}

// Comparison pairs two history entries with their score differences.
type Comparison struct {
	// Sites holds the two compared entries in argument order.
	Sites [2]HistoryEntry `json:"sites"`

	// Differences is Sites[0] minus Sites[1] for each category.
	Differences ScoreDifferences `json:"differences"`
}

// CompareEntries computes a minus b for every category.
func CompareEntries(a, b HistoryEntry) *Comparison {
	return &Comparison{
		Sites: [2]HistoryEntry{a, b},
		Differences: ScoreDifferences{
			Performance:   a.Scores.Performance - b.Scores.Performance,
			Accessibility: a.Scores.Accessibility - b.Scores.Accessibility,
			BestPractices: a.Scores.BestPractices - b.Scores.BestPractices,
			SEO:           a.Scores.SEO - b.Scores.SEO,
		},
	}
}

// OverallDifference returns the difference of the two overall scores.
func (c *Comparison) OverallDifference() int {
	return c.Sites[0].OverallScore - c.Sites[1].OverallScore
}
