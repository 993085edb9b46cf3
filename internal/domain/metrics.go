package domain

// EngineMetrics is a snapshot of engine-level metrics for the
// GET /v1/metrics/reconciliation endpoint.
type EngineMetrics struct {
	TotalRuns        int64   `json:"total_runs"`
	ErrorRate        float64 `json:"error_rate"`
	ExactMatches     int64   `json:"exact_matches"`
	FuzzyMatches     int64   `json:"fuzzy_matches"`
	PartialMatches   int64   `json:"partial_matches"`
	SuggestionsTotal int64   `json:"suggestions_total"`
	DisputesTotal    int64   `json:"disputes_total"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
	Period           string  `json:"period"`
}
