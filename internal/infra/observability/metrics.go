package observability

import (
	"time"

	"github.com/ledgerlens/recon-engine/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the reconciliation engine.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	runDuration      *prometheus.HistogramVec
	runsTotal        *prometheus.CounterVec
	matchesTotal     *prometheus.CounterVec
	suggestionsTotal *prometheus.CounterVec
	disputesTotal    *prometheus.CounterVec
	externalErrors   *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recon_run_duration_seconds",
				Help:    "Duration of engine operations by name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_runs_total",
				Help: "Total reconciliation runs processed.",
			},
			[]string{"status"},
		),
		matchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_matches_total",
				Help: "Total matches emitted, by match type.",
			},
			[]string{"type"},
		),
		suggestionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_suggestions_total",
				Help: "Total suggestions emitted, by kind.",
			},
			[]string{"kind"},
		),
		disputesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_disputes_total",
				Help: "Total dispute cases detected, by kind.",
			},
			[]string{"kind"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
	}
}

// RecordRunDuration records the duration of an engine operation.
func (m *Metrics) RecordRunDuration(operation string, d time.Duration) {
	m.runDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrRun increments the run counter with a status label.
func (m *Metrics) IncrRun(status string) {
	m.runsTotal.WithLabelValues(status).Inc()
}

// RecordMatches adds the matches of one run, split by match type.
func (m *Metrics) RecordMatches(matches []domain.Match) {
	for _, match := range matches {
		m.matchesTotal.WithLabelValues(match.MatchType).Inc()
	}
}

// RecordSuggestions adds the suggestions of one run, split by kind.
func (m *Metrics) RecordSuggestions(suggestions []domain.Suggestion) {
	for _, s := range suggestions {
		m.suggestionsTotal.WithLabelValues(s.Kind).Inc()
	}
}

// RecordDisputes adds the dispute cases of one detection pass, split by kind.
func (m *Metrics) RecordDisputes(cases []domain.DisputeCase) {
	for _, c := range cases {
		m.disputesTotal.WithLabelValues(c.Kind).Inc()
	}
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// GetEngineSnapshot returns a snapshot of engine metrics suitable for the
// GET /v1/metrics/reconciliation endpoint.
func (m *Metrics) GetEngineSnapshot() *domain.EngineMetrics {
	// Gather current values from Prometheus counters.
	// Note: Prometheus counters expose cumulative values.
	success := getCounterValue(m.runsTotal, "success")
	failed := getCounterValue(m.runsTotal, "error")
	totalRuns := success + failed

	exact := getCounterValue(m.matchesTotal, domain.MatchTypeExact)
	fuzzy := getCounterValue(m.matchesTotal, domain.MatchTypeFuzzy)
	partial := getCounterValue(m.matchesTotal, domain.MatchTypePartial)

	suggestions := float64(0)
	for _, kind := range []string{
		domain.SuggestionMissingTransaction,
		domain.SuggestionDuplicateTransaction,
		domain.SuggestionAmountVariance,
		domain.SuggestionTimingDifference,
	} {
		suggestions += getCounterValue(m.suggestionsTotal, kind)
	}

	disputes := float64(0)
	for _, kind := range []string{
		domain.DisputeUnauthorizedTransaction,
		domain.DisputeIncorrectAmount,
		domain.DisputeDuplicateCharge,
		domain.DisputeServiceNotReceived,
	} {
		disputes += getCounterValue(m.disputesTotal, kind)
	}

	cacheHits := getCounterValue(m.cacheHits, "report")
	cacheMisses := getCounterValue(m.cacheMisses, "report")

	errorRate := float64(0)
	if totalRuns > 0 {
		errorRate = failed / totalRuns
	}
	cacheHitRate := float64(0)
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	return &domain.EngineMetrics{
		TotalRuns:        int64(totalRuns),
		ErrorRate:        errorRate,
		ExactMatches:     int64(exact),
		FuzzyMatches:     int64(fuzzy),
		PartialMatches:   int64(partial),
		SuggestionsTotal: int64(suggestions),
		DisputesTotal:    int64(disputes),
		CacheHitRate:     cacheHitRate,
		Period:           "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
