package observability

import (
	"testing"
	"time"

	"github.com/ledgerlens/recon-engine/internal/domain"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide; each owns a private registry.
	m1 := NewMetrics()
	m2 := NewMetrics()

	if m1.Registry == m2.Registry {
		t.Error("expected separate registries per Metrics instance")
	}
}

func TestGetEngineSnapshot(t *testing.T) {
	m := NewMetrics()

	m.IncrRun("success")
	m.IncrRun("success")
	m.IncrRun("error")
	m.RecordRunDuration("reconcile", 50*time.Millisecond)
	m.RecordMatches([]domain.Match{
		{MatchType: domain.MatchTypeExact},
		{MatchType: domain.MatchTypeFuzzy},
		{MatchType: domain.MatchTypeFuzzy},
	})
	m.RecordSuggestions([]domain.Suggestion{
		{Kind: domain.SuggestionMissingTransaction},
		{Kind: domain.SuggestionDuplicateTransaction},
	})
	m.RecordDisputes([]domain.DisputeCase{
		{Kind: domain.DisputeUnauthorizedTransaction},
	})
	m.IncrCacheHit("report")
	m.IncrCacheMiss("report")
	m.IncrCacheMiss("report")
	m.IncrCacheMiss("report")

	s := m.GetEngineSnapshot()

	if s.TotalRuns != 3 {
		t.Errorf("expected 3 runs, got %d", s.TotalRuns)
	}
	if s.ErrorRate < 0.33 || s.ErrorRate > 0.34 {
		t.Errorf("expected error rate ~1/3, got %v", s.ErrorRate)
	}
	if s.ExactMatches != 1 || s.FuzzyMatches != 2 || s.PartialMatches != 0 {
		t.Errorf("unexpected match counts: %+v", s)
	}
	if s.SuggestionsTotal != 2 {
		t.Errorf("expected 2 suggestions, got %d", s.SuggestionsTotal)
	}
	if s.DisputesTotal != 1 {
		t.Errorf("expected 1 dispute, got %d", s.DisputesTotal)
	}
	if s.CacheHitRate != 0.25 {
		t.Errorf("expected cache hit rate 0.25, got %v", s.CacheHitRate)
	}
}

func TestGetEngineSnapshot_Empty(t *testing.T) {
	s := NewMetrics().GetEngineSnapshot()

	if s.TotalRuns != 0 || s.ErrorRate != 0 || s.CacheHitRate != 0 {
		t.Errorf("fresh metrics should snapshot to zeros, got %+v", s)
	}
}
