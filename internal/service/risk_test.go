package service

import (
	"testing"

	"github.com/ledgerlens/recon-engine/internal/config"
	"github.com/ledgerlens/recon-engine/internal/domain"
)

func TestAssessRisk_CleanRunScoresZero(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	matches := []domain.Match{
		{BankTransactionID: "b1", BookTransactionID: "k1", MatchType: domain.MatchTypeExact, ConfidenceScore: 0.98},
	}

	profile := assessRisk(cfg, matches, nil, nil, 0)

	if profile.OverallRiskScore != 0 {
		t.Errorf("clean run should score 0, got %v", profile.OverallRiskScore)
	}
	if len(profile.FraudIndicators) != 0 || len(profile.UnusualPatterns) != 0 || len(profile.ComplianceIssues) != 0 {
		t.Errorf("clean run should have no indicators: %+v", profile)
	}
	if profile.FraudIndicators == nil || profile.UnusualPatterns == nil || profile.ComplianceIssues == nil {
		t.Error("indicator slices must be initialized, not nil")
	}
}

func TestAssessRisk_HighValueUnmatched(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	unmatchedBank := []domain.BankTransaction{
		{ID: "b1", Date: janDay(7), Description: "Wire Transfer Inbound", Amount: 12000.00, Type: domain.TxTypeCredit},
	}

	profile := assessRisk(cfg, nil, unmatchedBank, nil, 12000)

	if len(profile.FraudIndicators) == 0 {
		t.Fatal("expected a high-value fraud indicator")
	}
	if profile.OverallRiskScore < 0.4 {
		t.Errorf("fraud indicator should contribute at least 0.4, got %v", profile.OverallRiskScore)
	}
}

func TestAssessRisk_RoundNumberPattern(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	unmatchedBank := []domain.BankTransaction{
		{ID: "b1", Amount: 1500.00, Date: janDay(2), Type: domain.TxTypeDebit},
		{ID: "b2", Amount: 2000.00, Date: janDay(4), Type: domain.TxTypeDebit},
		{ID: "b3", Amount: 2600.00, Date: janDay(6), Type: domain.TxTypeDebit},
	}

	profile := assessRisk(cfg, nil, unmatchedBank, nil, 0)

	found := false
	for _, ind := range profile.FraudIndicators {
		if ind != "" {
			found = true
		}
	}
	if !found {
		t.Error("three round-number unmatched transactions should raise a fraud indicator")
	}

	// Two round numbers are not enough.
	profile = assessRisk(cfg, nil, unmatchedBank[:2], nil, 0)
	for _, ind := range profile.FraudIndicators {
		t.Errorf("unexpected fraud indicator for only two round amounts: %s", ind)
	}
}

func TestAssessRisk_LowConfidenceMatches(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	matches := []domain.Match{
		{ConfidenceScore: 0.98, MatchType: domain.MatchTypeExact},
		{ConfidenceScore: 0.75, MatchType: domain.MatchTypePartial},
		{ConfidenceScore: 0.72, MatchType: domain.MatchTypePartial},
	}

	profile := assessRisk(cfg, matches, nil, nil, 0)

	if len(profile.UnusualPatterns) == 0 {
		t.Error("two of three matches below 0.8 should raise an unusual pattern")
	}
}

func TestAssessRisk_UnmatchedDivergence(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	unmatchedBank := []domain.BankTransaction{
		{ID: "b1", Amount: 9000.00, Date: janDay(2), Type: domain.TxTypeDebit},
	}
	unmatchedBook := []domain.BookTransaction{
		{ID: "k1", Amount: -500.00, Date: janDay(3)},
	}

	profile := assessRisk(cfg, []domain.Match{{ConfidenceScore: 0.98}, {ConfidenceScore: 0.98}, {ConfidenceScore: 0.98},
		{ConfidenceScore: 0.98}, {ConfidenceScore: 0.98}, {ConfidenceScore: 0.98},
		{ConfidenceScore: 0.98}, {ConfidenceScore: 0.98}, {ConfidenceScore: 0.98}, {ConfidenceScore: 0.98}},
		unmatchedBank, unmatchedBook, 0)

	if len(profile.UnusualPatterns) == 0 {
		t.Error("8500 divergence between unmatched totals should raise an unusual pattern")
	}
}

func TestAssessRisk_ComplianceRatio(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	matches := []domain.Match{{ConfidenceScore: 0.98}, {ConfidenceScore: 0.98}}
	unmatchedBank := []domain.BankTransaction{{ID: "b1", Amount: 50.00, Date: janDay(2), Type: domain.TxTypeDebit}}

	profile := assessRisk(cfg, matches, unmatchedBank, nil, 0)

	if len(profile.ComplianceIssues) == 0 {
		t.Error("1 unmatched against 2 matches exceeds the 20% bar")
	}
}

func TestAssessRisk_ScoreBoundsAndMonotonicity(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	base := assessRisk(cfg, nil, []domain.BankTransaction{
		{ID: "b1", Amount: 12000.00, Date: janDay(2), Type: domain.TxTypeCredit},
	}, nil, 12000)

	worse := assessRisk(cfg, nil, []domain.BankTransaction{
		{ID: "b1", Amount: 12000.00, Date: janDay(2), Type: domain.TxTypeCredit},
		{ID: "b2", Amount: 15000.00, Date: janDay(4), Type: domain.TxTypeCredit},
	}, nil, 27000)

	if worse.OverallRiskScore < base.OverallRiskScore {
		t.Errorf("adding unmatched volume must not lower the score: %v -> %v",
			base.OverallRiskScore, worse.OverallRiskScore)
	}

	// Saturate every factor and confirm the cap.
	extreme := assessRisk(cfg,
		[]domain.Match{{ConfidenceScore: 0.71}, {ConfidenceScore: 0.72}},
		[]domain.BankTransaction{
			{ID: "b1", Amount: 20000.00, Date: janDay(2), Type: domain.TxTypeCredit},
			{ID: "b2", Amount: 30000.00, Date: janDay(3), Type: domain.TxTypeCredit},
			{ID: "b3", Amount: 40000.00, Date: janDay(4), Type: domain.TxTypeCredit},
		},
		nil, 500000)

	if extreme.OverallRiskScore > 1 {
		t.Errorf("score must be capped at 1, got %v", extreme.OverallRiskScore)
	}
	if extreme.OverallRiskScore != 1 {
		t.Errorf("saturated factors should pin the score at 1, got %v", extreme.OverallRiskScore)
	}
}
