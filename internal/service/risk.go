package service

import (
	"fmt"
	"math"

	"github.com/ledgerlens/recon-engine/internal/config"
	"github.com/ledgerlens/recon-engine/internal/domain"
)

// Risk assessment: pure aggregation of heuristics over the matcher's
// output. Each heuristic contributes at most one indicator; the overall
// score weights the indicator counts plus the absolute period variance.

func assessRisk(cfg config.EngineConfig, matches []domain.Match, unmatchedBank []domain.BankTransaction, unmatchedBook []domain.BookTransaction, totalVariance float64) domain.RiskProfile {
	profile := domain.RiskProfile{
		FraudIndicators:  []string{},
		UnusualPatterns:  []string{},
		ComplianceIssues: []string{},
	}

	highValue := 0
	roundNumber := 0
	var unmatchedBankSum float64
	for _, bt := range unmatchedBank {
		unmatchedBankSum += bt.Amount
		if bt.Amount > cfg.HighValueThreshold {
			highValue++
		}
		if bt.Amount > cfg.RoundAmountMin && math.Mod(bt.Amount, 100) < 1e-9 {
			roundNumber++
		}
	}

	if highValue > 0 {
		profile.FraudIndicators = append(profile.FraudIndicators,
			fmt.Sprintf("%d unmatched bank transaction(s) above %.0f", highValue, cfg.HighValueThreshold))
	}
	if roundNumber >= 3 {
		profile.FraudIndicators = append(profile.FraudIndicators,
			fmt.Sprintf("%d unmatched round-number transactions above %.0f", roundNumber, cfg.RoundAmountMin))
	}

	if len(matches) > 0 {
		lowConfidence := 0
		for _, m := range matches {
			if m.ConfidenceScore < 0.8 {
				lowConfidence++
			}
		}
		if float64(lowConfidence)/float64(len(matches)) > 0.3 {
			profile.UnusualPatterns = append(profile.UnusualPatterns,
				fmt.Sprintf("%d of %d matches have confidence below 0.8", lowConfidence, len(matches)))
		}
	}

	var unmatchedBookSum float64
	for _, bk := range unmatchedBook {
		unmatchedBookSum += math.Abs(bk.Amount)
	}
	if divergence := math.Abs(unmatchedBankSum - unmatchedBookSum); divergence > cfg.VarianceAlertLimit {
		profile.UnusualPatterns = append(profile.UnusualPatterns,
			fmt.Sprintf("unmatched bank and book totals diverge by %.2f", divergence))
	}

	unmatchedCount := len(unmatchedBank) + len(unmatchedBook)
	if float64(unmatchedCount) > 0.2*float64(len(matches)) && unmatchedCount > 0 {
		profile.ComplianceIssues = append(profile.ComplianceIssues,
			fmt.Sprintf("%d unmatched transactions against %d matches exceed the 20%% reconciliation bar", unmatchedCount, len(matches)))
	}

	profile.OverallRiskScore = math.Min(1,
		0.4*float64(len(profile.FraudIndicators))+
			0.3*float64(len(profile.UnusualPatterns))+
			0.2*float64(len(profile.ComplianceIssues))+
			0.1*(totalVariance/50000))

	return profile
}
