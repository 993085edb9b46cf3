package service

import (
	"testing"

	"github.com/ledgerlens/recon-engine/internal/config"
	"github.com/ledgerlens/recon-engine/internal/domain"
)

func TestGenerateSuggestions_MissingTransactions(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	res := matchResult{
		UnmatchedBank: []domain.BankTransaction{
			{ID: "b1", Date: janDay(7), Description: "Wire Transfer Inbound", Amount: 12000.00, Type: domain.TxTypeCredit},
			{ID: "b2", Date: janDay(8), Description: "Card fee", Amount: 25.00, Type: domain.TxTypeDebit},
		},
		UnmatchedBook: []domain.BookTransaction{
			{ID: "k1", Date: janDay(9), Description: "Consulting retainer", Amount: -3000.00},
		},
	}

	suggestions := generateSuggestions(cfg, res, res.UnmatchedBank, res.UnmatchedBook)

	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions (small fee filtered), got %d", len(suggestions))
	}

	// Sorted by impact: the 12000 wire first.
	first := suggestions[0]
	if first.Kind != domain.SuggestionMissingTransaction || first.RelatedBank == nil || first.RelatedBank.ID != "b1" {
		t.Errorf("expected the unmatched wire first, got %+v", first)
	}
	if first.Confidence != 0.7 {
		t.Errorf("bank-side missing transaction should have confidence 0.7, got %v", first.Confidence)
	}
	if first.ImpactAmount != 12000.00 {
		t.Errorf("expected impact 12000, got %v", first.ImpactAmount)
	}

	second := suggestions[1]
	if second.Kind != domain.SuggestionMissingTransaction || second.RelatedBook == nil || second.RelatedBook.ID != "k1" {
		t.Errorf("expected the unmatched book entry second, got %+v", second)
	}
	if second.Confidence != 0.8 {
		t.Errorf("book-side missing transaction should have confidence 0.8, got %v", second.Confidence)
	}
	if second.ImpactAmount != 3000.00 {
		t.Errorf("impact should be the absolute amount, got %v", second.ImpactAmount)
	}
}

func TestDetectDuplicates_AdjacentDays(t *testing.T) {
	unmatched := []domain.BankTransaction{
		{ID: "b1", Date: janDay(10), Description: "Office Supplies", Amount: 500.00, Type: domain.TxTypeDebit},
		{ID: "b2", Date: janDay(11), Description: "Office Supplies", Amount: 500.00, Type: domain.TxTypeDebit},
	}

	out := detectDuplicates(unmatched)

	if len(out) != 1 {
		t.Fatalf("expected the pair reported once, got %d suggestions", len(out))
	}
	s := out[0]
	if s.Kind != domain.SuggestionDuplicateTransaction {
		t.Errorf("expected duplicate kind, got %s", s.Kind)
	}
	if s.RelatedBank.ID != "b1" || s.DuplicateOf.ID != "b2" {
		t.Errorf("pair wired up wrong: %s / %s", s.RelatedBank.ID, s.DuplicateOf.ID)
	}
	// Identical descriptions one day apart: similarity 1.0 damped by 0.9.
	if s.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", s.Confidence)
	}
}

func TestDetectDuplicates_SameDayCapped(t *testing.T) {
	unmatched := []domain.BankTransaction{
		{ID: "b1", Date: janDay(10), Description: "Subscription Renewal", Amount: 49.00, Type: domain.TxTypeDebit},
		{ID: "b2", Date: janDay(10), Description: "Subscription Renewal", Amount: 49.00, Type: domain.TxTypeDebit},
	}

	out := detectDuplicates(unmatched)

	if len(out) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(out))
	}
	if out[0].Confidence != 0.95 {
		t.Errorf("same-day identical pair should cap at 0.95, got %v", out[0].Confidence)
	}
}

func TestDetectDuplicates_DifferentAmountsIgnored(t *testing.T) {
	unmatched := []domain.BankTransaction{
		{ID: "b1", Date: janDay(10), Description: "Office Supplies", Amount: 500.00, Type: domain.TxTypeDebit},
		{ID: "b2", Date: janDay(10), Description: "Office Supplies", Amount: 510.00, Type: domain.TxTypeDebit},
	}

	if out := detectDuplicates(unmatched); len(out) != 0 {
		t.Errorf("different amounts should not pair, got %+v", out)
	}
}

func TestMatchQualitySuggestions(t *testing.T) {
	bank := []domain.BankTransaction{
		{ID: "b1", Date: janDay(5), Description: "Vendor Payment", Amount: 8200.00, Type: domain.TxTypeDebit},
		{ID: "b2", Date: janDay(10), Description: "Rent Payment", Amount: 2500.00, Type: domain.TxTypeDebit},
	}
	book := []domain.BookTransaction{
		{ID: "k1", Date: janDay(6), Description: "Vendor payable", Amount: -8195.00},
		{ID: "k2", Date: janDay(13), Description: "Rent", Amount: -2500.00},
	}
	matches := []domain.Match{
		{BankTransactionID: "b1", BookTransactionID: "k1", MatchType: domain.MatchTypePartial, ConfidenceScore: 0.75, VarianceAmount: 5.00},
		{BankTransactionID: "b2", BookTransactionID: "k2", MatchType: domain.MatchTypeFuzzy, ConfidenceScore: 0.91, VarianceAmount: 0},
	}

	out := matchQualitySuggestions(matches, bank, book)

	if len(out) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(out))
	}
	if out[0].Kind != domain.SuggestionAmountVariance || out[0].ImpactAmount != 5.00 {
		t.Errorf("expected amount variance on the partial match, got %+v", out[0])
	}
	if out[1].Kind != domain.SuggestionTimingDifference || out[1].Confidence != 0.6 {
		t.Errorf("expected timing difference on the date-drifted fuzzy match, got %+v", out[1])
	}
}

func TestGenerateSuggestions_SortedByImpact(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	res := matchResult{
		UnmatchedBank: []domain.BankTransaction{
			{ID: "b1", Date: janDay(2), Description: "Equipment Lease", Amount: 900.00, Type: domain.TxTypeDebit},
			{ID: "b2", Date: janDay(3), Description: "Wire Transfer", Amount: 4000.00, Type: domain.TxTypeCredit},
		},
		UnmatchedBook: []domain.BookTransaction{
			{ID: "k1", Date: janDay(4), Description: "Insurance premium", Amount: -1800.00},
		},
	}

	suggestions := generateSuggestions(cfg, res, res.UnmatchedBank, res.UnmatchedBook)

	for i := 1; i < len(suggestions); i++ {
		if suggestions[i].ImpactAmount > suggestions[i-1].ImpactAmount {
			t.Fatalf("suggestions not sorted by impact: %v before %v",
				suggestions[i-1].ImpactAmount, suggestions[i].ImpactAmount)
		}
	}
}
