package service

import (
	"math"
	"sort"

	"github.com/ledgerlens/recon-engine/internal/config"
	"github.com/ledgerlens/recon-engine/internal/domain"
)

// Suggestion generation over the matcher's output: missing-transaction
// findings for the residual sets, duplicate detection within the bank
// residual, and variance/timing findings for imperfect matches.

const (
	actionMissingFromBank = "verify transaction was processed by bank or add to bank statement"
	actionMissingFromBook = "create matching book entry or investigate"
	actionDuplicate       = "review potential duplicate charge and request reversal if confirmed"
	actionAmountVariance  = "review amount discrepancy between matched bank and book records"
	actionTimingDiff      = "confirm posting-date difference between bank and book records"
)

func generateSuggestions(cfg config.EngineConfig, res matchResult, bank []domain.BankTransaction, book []domain.BookTransaction) []domain.Suggestion {
	suggestions := make([]domain.Suggestion, 0)

	// Book entries the bank never saw.
	for i := range res.UnmatchedBook {
		bk := res.UnmatchedBook[i]
		if math.Abs(bk.Amount) <= cfg.SuggestionMinAmount {
			continue
		}
		suggestions = append(suggestions, domain.Suggestion{
			Kind:         domain.SuggestionMissingTransaction,
			RelatedBook:  &res.UnmatchedBook[i],
			Action:       actionMissingFromBank,
			Confidence:   0.8,
			ImpactAmount: math.Abs(bk.Amount),
		})
	}

	// Bank entries the books never saw.
	for i := range res.UnmatchedBank {
		bt := res.UnmatchedBank[i]
		if bt.Amount <= cfg.SuggestionMinAmount {
			continue
		}
		suggestions = append(suggestions, domain.Suggestion{
			Kind:         domain.SuggestionMissingTransaction,
			RelatedBank:  &res.UnmatchedBank[i],
			Action:       actionMissingFromBook,
			Confidence:   0.7,
			ImpactAmount: bt.Amount,
		})
	}

	suggestions = append(suggestions, detectDuplicates(res.UnmatchedBank)...)
	suggestions = append(suggestions, matchQualitySuggestions(res.Matches, bank, book)...)

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].ImpactAmount > suggestions[j].ImpactAmount
	})
	return suggestions
}

// detectDuplicates flags unordered pairs within the bank residual that look
// like the same charge posted twice. Each pair is emitted once.
func detectDuplicates(unmatched []domain.BankTransaction) []domain.Suggestion {
	var out []domain.Suggestion
	for i := 0; i < len(unmatched); i++ {
		for j := i + 1; j < len(unmatched); j++ {
			a, b := unmatched[i], unmatched[j]
			if math.Abs(a.Amount-b.Amount) >= 0.01 {
				continue
			}
			gap := dayGap(a.Date, b.Date)
			sim := descriptionSimilarity(a.Description, b.Description)

			isDuplicate := (gap <= 1 && sim > 0.8) || (gap <= 3 && sim > 0.9)
			if !isDuplicate {
				continue
			}

			confidence := sim
			if gap != 0 {
				confidence *= 0.9
			}
			out = append(out, domain.Suggestion{
				Kind:         domain.SuggestionDuplicateTransaction,
				RelatedBank:  &unmatched[i],
				DuplicateOf:  &unmatched[j],
				Action:       actionDuplicate,
				Confidence:   math.Min(0.95, confidence),
				ImpactAmount: a.Amount,
			})
		}
	}
	return out
}

// matchQualitySuggestions surfaces imperfect matches worth a second look:
// partial matches carrying an amount variance, and fuzzy matches whose
// amounts agree but whose posting dates drifted.
func matchQualitySuggestions(matches []domain.Match, bank []domain.BankTransaction, book []domain.BookTransaction) []domain.Suggestion {
	bankByID := make(map[string]*domain.BankTransaction, len(bank))
	for i := range bank {
		bankByID[bank[i].ID] = &bank[i]
	}
	bookByID := make(map[string]*domain.BookTransaction, len(book))
	for i := range book {
		bookByID[book[i].ID] = &book[i]
	}

	var out []domain.Suggestion
	for _, m := range matches {
		bt := bankByID[m.BankTransactionID]
		bk := bookByID[m.BookTransactionID]
		if bt == nil || bk == nil {
			continue
		}

		switch {
		case m.MatchType == domain.MatchTypePartial && m.VarianceAmount >= 0.01:
			out = append(out, domain.Suggestion{
				Kind:         domain.SuggestionAmountVariance,
				RelatedBank:  bt,
				RelatedBook:  bk,
				Action:       actionAmountVariance,
				Confidence:   m.ConfidenceScore,
				ImpactAmount: m.VarianceAmount,
			})
		case m.MatchType != domain.MatchTypeExact && m.VarianceAmount < 0.01 && dayGap(bt.Date, bk.Date) >= 2:
			out = append(out, domain.Suggestion{
				Kind:        domain.SuggestionTimingDifference,
				RelatedBank: bt,
				RelatedBook: bk,
				Action:      actionTimingDiff,
				Confidence:  0.6,
			})
		}
	}
	return out
}
