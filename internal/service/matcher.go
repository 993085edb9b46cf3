package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/ledgerlens/recon-engine/internal/config"
	"github.com/ledgerlens/recon-engine/internal/domain"
)

// Two-phase record linkage. The exact pass claims pairs whose amount, date
// and reference (or normalized description) all agree; the fuzzy pass
// scores the remaining candidates with the weighted multi-factor score and
// claims the best candidate above the acceptance threshold. Greedy, order
// stable, no backtracking: once claimed, a record is never released within
// the same run.

// matchResult is the matcher's output: the match list plus the residual
// sets, all in input order.
type matchResult struct {
	Matches       []domain.Match
	UnmatchedBank []domain.BankTransaction
	UnmatchedBook []domain.BookTransaction
}

// fuzzyBreakdown records which sub-factors contributed to a combined score,
// with the concrete values used to phrase the explanation.
type fuzzyBreakdown struct {
	amountScore float64
	dateScore   float64
	similarity  float64
	amountDiff  float64
	daysApart   int
}

func matchTransactions(cfg config.EngineConfig, bank []domain.BankTransaction, book []domain.BookTransaction) matchResult {
	matches := make([]domain.Match, 0, len(bank))
	bankClaimed := make([]bool, len(bank))
	bookClaimed := make([]bool, len(book))

	// Pass 1: exact. First qualifying, not-yet-claimed book entry wins.
	for i, bt := range bank {
		for j, bk := range book {
			if bookClaimed[j] || !isExactMatch(bt, bk) {
				continue
			}
			matches = append(matches, domain.Match{
				BookTransactionID: bk.ID,
				BankTransactionID: bt.ID,
				ConfidenceScore:   cfg.ExactConfidence,
				MatchType:         domain.MatchTypeExact,
				Explanation:       exactExplanation(bt, bk),
			})
			bankClaimed[i] = true
			bookClaimed[j] = true
			break
		}
	}

	// Pass 2: fuzzy. Best-scoring unclaimed candidate above the threshold;
	// ties keep the earlier book entry.
	for i, bt := range bank {
		if bankClaimed[i] {
			continue
		}

		bestJ := -1
		bestScore := 0.0
		var bestBd fuzzyBreakdown

		for j, bk := range book {
			if bookClaimed[j] {
				continue
			}
			score, bd, ok := fuzzyScore(cfg, bt, bk)
			if !ok || score <= cfg.MatchThreshold {
				continue
			}
			if score > bestScore {
				bestJ, bestScore, bestBd = j, score, bd
			}
		}

		if bestJ < 0 {
			continue
		}

		matchType := domain.MatchTypePartial
		if bestScore > cfg.FuzzyThreshold {
			matchType = domain.MatchTypeFuzzy
		}
		matches = append(matches, domain.Match{
			BookTransactionID: book[bestJ].ID,
			BankTransactionID: bt.ID,
			ConfidenceScore:   bestScore,
			MatchType:         matchType,
			VarianceAmount:    bestBd.amountDiff,
			Explanation:       fuzzyExplanation(bestBd),
		})
		bankClaimed[i] = true
		bookClaimed[bestJ] = true
	}

	res := matchResult{
		Matches:       matches,
		UnmatchedBank: make([]domain.BankTransaction, 0),
		UnmatchedBook: make([]domain.BookTransaction, 0),
	}
	for i, bt := range bank {
		if !bankClaimed[i] {
			res.UnmatchedBank = append(res.UnmatchedBank, bt)
		}
	}
	for j, bk := range book {
		if !bookClaimed[j] {
			res.UnmatchedBook = append(res.UnmatchedBook, bk)
		}
	}
	return res
}

// isExactMatch requires amount agreement within a cent, the same calendar
// date, and either equal reference numbers or equal normalized descriptions.
func isExactMatch(bt domain.BankTransaction, bk domain.BookTransaction) bool {
	if math.Abs(bt.Amount-math.Abs(bk.Amount)) >= 0.01 {
		return false
	}
	if !sameCalendarDay(bt.Date, bk.Date) {
		return false
	}
	if bt.ReferenceNumber != "" && bt.ReferenceNumber == bk.ReferenceNumber {
		return true
	}
	return normalizeDescription(bt.Description) == normalizeDescription(bk.Description)
}

// fuzzyScore computes the combined weighted score for a candidate pairing.
// ok is false when either hard-reject condition fires, which removes the
// candidate from consideration entirely.
func fuzzyScore(cfg config.EngineConfig, bt domain.BankTransaction, bk domain.BookTransaction) (float64, fuzzyBreakdown, bool) {
	bankAmount := bt.Amount
	bookAmount := math.Abs(bk.Amount)

	aScore, aReject := amountScore(bankAmount, bookAmount, cfg)
	if aReject {
		return 0, fuzzyBreakdown{}, false
	}
	dScore, dReject := dateScore(bt.Date, bk.Date, cfg)
	if dReject {
		return 0, fuzzyBreakdown{}, false
	}
	sim := descriptionSimilarity(bt.Description, bk.Description)

	bd := fuzzyBreakdown{
		amountScore: aScore,
		dateScore:   dScore,
		similarity:  sim,
		amountDiff:  math.Abs(bankAmount - bookAmount),
		daysApart:   dayGap(bt.Date, bk.Date),
	}
	return clamp01(aScore + dScore + sim*0.3), bd, true
}

func exactExplanation(bt domain.BankTransaction, bk domain.BookTransaction) string {
	if bt.ReferenceNumber != "" && bt.ReferenceNumber == bk.ReferenceNumber {
		return fmt.Sprintf("amount and date agree, reference %s matches", bt.ReferenceNumber)
	}
	return "amount, date and description agree"
}

// fuzzyExplanation phrases the contributing sub-factors with concrete values.
func fuzzyExplanation(bd fuzzyBreakdown) string {
	var parts []string
	if bd.amountScore > 0 {
		if bd.amountDiff < 0.01 {
			parts = append(parts, "amounts equal")
		} else {
			parts = append(parts, fmt.Sprintf("amounts within %.2f", bd.amountDiff))
		}
	}
	if bd.dateScore > 0 {
		if bd.daysApart == 0 {
			parts = append(parts, "same date")
		} else {
			parts = append(parts, fmt.Sprintf("dates %d day(s) apart", bd.daysApart))
		}
	}
	if bd.similarity > 0 {
		parts = append(parts, fmt.Sprintf("descriptions %.0f%% similar", bd.similarity*100))
	}
	if len(parts) == 0 {
		return "weak multi-factor match"
	}
	return "matched on " + strings.Join(parts, ", ")
}
