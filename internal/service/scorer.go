package service

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/ledgerlens/recon-engine/internal/config"
)

// Similarity scoring primitives shared by the matcher, the suggestion
// generator and the dispute detector. All functions are pure.

var punctuationRE = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeDescription canonicalizes free text for comparison:
// lower-case, punctuation stripped, whitespace collapsed. Total function.
func normalizeDescription(s string) string {
	s = strings.ToLower(s)
	s = punctuationRE.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// amountScore returns the closeness tier for two unsigned amounts and
// whether the pairing is disallowed outright (hard reject).
func amountScore(a, b float64, cfg config.EngineConfig) (score float64, reject bool) {
	diff := math.Abs(a - b)
	if diff > cfg.AmountRejectLimit {
		return 0, true
	}
	switch {
	case diff < 0.01:
		return 0.4, false
	case diff < 1:
		return 0.3, false
	case diff < 10:
		return 0.2, false
	default:
		return 0, false
	}
}

// dateScore returns the closeness tier for two dates and whether the gap
// disallows the pairing outright.
func dateScore(a, b time.Time, cfg config.EngineConfig) (score float64, reject bool) {
	gap := dayGap(a, b)
	if gap > cfg.DateRejectDays {
		return 0, true
	}
	switch {
	case gap == 0:
		return 0.3, false
	case gap <= 2:
		return 0.2, false
	case gap <= 5:
		return 0.1, false
	default:
		return 0, false
	}
}

// descriptionSimilarity is a token-overlap measure in [0,1]. Tokens longer
// than 3 characters count; a token matches when it contains, or is
// contained in, a token on the other side. Equal normalized strings
// short-circuit to 1.
func descriptionSimilarity(a, b string) float64 {
	na := normalizeDescription(a)
	nb := normalizeDescription(b)
	if na == nb {
		return 1.0
	}

	ta := significantTokens(na)
	tb := significantTokens(nb)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	hits := 0
	for _, w := range ta {
		for _, v := range tb {
			if strings.Contains(v, w) || strings.Contains(w, v) {
				hits++
				break
			}
		}
	}

	denom := len(ta)
	if len(tb) > denom {
		denom = len(tb)
	}
	return float64(hits) / float64(denom)
}

func significantTokens(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

// sameCalendarDay reports whether two timestamps fall on the same date.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dayGap returns the absolute calendar-day distance between two timestamps,
// ignoring the time-of-day component.
func dayGap(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	gap := int(da.Sub(db) / (24 * time.Hour))
	if gap < 0 {
		gap = -gap
	}
	return gap
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
