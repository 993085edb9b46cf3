package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerlens/recon-engine/internal/domain"
)

// Reconcile runs the full engine for one account and period: eligible
// record filtering, two-phase matching, suggestion generation, risk
// assessment, and period balance computation. Deterministic for identical
// inputs; reports are memoized in the TTL cache.
func (s *ReconciliationService) Reconcile(ctx context.Context, accountID string, periodStart, periodEnd time.Time) (*domain.ReconciliationReport, error) {
	ctx, span := reconTracer.Start(ctx, "ReconciliationService.Reconcile")
	defer span.End()
	span.SetAttributes(
		attribute.String("account.id", accountID),
		attribute.String("period.start", periodStart.Format(time.DateOnly)),
		attribute.String("period.end", periodEnd.Format(time.DateOnly)),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRunDuration("reconcile", time.Since(start))
	}()

	if accountID == "" {
		return nil, &domain.ErrValidation{Field: "account_id", Message: "required"}
	}
	if periodEnd.Before(periodStart) {
		return nil, &domain.ErrValidation{Field: "period", Message: "end date before start date"}
	}

	cacheKey := fmt.Sprintf("report:%s:%s:%s",
		accountID, periodStart.Format(time.DateOnly), periodEnd.Format(time.DateOnly))
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("report")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("report")

	// Unknown account means no starting balance; processing continues.
	beginning := 0.0
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if !errors.As(err, &notFound) {
			s.metrics.IncrRun("error")
			return nil, err
		}
		s.logger.Warn("no starting balance found, defaulting to zero",
			zap.String("account_id", accountID))
	} else {
		beginning = account.BeginningBalance
	}

	// Fetch both sides of the ledger concurrently.
	var bank []domain.BankTransaction
	var book []domain.BookTransaction

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txns, err := s.store.ListBankTransactions(gCtx, accountID, periodStart, periodEnd)
		if err != nil {
			s.metrics.IncrExternalError("bank_feed")
			return fmt.Errorf("bank transactions fetch: %w", err)
		}
		bank = txns
		return nil
	})
	g.Go(func() error {
		txns, err := s.store.ListBookTransactions(gCtx, accountID, periodStart, periodEnd)
		if err != nil {
			s.metrics.IncrExternalError("book_ledger")
			return fmt.Errorf("book transactions fetch: %w", err)
		}
		book = txns
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.IncrRun("error")
		return nil, err
	}

	bank = eligibleBank(bank, accountID, periodStart, periodEnd)
	book = eligibleBook(book, accountID, periodStart, periodEnd)

	res := matchTransactions(s.cfg, bank, book)
	suggestions := generateSuggestions(s.cfg, res, bank, book)

	bankBalance := beginning
	for _, bt := range bank {
		bankBalance += bt.SignedAmount()
	}
	bookBalance := beginning
	for _, bk := range book {
		bookBalance += bk.Amount
	}
	variance := bankBalance - bookBalance

	risk := assessRisk(s.cfg, res.Matches, res.UnmatchedBank, res.UnmatchedBook, math.Abs(variance))

	report := &domain.ReconciliationReport{
		AccountID:        accountID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		BeginningBalance: beginning,
		BankBalance:      bankBalance,
		BookBalance:      bookBalance,
		Variance:         variance,
		Matches:          res.Matches,
		UnmatchedBank:    res.UnmatchedBank,
		UnmatchedBook:    res.UnmatchedBook,
		Suggestions:      suggestions,
		Risk:             risk,
		Summary:          buildSummary(res),
		GeneratedAt:      time.Now(),
	}

	s.metrics.RecordMatches(res.Matches)
	s.metrics.RecordSuggestions(suggestions)
	s.metrics.IncrRun("success")
	s.cache.Set(cacheKey, report)

	s.logger.Info("reconciliation complete",
		zap.String("account_id", accountID),
		zap.Int("matches", len(res.Matches)),
		zap.Int("unmatched_bank", len(res.UnmatchedBank)),
		zap.Int("unmatched_book", len(res.UnmatchedBook)),
		zap.Float64("variance", variance),
		zap.Float64("risk_score", risk.OverallRiskScore),
	)
	return report, nil
}

// ReconcileAll reconciles every known account for the period. Accounts are
// independent, so they run concurrently, capped by the bulkhead. Reports
// come back in account order.
func (s *ReconciliationService) ReconcileAll(ctx context.Context, periodStart, periodEnd time.Time) ([]*domain.ReconciliationReport, error) {
	ctx, span := reconTracer.Start(ctx, "ReconciliationService.ReconcileAll")
	defer span.End()

	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*domain.ReconciliationReport, len(accounts))
	g, gCtx := errgroup.WithContext(ctx)
	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			if err := s.bulkhead.Acquire(gCtx); err != nil {
				return err
			}
			defer s.bulkhead.Release()

			report, err := s.Reconcile(gCtx, account.ID, periodStart, periodEnd)
			if err != nil {
				return fmt.Errorf("account %s: %w", account.ID, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// eligibleBank keeps feed records for the account and period that have not
// already been reconciled, preserving input order.
func eligibleBank(txns []domain.BankTransaction, accountID string, from, to time.Time) []domain.BankTransaction {
	out := make([]domain.BankTransaction, 0, len(txns))
	for _, t := range txns {
		if t.AccountID != accountID || t.Reconciled {
			continue
		}
		if !inPeriod(t.Date, from, to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// eligibleBook keeps ledger entries for the account and period whose
// reconciliation status is still open, preserving input order.
func eligibleBook(txns []domain.BookTransaction, accountID string, from, to time.Time) []domain.BookTransaction {
	out := make([]domain.BookTransaction, 0, len(txns))
	for _, t := range txns {
		if t.AccountID != accountID || t.ReconciliationStatus == domain.BookStatusReconciled {
			continue
		}
		if !inPeriod(t.Date, from, to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// inPeriod checks [from, to] inclusive at calendar-day granularity.
func inPeriod(d, from, to time.Time) bool {
	if sameCalendarDay(d, from) || sameCalendarDay(d, to) {
		return true
	}
	return d.After(from) && d.Before(to)
}

func buildSummary(res matchResult) domain.ReconciliationSummary {
	summary := domain.ReconciliationSummary{
		TotalBankTransactions: len(res.Matches) + len(res.UnmatchedBank),
		TotalBookTransactions: len(res.Matches) + len(res.UnmatchedBook),
		MatchedCount:          len(res.Matches),
	}
	for _, m := range res.Matches {
		switch m.MatchType {
		case domain.MatchTypeExact:
			summary.ExactMatches++
		case domain.MatchTypeFuzzy:
			summary.FuzzyMatches++
		case domain.MatchTypePartial:
			summary.PartialMatches++
		}
	}
	for _, bt := range res.UnmatchedBank {
		summary.UnmatchedBankAmount += bt.Amount
	}
	for _, bk := range res.UnmatchedBook {
		summary.UnmatchedBookAmount += math.Abs(bk.Amount)
	}
	if total := summary.TotalBankTransactions + summary.TotalBookTransactions; total > 0 {
		summary.MatchRate = float64(2*summary.MatchedCount) / float64(total)
	}
	return summary
}
