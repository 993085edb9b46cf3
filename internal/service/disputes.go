package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ledgerlens/recon-engine/internal/config"
	"github.com/ledgerlens/recon-engine/internal/domain"
)

// Dispute detection scans a trailing window of bank activity, independent
// of the period-based reconciliation run, for unauthorized-transaction and
// amount-discrepancy signals. Detected cases carry a static evidence
// checklist per dispute kind; nothing is persisted.

// evidenceChecklists is the static lookup of required evidence by dispute
// kind. The lists are ordered; callers treat them as checklists.
var evidenceChecklists = map[string][]string{
	domain.DisputeUnauthorizedTransaction: {
		"Bank statement showing the disputed transaction",
		"Account activity log for the surrounding period",
		"Account holder affidavit of unauthorized use",
		"Police report or fraud affidavit if filed",
	},
	domain.DisputeIncorrectAmount: {
		"Receipt or invoice showing the agreed amount",
		"Bank statement showing the posted amount",
		"Merchant correspondence about the discrepancy",
	},
	domain.DisputeDuplicateCharge: {
		"Bank statement showing both postings",
		"Receipt for the single authorized purchase",
		"Merchant confirmation that one charge is valid",
	},
	domain.DisputeServiceNotReceived: {
		"Order confirmation or contract",
		"Proof of non-delivery or cancellation",
		"Merchant refund-request correspondence",
	},
}

// evidenceChecklist returns a copy of the checklist for the given kind.
func evidenceChecklist(kind string) []string {
	items := evidenceChecklists[kind]
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// DetectDisputes scans the trailing window of bank activity for the
// account and synthesizes dispute cases, sorted by amount descending.
func (s *ReconciliationService) DetectDisputes(ctx context.Context, accountID string) ([]domain.DisputeCase, error) {
	ctx, span := reconTracer.Start(ctx, "ReconciliationService.DetectDisputes")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRunDuration("detect_disputes", time.Since(start))
	}()

	if accountID == "" {
		return nil, &domain.ErrValidation{Field: "account_id", Message: "required"}
	}

	now := time.Now()
	windowStart := now.AddDate(0, 0, -s.cfg.DisputeWindowDays)

	bank, err := s.store.ListBankTransactions(ctx, accountID, windowStart, now)
	if err != nil {
		s.metrics.IncrExternalError("bank_feed")
		return nil, err
	}
	// Fetch the book side with a margin so the ±3 day counterpart search
	// near the window edges sees its candidates.
	book, err := s.store.ListBookTransactions(ctx, accountID, windowStart.AddDate(0, 0, -3), now.AddDate(0, 0, 3))
	if err != nil {
		s.metrics.IncrExternalError("book_ledger")
		return nil, err
	}

	cases := detectDisputes(s.cfg, bank, book, now)
	s.metrics.RecordDisputes(cases)

	s.logger.Info("dispute detection complete",
		zap.String("account_id", accountID),
		zap.Int("bank_transactions", len(bank)),
		zap.Int("cases", len(cases)),
	)
	return cases, nil
}

// detectDisputes is the pure detection pass over one window of activity.
func detectDisputes(cfg config.EngineConfig, bank []domain.BankTransaction, book []domain.BookTransaction, now time.Time) []domain.DisputeCase {
	cases := make([]domain.DisputeCase, 0)

	for _, bt := range bank {
		if c, ok := unauthorizedCase(cfg, bt, book, now); ok {
			cases = append(cases, c)
			continue
		}
		if c, ok := amountDiscrepancyCase(bt, book, now); ok {
			cases = append(cases, c)
		}
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].Amount > cases[j].Amount
	})
	return cases
}

// unauthorizedCase flags a bank transaction as potentially unauthorized:
// a high-value amount with an odd sub-unit remainder, or posting on a
// weekend / outside business hours — and no book counterpart within ±2
// days at the same amount.
func unauthorizedCase(cfg config.EngineConfig, bt domain.BankTransaction, book []domain.BookTransaction, now time.Time) (domain.DisputeCase, bool) {
	oddAmount := bt.Amount > cfg.DisputeHighValue && hasSubUnitRemainder(bt.Amount)
	weekday := bt.Date.Weekday()
	weekend := weekday == time.Saturday || weekday == time.Sunday
	hour := bt.Date.Hour()
	offHours := hour < 6 || hour > 20

	if !oddAmount && !weekend && !offHours {
		return domain.DisputeCase{}, false
	}
	if hasBookCounterpart(bt, book, 2) {
		return domain.DisputeCase{}, false
	}

	return domain.DisputeCase{
		ID:                 uuid.New().String(),
		BankTransactionID:  bt.ID,
		Kind:               domain.DisputeUnauthorizedTransaction,
		Amount:             bt.Amount,
		Description:        "Potentially unauthorized transaction: " + bt.Description,
		EvidenceChecklist:  evidenceChecklist(domain.DisputeUnauthorizedTransaction),
		Status:             domain.DisputeStatusOpen,
		CreatedDate:        now,
		SuccessProbability: 0.7,
	}, true
}

// amountDiscrepancyCase looks for a book transaction telling the same
// story (description similarity above 0.8 within ±3 days) at a different
// amount. A difference above one unit becomes an incorrect-amount case.
func amountDiscrepancyCase(bt domain.BankTransaction, book []domain.BookTransaction, now time.Time) (domain.DisputeCase, bool) {
	bestSim := 0.0
	var counterpart *domain.BookTransaction
	for i := range book {
		bk := book[i]
		if dayGap(bt.Date, bk.Date) > 3 {
			continue
		}
		sim := descriptionSimilarity(bt.Description, bk.Description)
		if sim > 0.8 && sim > bestSim {
			bestSim = sim
			counterpart = &book[i]
		}
	}
	if counterpart == nil {
		return domain.DisputeCase{}, false
	}

	diff := bt.Amount - math.Abs(counterpart.Amount)
	if math.Abs(diff) <= 1 {
		return domain.DisputeCase{}, false
	}

	return domain.DisputeCase{
		ID:                 uuid.New().String(),
		BankTransactionID:  bt.ID,
		Kind:               domain.DisputeIncorrectAmount,
		Amount:             bt.Amount,
		Description:        fmt.Sprintf("Posted amount differs from book record by %.2f", math.Abs(diff)),
		EvidenceChecklist:  evidenceChecklist(domain.DisputeIncorrectAmount),
		Status:             domain.DisputeStatusOpen,
		CreatedDate:        now,
		SuccessProbability: 0.85,
	}, true
}

// hasBookCounterpart reports whether any book transaction within the day
// window matches the bank amount within a cent.
func hasBookCounterpart(bt domain.BankTransaction, book []domain.BookTransaction, windowDays int) bool {
	for _, bk := range book {
		if dayGap(bt.Date, bk.Date) <= windowDays && math.Abs(bt.Amount-math.Abs(bk.Amount)) < 0.01 {
			return true
		}
	}
	return false
}

// hasSubUnitRemainder reports whether an amount has non-zero cents.
func hasSubUnitRemainder(amount float64) bool {
	cents := math.Round(amount * 100)
	return math.Mod(cents, 100) != 0
}

// ResolveDispute records a resolution outcome for a dispute case. Nothing
// is persisted by this engine; the caller owns the case lifecycle.
func (s *ReconciliationService) ResolveDispute(ctx context.Context, disputeID, outcome, notes string) (*domain.DisputeResolution, error) {
	_, span := reconTracer.Start(ctx, "ReconciliationService.ResolveDispute")
	defer span.End()

	if disputeID == "" {
		return nil, &domain.ErrValidation{Field: "dispute_id", Message: "required"}
	}

	var message string
	var nextSteps []string
	switch outcome {
	case domain.DisputeOutcomeApproved:
		message = "Dispute approved. A provisional credit will be issued while the claim is finalized."
		nextSteps = []string{
			"Issue a provisional credit to the account",
			"Notify the account holder of the decision",
			"File the supporting evidence with the bank",
			"Track the claim until funds are recovered",
		}
	case domain.DisputeOutcomeDenied:
		message = "Dispute denied. The transaction stands as posted."
		nextSteps = []string{
			"Notify the account holder with the reason for denial",
			"Share the evidence that was reviewed",
			"Offer escalation to a manual review",
			"Reopen if new evidence is provided",
		}
	default:
		return nil, &domain.ErrValidation{Field: "outcome", Message: "must be 'approved' or 'denied'"}
	}

	s.logger.Info("dispute resolved",
		zap.String("dispute_id", disputeID),
		zap.String("outcome", outcome),
	)

	return &domain.DisputeResolution{
		DisputeID:  disputeID,
		Outcome:    outcome,
		Notes:      notes,
		Message:    message,
		NextSteps:  nextSteps,
		ResolvedAt: time.Now(),
	}, nil
}
