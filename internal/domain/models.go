// Package domain defines the core business entities for the reconciliation
// engine. These models are independent of any transport or storage concern
// and represent the canonical data structures used throughout the engine.
package domain

import "time"

// ============================================================
// Accounts
// ============================================================

// Account is a reconcilable account as supplied by the ledger collaborator.
type Account struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	AccountNumber    string  `json:"account_number"`
	AccountType      string  `json:"account_type"`
	Currency         string  `json:"currency"`
	BeginningBalance float64 `json:"beginning_balance"`
}

// ============================================================
// Transactions
// ============================================================

// Transaction direction for bank feed records.
const (
	TxTypeCredit = "credit"
	TxTypeDebit  = "debit"
)

// BankTransaction is a record from the external account-activity feed.
// Amount is the unsigned magnitude; direction lives in Type.
// Immutable once observed.
type BankTransaction struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	Date            time.Time `json:"date"`
	Description     string    `json:"description"`
	Amount          float64   `json:"amount"`
	Type            string    `json:"type"` // credit, debit
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Reconciled      bool      `json:"reconciled"`
}

// SignedAmount returns the balance contribution of the transaction:
// positive for credits (money in), negative for debits (money out).
func (t BankTransaction) SignedAmount() float64 {
	if t.Type == TxTypeDebit {
		return -t.Amount
	}
	return t.Amount
}

// Book transaction reconciliation statuses.
const (
	BookStatusUnreconciled = "unreconciled"
	BookStatusPending      = "pending"
	BookStatusReconciled   = "reconciled"
)

// BookTransaction is an entry from the internal ledger. Amount is signed;
// by convention a positive amount is a debit (money into the account).
// Read-only to this engine.
type BookTransaction struct {
	ID                   string    `json:"id"`
	AccountID            string    `json:"account_id"`
	Date                 time.Time `json:"date"`
	Description          string    `json:"description"`
	Amount               float64   `json:"amount"`
	ReferenceNumber      string    `json:"reference_number,omitempty"`
	ReconciliationStatus string    `json:"reconciliation_status"`
}

// ============================================================
// Matching
// ============================================================

// Match types, ordered from strongest to weakest evidence.
const (
	MatchTypeExact   = "exact"
	MatchTypeFuzzy   = "fuzzy"
	MatchTypePartial = "partial"
	MatchTypeManual  = "manual"
)

// Match pairs one book transaction with one bank transaction.
// Within a single run each transaction appears in at most one Match.
type Match struct {
	BookTransactionID string  `json:"book_transaction_id"`
	BankTransactionID string  `json:"bank_transaction_id"`
	ConfidenceScore   float64 `json:"confidence_score"`
	MatchType         string  `json:"match_type"`
	VarianceAmount    float64 `json:"variance_amount,omitempty"`
	Explanation       string  `json:"explanation"`
}

// ============================================================
// Suggestions
// ============================================================

// Suggestion kinds.
const (
	SuggestionMissingTransaction   = "missing_transaction"
	SuggestionDuplicateTransaction = "duplicate_transaction"
	SuggestionAmountVariance       = "amount_variance"
	SuggestionTimingDifference     = "timing_difference"
)

// Suggestion is a human-actionable finding derived from the unmatched
// residuals and low-quality matches.
type Suggestion struct {
	Kind         string           `json:"kind"`
	RelatedBank  *BankTransaction `json:"related_bank,omitempty"`
	RelatedBook  *BookTransaction `json:"related_book,omitempty"`
	DuplicateOf  *BankTransaction `json:"duplicate_of,omitempty"`
	Action       string           `json:"action"`
	Confidence   float64          `json:"confidence"`
	ImpactAmount float64          `json:"impact_amount"`
}

// ============================================================
// Risk
// ============================================================

// RiskProfile aggregates fraud, anomaly and compliance signals for a run.
type RiskProfile struct {
	FraudIndicators  []string `json:"fraud_indicators"`
	UnusualPatterns  []string `json:"unusual_patterns"`
	ComplianceIssues []string `json:"compliance_issues"`
	OverallRiskScore float64  `json:"overall_risk_score"`
}

// ============================================================
// Reconciliation report
// ============================================================

// ReconciliationSummary carries the aggregate statistics of one run.
type ReconciliationSummary struct {
	TotalBankTransactions int     `json:"total_bank_transactions"`
	TotalBookTransactions int     `json:"total_book_transactions"`
	MatchedCount          int     `json:"matched_count"`
	ExactMatches          int     `json:"exact_matches"`
	FuzzyMatches          int     `json:"fuzzy_matches"`
	PartialMatches        int     `json:"partial_matches"`
	MatchRate             float64 `json:"match_rate"`
	UnmatchedBankAmount   float64 `json:"unmatched_bank_amount"`
	UnmatchedBookAmount   float64 `json:"unmatched_book_amount"`
}

// ReconciliationReport is the full output of one reconciliation run.
// Invariant: MatchedCount + len(UnmatchedBank) + len(UnmatchedBook) equals
// the count of eligible input records for the period, and
// BankBalance - BookBalance = Variance.
type ReconciliationReport struct {
	AccountID        string                `json:"account_id"`
	PeriodStart      time.Time             `json:"period_start"`
	PeriodEnd        time.Time             `json:"period_end"`
	BeginningBalance float64               `json:"beginning_balance"`
	BankBalance      float64               `json:"bank_balance"`
	BookBalance      float64               `json:"book_balance"`
	Variance         float64               `json:"variance"`
	Matches          []Match               `json:"matches"`
	UnmatchedBank    []BankTransaction     `json:"unmatched_bank"`
	UnmatchedBook    []BookTransaction     `json:"unmatched_book"`
	Suggestions      []Suggestion          `json:"suggestions"`
	Risk             RiskProfile           `json:"risk"`
	Summary          ReconciliationSummary `json:"summary"`
	GeneratedAt      time.Time             `json:"generated_at"`
}
