package domain

import "time"

// ============================================================
// Disputes
// ============================================================

// Dispute kinds. The detector emits the first two; all four are valid
// inputs to the resolution flow and have evidence checklists.
const (
	DisputeUnauthorizedTransaction = "unauthorized_transaction"
	DisputeIncorrectAmount         = "incorrect_amount"
	DisputeDuplicateCharge         = "duplicate_charge"
	DisputeServiceNotReceived      = "service_not_received"
)

// Dispute statuses.
const (
	DisputeStatusOpen = "open"
)

// Dispute resolution outcomes.
const (
	DisputeOutcomeApproved = "approved"
	DisputeOutcomeDenied   = "denied"
)

// DisputeCase is a generated, evidence-backed claim about a specific bank
// transaction that requires human follow-up. Cases are not persisted by
// the engine; the caller owns their lifecycle.
type DisputeCase struct {
	ID                 string    `json:"id"`
	BankTransactionID  string    `json:"bank_transaction_id"`
	Kind               string    `json:"kind"`
	Amount             float64   `json:"amount"`
	Description        string    `json:"description"`
	EvidenceChecklist  []string  `json:"evidence_checklist"`
	Status             string    `json:"status"`
	CreatedDate        time.Time `json:"created_date"`
	SuccessProbability float64   `json:"success_probability"`
}

// DisputeResolution records the outcome of a dispute decision. It is
// returned to the caller; nothing is stored.
type DisputeResolution struct {
	DisputeID  string    `json:"dispute_id"`
	Outcome    string    `json:"outcome"`
	Notes      string    `json:"notes,omitempty"`
	Message    string    `json:"message"`
	NextSteps  []string  `json:"next_steps"`
	ResolvedAt time.Time `json:"resolved_at"`
}
