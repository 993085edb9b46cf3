package memstore

import (
	"time"

	"github.com/ledgerlens/recon-engine/internal/domain"
)

// SeedSample loads a small demo dataset: one checking account with a mix
// of clean matches, near matches, and residuals on both sides. Used when
// the service runs without a ledger API configured.
func (s *Store) SeedSample() {
	now := time.Now()
	day := func(offset int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	s.SeedAccounts(domain.Account{
		ID:               "acct-operating",
		Name:             "Operating Account",
		AccountNumber:    "110200",
		AccountType:      "checking",
		Currency:         "USD",
		BeginningBalance: 25000,
	})

	s.SeedBankTransactions(
		domain.BankTransaction{
			ID: "bank-1", AccountID: "acct-operating", Date: day(-20),
			Description: "ACH Vendor Payment", Amount: 150.00, Type: domain.TxTypeDebit,
			ReferenceNumber: "REF-1001",
		},
		domain.BankTransaction{
			ID: "bank-2", AccountID: "acct-operating", Date: day(-14),
			Description: "Payroll Run March", Amount: 8200.00, Type: domain.TxTypeDebit,
		},
		domain.BankTransaction{
			ID: "bank-3", AccountID: "acct-operating", Date: day(-10),
			Description: "Office Supplies", Amount: 500.00, Type: domain.TxTypeDebit,
		},
		domain.BankTransaction{
			ID: "bank-4", AccountID: "acct-operating", Date: day(-9),
			Description: "Office Supplies", Amount: 500.00, Type: domain.TxTypeDebit,
		},
		domain.BankTransaction{
			ID: "bank-5", AccountID: "acct-operating", Date: day(-3),
			Description: "Wire Transfer Inbound", Amount: 12000.00, Type: domain.TxTypeCredit,
		},
	)

	s.SeedBookTransactions(
		domain.BookTransaction{
			ID: "book-1", AccountID: "acct-operating", Date: day(-20),
			Description: "Vendor Payment - ACH", Amount: -150.00,
			ReferenceNumber: "REF-1001", ReconciliationStatus: domain.BookStatusUnreconciled,
		},
		domain.BookTransaction{
			ID: "book-2", AccountID: "acct-operating", Date: day(-13),
			Description: "March payroll batch", Amount: -8195.00,
			ReconciliationStatus: domain.BookStatusUnreconciled,
		},
		domain.BookTransaction{
			ID: "book-3", AccountID: "acct-operating", Date: day(-6),
			Description: "Consulting retainer invoice", Amount: 1800.00,
			ReconciliationStatus: domain.BookStatusUnreconciled,
		},
	)
}
