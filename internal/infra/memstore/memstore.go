// Package memstore is an in-memory LedgerStore adapter. It backs local
// development and tests; production deployments use the ledger API client.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerlens/recon-engine/internal/domain"
)

// Store holds seeded collections. Reads return copies in insertion order,
// so the engine's order-stable matching stays deterministic.
type Store struct {
	mu       sync.RWMutex
	accounts []domain.Account
	bank     []domain.BankTransaction
	book     []domain.BookTransaction
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// SeedAccounts adds accounts to the store.
func (s *Store) SeedAccounts(accounts ...domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, accounts...)
}

// SeedBankTransactions adds bank feed records to the store.
func (s *Store) SeedBankTransactions(txns ...domain.BankTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank = append(s.bank, txns...)
}

// SeedBookTransactions adds book ledger entries to the store.
func (s *Store) SeedBookTransactions(txns ...domain.BookTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.book = append(s.book, txns...)
}

// ListAccounts returns all seeded accounts.
func (s *Store) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}

// GetAccount returns the account by ID, or ErrNotFound.
func (s *Store) GetAccount(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.ID == accountID {
			account := a
			return &account, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
}

// ListBankTransactions returns the account's feed records within [from, to].
func (s *Store) ListBankTransactions(_ context.Context, accountID string, from, to time.Time) ([]domain.BankTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BankTransaction, 0)
	for _, t := range s.bank {
		if t.AccountID == accountID && withinRange(t.Date, from, to) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListBookTransactions returns the account's ledger entries within [from, to].
func (s *Store) ListBookTransactions(_ context.Context, accountID string, from, to time.Time) ([]domain.BookTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BookTransaction, 0)
	for _, t := range s.book {
		if t.AccountID == accountID && withinRange(t.Date, from, to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func withinRange(d, from, to time.Time) bool {
	return !d.Before(from.Truncate(24*time.Hour)) && !d.After(to.Add(24*time.Hour))
}
