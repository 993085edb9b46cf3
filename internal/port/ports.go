// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/ledgerlens/recon-engine/internal/domain"
)

// LedgerStore supplies the already-loaded collections the engine works on:
// accounts, the external bank feed and the internal book ledger. The engine
// never writes through this port.
type LedgerStore interface {
	// Accounts
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// Transaction collections, filtered to [from, to] inclusive.
	ListBankTransactions(ctx context.Context, accountID string, from, to time.Time) ([]domain.BankTransaction, error)
	ListBookTransactions(ctx context.Context, accountID string, from, to time.Time) ([]domain.BookTransaction, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
