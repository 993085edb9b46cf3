// Package ledgerapi is the LedgerStore adapter backed by the upstream
// ledger service's REST API. Every call goes through the shared circuit
// breaker and retries with exponential backoff.
package ledgerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ledgerlens/recon-engine/internal/domain"
	"github.com/ledgerlens/recon-engine/internal/infra/resilience"
)

var tracer = otel.Tracer("infra/ledgerapi")

// Client fetches accounts and transaction collections from the ledger API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewClient creates a ledger API client.
func NewClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// ListAccounts fetches all reconcilable accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.ListAccounts")
	defer span.End()

	var accounts []domain.Account
	if err := c.getJSON(ctx, "/v1/accounts", "accounts", "", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccount fetches one account by ID.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.GetAccount")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	var account domain.Account
	path := fmt.Sprintf("/v1/accounts/%s", url.PathEscape(accountID))
	if err := c.getJSON(ctx, path, "account", accountID, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// ListBankTransactions fetches the account's bank feed for the date range.
func (c *Client) ListBankTransactions(ctx context.Context, accountID string, from, to time.Time) ([]domain.BankTransaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.ListBankTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	var txns []domain.BankTransaction
	path := fmt.Sprintf("/v1/accounts/%s/bank-transactions?%s",
		url.PathEscape(accountID), rangeQuery(from, to))
	if err := c.getJSON(ctx, path, "bank transactions", accountID, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// ListBookTransactions fetches the account's book ledger for the date range.
func (c *Client) ListBookTransactions(ctx context.Context, accountID string, from, to time.Time) ([]domain.BookTransaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.ListBookTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	var txns []domain.BookTransaction
	path := fmt.Sprintf("/v1/accounts/%s/book-transactions?%s",
		url.PathEscape(accountID), rangeQuery(from, to))
	if err := c.getJSON(ctx, path, "book transactions", accountID, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// getJSON runs a GET through the circuit breaker with retries and decodes
// the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path, resource, id string, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return &domain.ErrNotFound{Resource: resource, ID: id}
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("ledger API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(out)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return nil, nil
	})

	if err != nil {
		return &domain.ErrExternalService{Service: "ledger", Err: err}
	}
	return nil
}

func rangeQuery(from, to time.Time) string {
	q := url.Values{}
	q.Set("from", from.Format(time.DateOnly))
	q.Set("to", to.Format(time.DateOnly))
	return q.Encode()
}
