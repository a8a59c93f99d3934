package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/J-Palomino/flow-actions-sub000/internal/config"
)

// LedgerClient is a client for the ledger's transaction HTTP API.
// Script templates are treated as opaque parameterized strings: this client
// fills them in and submits them, it does not interpret ledger semantics
// beyond status codes and log text.
type LedgerClient struct {
	baseURL string
	client  *http.Client
}

// NewLedgerClient creates a new ledger client
func NewLedgerClient() *LedgerClient {
	return &LedgerClient{
		baseURL: config.GetLedgerRPCURL(),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewLedgerClientWithURL creates a ledger client against an explicit base URL
func NewLedgerClientWithURL(baseURL string) *LedgerClient {
	return &LedgerClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// TxArg is one typed argument for a script template
type TxArg struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// StatusResult is the ledger's view of one transaction.
// StatusCode maps onto the orchestrator's state machine: 0 submitted,
// 1 included, 2 finalized, 3 failed.
type StatusResult struct {
	StatusCode   int      `json:"status"`
	BlockID      string   `json:"blockId,omitempty"`
	LogLines     []string `json:"logs,omitempty"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
}

type submitRequest struct {
	Script    string  `json:"script"`
	Arguments []TxArg `json:"arguments"`
}

type submitResponse struct {
	ID string `json:"id"`
}

// SubmitTransaction fills a script template's arguments and submits it.
// Returns the ledger-assigned transaction id.
func (c *LedgerClient) SubmitTransaction(ctx context.Context, scriptTemplate string, args []TxArg) (string, error) {
	body, err := json.Marshal(submitRequest{Script: scriptTemplate, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("failed to marshal transaction: %w", err)
	}

	url := fmt.Sprintf("%s/v1/transactions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("failed to submit transaction: status %d", resp.StatusCode)
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("ledger returned empty transaction id")
	}

	return out.ID, nil
}

type scriptRequest struct {
	Script    string  `json:"script"`
	Arguments []TxArg `json:"arguments"`
}

type scriptResponse struct {
	Value json.RawMessage `json:"value"`
}

// ExecuteScript runs a read-only script against current ledger state and
// returns its raw result value. Unlike SubmitTransaction nothing is mutated
// and there is no status to poll.
func (c *LedgerClient) ExecuteScript(ctx context.Context, script string, args []TxArg) (json.RawMessage, error) {
	body, err := json.Marshal(scriptRequest{Script: script, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal script: %w", err)
	}

	url := fmt.Sprintf("%s/v1/scripts", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute script: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to execute script: status %d", resp.StatusCode)
	}

	var out scriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode script response: %w", err)
	}

	return out.Value, nil
}

// GetTransactionStatus fetches the current status of a submitted transaction
func (c *LedgerClient) GetTransactionStatus(ctx context.Context, txID string) (*StatusResult, error) {
	url := fmt.Sprintf("%s/v1/transactions/%s", c.baseURL, txID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get transaction status: status %d", resp.StatusCode)
	}

	var out StatusResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	return &out, nil
}
