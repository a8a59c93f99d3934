package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/J-Palomino/flow-actions-sub000/internal/common"
	"github.com/J-Palomino/flow-actions-sub000/internal/config"
	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// ErrGatewayUnavailable reports that the gateway could not be reached or
// answered with something this client does not recognize. Callers degrade to
// cached or zeroed pending views, they never crash on it.
var ErrGatewayUnavailable = errors.New("gateway unavailable")

// GatewayClient is a client for the LLM gateway's usage-query endpoint
type GatewayClient struct {
	baseURL    string
	adminToken string
	client     *http.Client
}

// NewGatewayClient creates a new gateway client
func NewGatewayClient() *GatewayClient {
	return &GatewayClient{
		baseURL:    config.GetGatewayURL(),
		adminToken: config.Get().GatewayAdminToken,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewGatewayClientWithURL creates a gateway client against an explicit base URL
func NewGatewayClientWithURL(baseURL string) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// IssuedCredential is a freshly generated gateway API key
type IssuedCredential struct {
	ID     string `json:"key_id"`
	Secret string `json:"key"`
}

// IssueCredential asks the gateway's admin API to mint a new API key for a
// vault owner. The secret is returned exactly once; callers must protect it
// immediately.
func (c *GatewayClient) IssueCredential(ctx context.Context, alias string) (*IssuedCredential, error) {
	body := strings.NewReader(fmt.Sprintf(`{"key_alias":%q}`, alias))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/key/generate", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: key generation status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var cred IssuedCredential
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return nil, fmt.Errorf("%w: failed to decode key response: %v", ErrGatewayUnavailable, err)
	}
	if cred.Secret == "" {
		return nil, fmt.Errorf("%w: gateway returned empty key", ErrGatewayUnavailable)
	}
	if cred.ID == "" {
		cred.ID = alias
	}

	return &cred, nil
}

// rawUsageRecord tolerates the field spellings seen across gateway versions
type rawUsageRecord struct {
	Tokens      uint64      `json:"tokens"`
	TotalTokens uint64      `json:"total_tokens"`
	Requests    uint64      `json:"requests"`
	Cost        json.Number `json:"cost"`
	Model       string      `json:"model"`
	Timestamp   string      `json:"timestamp"`
}

// GetUsage fetches usage records for one credential since the given boundary.
// The gateway has shipped three response shapes over time: a bare array,
// {"data":[...]} and {"logs":[...]}. All three normalize into
// model.UsageRecord; anything else is ErrGatewayUnavailable, not a crash.
func (c *GatewayClient) GetUsage(ctx context.Context, credentialID string, since time.Time) ([]model.UsageRecord, error) {
	q := url.Values{}
	q.Set("credential", credentialID)
	q.Set("since", strconv.FormatInt(since.Unix(), 10))

	reqURL := fmt.Sprintf("%s/usage?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrGatewayUnavailable, err)
	}

	raw, err := extractRecords(body)
	if err != nil {
		return nil, err
	}

	records := make([]model.UsageRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, normalizeRecord(r))
	}
	return records, nil
}

// extractRecords picks the record list out of a recognized wire shape
func extractRecords(body json.RawMessage) ([]rawUsageRecord, error) {
	trimmed := strings.TrimSpace(string(body))

	if strings.HasPrefix(trimmed, "[") {
		var arr []rawUsageRecord
		if err := json.Unmarshal(body, &arr); err != nil {
			return nil, fmt.Errorf("%w: unrecognized array shape: %v", ErrGatewayUnavailable, err)
		}
		return arr, nil
	}

	var envelope struct {
		Data []rawUsageRecord `json:"data"`
		Logs []rawUsageRecord `json:"logs"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: unrecognized response shape: %v", ErrGatewayUnavailable, err)
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	if envelope.Logs != nil {
		return envelope.Logs, nil
	}

	return nil, fmt.Errorf("%w: response carries no usage records", ErrGatewayUnavailable)
}

// normalizeRecord maps tolerated field spellings onto the internal record
func normalizeRecord(r rawUsageRecord) model.UsageRecord {
	tokens := r.Tokens
	if tokens == 0 {
		tokens = r.TotalTokens
	}

	requests := r.Requests
	if requests == 0 {
		// A usage log line is one request unless the gateway says otherwise
		requests = 1
	}

	ts := time.Time{}
	if r.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
			ts = parsed
		} else if unix, err := strconv.ParseInt(r.Timestamp, 10, 64); err == nil {
			ts = time.Unix(unix, 0)
		}
	}

	return model.UsageRecord{
		Tokens:       tokens,
		Requests:     requests,
		CostMicroUSD: parseCostMicroUSD(r.Cost),
		Model:        r.Model,
		Timestamp:    ts,
	}
}

// parseCostMicroUSD converts the gateway's USD cost number to micro-USD.
// Decimal strings convert exactly; exponent notation falls back through
// float64, which is acceptable at the boundary for a non-authoritative feed.
func parseCostMicroUSD(n json.Number) int64 {
	s := n.String()
	if s == "" {
		return 0
	}
	if micro, err := common.USDToMicro(s); err == nil {
		return micro
	}
	if f, err := n.Float64(); err == nil {
		return int64(f * 1_000_000)
	}
	return 0
}
