package feeledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the fee-token ledger interface. Every transfer is fallible and
// must be checked; a failed transfer aborts the invoking engine operation.
type Client interface {
	TransferFrom(ctx context.Context, from, to string, amount int64) error
	Transfer(ctx context.Context, to string, amount int64) error
	BalanceOf(ctx context.Context, addr string) (int64, error)
}

// HTTPClient talks to the external token ledger service
type HTTPClient struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewHTTPClient creates a new ledger HTTP client
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type transferRequest struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type transferResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type balanceResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

// TransferFrom moves tokens from a participant into the raffle treasury
func (c *HTTPClient) TransferFrom(ctx context.Context, from, to string, amount int64) error {
	return c.postTransfer(ctx, "/v1/transfer-from", transferRequest{From: from, To: to, Amount: amount})
}

// Transfer moves tokens out of the raffle treasury
func (c *HTTPClient) Transfer(ctx context.Context, to string, amount int64) error {
	return c.postTransfer(ctx, "/v1/transfer", transferRequest{To: to, Amount: amount})
}

// BalanceOf returns the token balance of an address
func (c *HTTPClient) BalanceOf(ctx context.Context, addr string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/balance/"+addr, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build balance request: %w", err)
	}
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("balance request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("balance request returned status %d", resp.StatusCode)
	}

	var body balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode balance response: %w", err)
	}
	return body.Balance, nil
}

func (c *HTTPClient) postTransfer(ctx context.Context, path string, payload transferRequest) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transfer request returned status %d", resp.StatusCode)
	}

	var body transferResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode transfer response: %w", err)
	}
	if !body.Success {
		return fmt.Errorf("ledger rejected transfer: %s", body.Error)
	}
	return nil
}
