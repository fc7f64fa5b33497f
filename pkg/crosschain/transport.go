package crosschain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Message is the result-announcement payload sent to the paired instance on
// another network
type Message struct {
	Winner      string `json:"winner"`
	Prize       int64  `json:"prize"`
	JackpotWon  bool   `json:"jackpotWon"`
	RoundNumber uint64 `json:"roundNumber"`
	Timestamp   int64  `json:"timestamp"`
}

// Transport quotes and dispatches cross-chain messages. Quoting and sending
// are separate so the caller can verify it holds the fee before dispatch.
type Transport interface {
	QuoteFee(ctx context.Context, destination string, msg Message) (int64, error)
	Send(ctx context.Context, destination string, msg Message, fee int64) (string, error)
}

// HTTPTransport talks to the external messaging service
type HTTPTransport struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewHTTPTransport creates a new transport HTTP client
func NewHTTPTransport(baseURL, apiKey string) *HTTPTransport {
	return &HTTPTransport{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type quoteRequest struct {
	Destination string  `json:"destination"`
	Message     Message `json:"message"`
}

type quoteResponse struct {
	Fee   int64  `json:"fee"`
	Error string `json:"error,omitempty"`
}

type sendRequest struct {
	Destination string  `json:"destination"`
	Message     Message `json:"message"`
	FeePaid     int64   `json:"feePaid"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
	Error     string `json:"error,omitempty"`
}

// QuoteFee returns the native fee the transport requires for this message
func (t *HTTPTransport) QuoteFee(ctx context.Context, destination string, msg Message) (int64, error) {
	var body quoteResponse
	if err := t.post(ctx, "/v1/quote", quoteRequest{Destination: destination, Message: msg}, &body); err != nil {
		return 0, err
	}
	if body.Error != "" {
		return 0, fmt.Errorf("transport rejected quote: %s", body.Error)
	}
	return body.Fee, nil
}

// Send dispatches the message, paying exactly the quoted fee, and returns
// the transport's message id
func (t *HTTPTransport) Send(ctx context.Context, destination string, msg Message, fee int64) (string, error) {
	var body sendResponse
	if err := t.post(ctx, "/v1/send", sendRequest{Destination: destination, Message: msg, FeePaid: fee}, &body); err != nil {
		return "", err
	}
	if body.MessageID == "" {
		return "", fmt.Errorf("transport rejected send: %s", body.Error)
	}
	return body.MessageID, nil
}

func (t *HTTPTransport) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal transport request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build transport request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", t.APIKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("transport request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transport request returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode transport response: %w", err)
	}
	return nil
}
