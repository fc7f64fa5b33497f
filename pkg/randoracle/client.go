package randoracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request describes one randomness request. The oracle answers later with a
// callback carrying the request id and WordCount random values.
type Request struct {
	WordCount     int    `json:"wordCount"`
	Confirmations int    `json:"confirmations"`
	CallbackURL   string `json:"callbackUrl,omitempty"`
}

// Client is the outbound half of the randomness protocol. The inbound half
// is the fulfillment callback handled by the HTTP layer.
type Client interface {
	RequestRandomness(ctx context.Context, req Request) (string, error)
}

// HTTPClient talks to the external randomness oracle service
type HTTPClient struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewHTTPClient creates a new oracle HTTP client
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type requestResponse struct {
	RequestID string `json:"requestId"`
	Error     string `json:"error,omitempty"`
}

// RequestRandomness submits a randomness request and returns the oracle's
// correlation id for it
func (c *HTTPClient) RequestRandomness(ctx context.Context, oreq Request) (string, error) {
	data, err := json.Marshal(oreq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal randomness request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/requests", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build randomness request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("randomness request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("randomness request returned status %d", resp.StatusCode)
	}

	var body requestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode randomness response: %w", err)
	}
	if body.RequestID == "" {
		return "", fmt.Errorf("oracle rejected randomness request: %s", body.Error)
	}
	return body.RequestID, nil
}
