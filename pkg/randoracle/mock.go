package randoracle

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
)

// MockClient hands out locally generated request ids without contacting any
// oracle. Fulfillment is then driven manually (tests) or by an operator
// posting to the callback endpoint.
type MockClient struct {
	mu          sync.Mutex
	FailRequest bool
	issued      []string
}

// NewMockClient creates a new mock oracle client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// RequestRandomness returns a fresh opaque request id
func (m *MockClient) RequestRandomness(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRequest {
		return "", errors.New("randomness request failure injected")
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	id := "req-" + hex.EncodeToString(buf)
	m.issued = append(m.issued, id)
	return id, nil
}

// Issued returns every request id handed out, oldest first
func (m *MockClient) Issued() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.issued))
	copy(out, m.issued)
	return out
}
