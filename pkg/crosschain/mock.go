package crosschain

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MockTransport is an in-memory transport for tests and mock deployments
type MockTransport struct {
	mu        sync.Mutex
	Fee       int64
	FailQuote bool
	FailSend  bool
	sent      []Message
	nextID    int
}

// NewMockTransport creates a mock transport quoting a fixed fee
func NewMockTransport(fee int64) *MockTransport {
	return &MockTransport{Fee: fee}
}

// QuoteFee returns the configured fixed fee
func (m *MockTransport) QuoteFee(ctx context.Context, destination string, msg Message) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailQuote {
		return 0, errors.New("quote failure injected")
	}
	return m.Fee, nil
}

// Send records the message and returns a synthetic message id
func (m *MockTransport) Send(ctx context.Context, destination string, msg Message, fee int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSend {
		return "", errors.New("send failure injected")
	}
	if fee != m.Fee {
		return "", fmt.Errorf("fee %d does not match quote %d", fee, m.Fee)
	}
	m.sent = append(m.sent, msg)
	m.nextID++
	return fmt.Sprintf("MOCK-MSG-%d", m.nextID), nil
}

// Sent returns the dispatched messages, oldest first
func (m *MockTransport) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
