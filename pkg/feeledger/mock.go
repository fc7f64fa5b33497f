package feeledger

import (
	"context"
	"errors"
	"sync"
)

// ErrInsufficientBalance is returned by the mock when a debit exceeds the
// account balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// MockClient is an in-memory ledger for tests and mock deployments. The
// treasury address accumulates fees and pays prizes out of them.
type MockClient struct {
	mu       sync.Mutex
	Treasury string
	balances map[string]int64

	// FailTransferFrom / FailTransfer force the next matching call to fail,
	// for exercising abort paths.
	FailTransferFrom bool
	FailTransfer     bool
}

// NewMockClient creates a mock ledger with the given treasury address
func NewMockClient(treasury string) *MockClient {
	return &MockClient{
		Treasury: treasury,
		balances: make(map[string]int64),
	}
}

// SetBalance seeds an account balance
func (m *MockClient) SetBalance(addr string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[addr] = amount
}

// TransferFrom debits a participant and credits the destination
func (m *MockClient) TransferFrom(ctx context.Context, from, to string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTransferFrom {
		return errors.New("transfer-from failure injected")
	}
	if m.balances[from] < amount {
		return ErrInsufficientBalance
	}
	m.balances[from] -= amount
	m.balances[to] += amount
	return nil
}

// Transfer debits the treasury and credits the destination
func (m *MockClient) Transfer(ctx context.Context, to string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTransfer {
		return errors.New("transfer failure injected")
	}
	if m.balances[m.Treasury] < amount {
		return ErrInsufficientBalance
	}
	m.balances[m.Treasury] -= amount
	m.balances[to] += amount
	return nil
}

// BalanceOf returns an account balance
func (m *MockClient) BalanceOf(ctx context.Context, addr string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[addr], nil
}
