package services

import (
	"context"
	"testing"

	"github.com/luckydip/raffle-backend/internal/engine"
	"github.com/luckydip/raffle-backend/pkg/crosschain"
	"github.com/luckydip/raffle-backend/pkg/feeledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const holder = "native-holder"

func sampleResult() *engine.DrawResult {
	return &engine.DrawResult{
		RoundNumber: 7,
		Winner:      "alice",
		Prize:       30,
		JackpotWon:  true,
	}
}

func TestAnnounceResult(t *testing.T) {
	transport := crosschain.NewMockTransport(5)
	ledger := feeledger.NewMockClient("raffle-treasury")
	ledger.SetBalance(holder, 100)
	svc := NewNotifierService(transport, ledger, holder, nil)

	messageID, err := svc.AnnounceResult(context.Background(), "chain-b", sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "MOCK-MSG-1", messageID)

	sent := transport.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice", sent[0].Winner)
	assert.Equal(t, int64(30), sent[0].Prize)
	assert.True(t, sent[0].JackpotWon)
	assert.Equal(t, uint64(7), sent[0].RoundNumber)
	assert.NotZero(t, sent[0].Timestamp)
}

func TestAnnounceResultInsufficientBalance(t *testing.T) {
	transport := crosschain.NewMockTransport(5)
	ledger := feeledger.NewMockClient("raffle-treasury")
	ledger.SetBalance(holder, 4)
	svc := NewNotifierService(transport, ledger, holder, nil)

	_, err := svc.AnnounceResult(context.Background(), "chain-b", sampleResult())
	assert.ErrorIs(t, err, ErrInsufficientNativeBalance)
	assert.Empty(t, transport.Sent(), "nothing may be dispatched when the fee is not covered")
}

func TestAnnounceResultQuoteFailure(t *testing.T) {
	transport := crosschain.NewMockTransport(5)
	transport.FailQuote = true
	ledger := feeledger.NewMockClient("raffle-treasury")
	ledger.SetBalance(holder, 100)
	svc := NewNotifierService(transport, ledger, holder, nil)

	_, err := svc.AnnounceResult(context.Background(), "chain-b", sampleResult())
	require.Error(t, err)
	assert.Empty(t, transport.Sent())
}

func TestAnnounceResultSendFailure(t *testing.T) {
	transport := crosschain.NewMockTransport(5)
	transport.FailSend = true
	ledger := feeledger.NewMockClient("raffle-treasury")
	ledger.SetBalance(holder, 100)
	svc := NewNotifierService(transport, ledger, holder, nil)

	_, err := svc.AnnounceResult(context.Background(), "chain-b", sampleResult())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientNativeBalance)
}
