package services

import (
	"context"
	"fmt"
	"time"

	"github.com/luckydip/raffle-backend/internal/engine"
	"github.com/luckydip/raffle-backend/internal/models"
	"github.com/luckydip/raffle-backend/pkg/crosschain"
	"github.com/luckydip/raffle-backend/pkg/feeledger"
	"golang.org/x/exp/slog"
)

// ErrInsufficientNativeBalance is returned when the held native balance does
// not cover the quoted transport fee; the message is never dispatched.
var ErrInsufficientNativeBalance = fmt.Errorf("native balance does not cover the transport fee")

// NotifierService announces round results to a paired instance on another
// network. Stateless beyond fee accounting: quote, verify balance, send.
type NotifierService struct {
	transport     crosschain.Transport
	ledger        feeledger.Client
	holderAddress string
	sink          engine.EventSink
}

// NewNotifierService creates a new NotifierService
func NewNotifierService(transport crosschain.Transport, ledger feeledger.Client, holderAddress string, sink engine.EventSink) *NotifierService {
	return &NotifierService{
		transport:     transport,
		ledger:        ledger,
		holderAddress: holderAddress,
		sink:          sink,
	}
}

// AnnounceResult builds the result message, quotes the transport fee,
// verifies the held native balance covers it and dispatches, forwarding
// exactly the quoted fee. Returns the transport's message id. Any failure is
// a hard abort: no partial send.
func (s *NotifierService) AnnounceResult(ctx context.Context, destination string, result *engine.DrawResult) (string, error) {
	msg := crosschain.Message{
		Winner:      result.Winner,
		Prize:       result.Prize,
		JackpotWon:  result.JackpotWon,
		RoundNumber: result.RoundNumber,
		Timestamp:   time.Now().Unix(),
	}

	fee, err := s.transport.QuoteFee(ctx, destination, msg)
	if err != nil {
		return "", fmt.Errorf("failed to quote transport fee: %w", err)
	}

	balance, err := s.ledger.BalanceOf(ctx, s.holderAddress)
	if err != nil {
		return "", fmt.Errorf("failed to check native balance: %w", err)
	}
	if balance < fee {
		slog.Warn("Announcement rejected: insufficient native balance",
			"balance", balance, "fee", fee, "destination", destination)
		return "", ErrInsufficientNativeBalance
	}

	messageID, err := s.transport.Send(ctx, destination, msg, fee)
	if err != nil {
		return "", fmt.Errorf("failed to dispatch announcement: %w", err)
	}

	slog.Info("Result announced", "messageId", messageID, "destination", destination,
		"winner", result.Winner, "prize", result.Prize, "fee", fee)

	if s.sink != nil {
		s.sink.Record(ctx, models.EventResultAnnounced, result.RoundNumber, map[string]interface{}{
			"messageId":   messageID,
			"destination": destination,
			"fee":         fee,
		})
	}
	return messageID, nil
}
