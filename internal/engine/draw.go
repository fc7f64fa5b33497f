package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/luckydip/raffle-backend/internal/models"
	"github.com/luckydip/raffle-backend/pkg/randoracle"
	"golang.org/x/exp/slog"
)

// CheckTrigger reports whether a draw may start: the raffle is open, enough
// players have joined, and the cool-down since the threshold was reached has
// elapsed. Read-only; safe for an external scheduler to poll repeatedly.
func (e *Engine) CheckTrigger(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkTriggerLocked(now)
}

func (e *Engine) checkTriggerLocked(now time.Time) bool {
	if e.st.raffleState != models.RaffleStateOpen {
		return false
	}
	if len(e.st.entries) < e.cfg.MinPlayers {
		return false
	}
	if e.st.minPlayersReachedAt.IsZero() {
		return false
	}
	return now.Sub(e.st.minPlayersReachedAt) > e.cfg.Cooldown
}

// InitiateDraw re-validates the trigger (the caller's last observation may
// be stale), issues exactly one randomness request and moves the raffle to
// DRAWING. Returns the oracle's request id.
func (e *Engine) InitiateDraw(ctx context.Context, now time.Time) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.checkTriggerLocked(now) {
		return "", ErrTriggerNotMet
	}

	requestID, err := e.oracle.RequestRandomness(ctx, randoracle.Request{
		WordCount:     e.cfg.RandomWordCount,
		Confirmations: e.cfg.OracleConfirmations,
	})
	if err != nil {
		slog.Error("Randomness request failed", "error", err, "round", e.st.roundNumber)
		return "", fmt.Errorf("failed to request randomness: %w", err)
	}

	e.st.raffleState = models.RaffleStateDrawing
	e.st.pendingRequestID = requestID
	e.st.drawInitiatedAt = now

	slog.Info("Draw initiated", "requestId", requestID, "entries", len(e.st.entries), "round", e.st.roundNumber)

	e.emit(ctx, models.EventStateChanged, e.st.roundNumber, map[string]interface{}{
		"state":     models.RaffleStateDrawing,
		"requestId": requestID,
	})
	return requestID, e.persistLocked(ctx)
}

// ForceReopen is the administrative escape for a stuck draw: it abandons the
// outstanding randomness request and reopens the round without selecting a
// winner. Entries and the jackpot pool are untouched. A fulfillment for the
// abandoned request arriving later fails the correlation check.
func (e *Engine) ForceReopen(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.raffleState != models.RaffleStateDrawing {
		return ErrNotDrawing
	}

	abandoned := e.st.pendingRequestID
	e.st.raffleState = models.RaffleStateOpen
	e.st.pendingRequestID = ""
	e.st.drawInitiatedAt = time.Time{}

	slog.Warn("Draw force-reopened by administrator", "abandonedRequestId", abandoned, "round", e.st.roundNumber)

	e.emit(ctx, models.EventStateChanged, e.st.roundNumber, map[string]interface{}{
		"state":              models.RaffleStateOpen,
		"forced":             true,
		"abandonedRequestId": abandoned,
	})
	return e.persistLocked(ctx)
}

// Close moves an open raffle to the CLOSED shutdown state. A raffle in
// DRAWING must be force-reopened first so no request is abandoned silently.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.raffleState != models.RaffleStateOpen {
		return ErrNotOpen
	}
	e.st.raffleState = models.RaffleStateClosed

	slog.Warn("Raffle closed by administrator", "round", e.st.roundNumber)

	e.emit(ctx, models.EventStateChanged, e.st.roundNumber, map[string]interface{}{
		"state": models.RaffleStateClosed,
	})
	return e.persistLocked(ctx)
}

// Open reopens a closed raffle
func (e *Engine) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.raffleState != models.RaffleStateClosed {
		return ErrNotClosed
	}
	e.st.raffleState = models.RaffleStateOpen

	slog.Info("Raffle reopened by administrator", "round", e.st.roundNumber)

	e.emit(ctx, models.EventStateChanged, e.st.roundNumber, map[string]interface{}{
		"state": models.RaffleStateOpen,
	})
	return e.persistLocked(ctx)
}
