package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/luckydip/raffle-backend/internal/models"
	"golang.org/x/exp/slog"
)

const jackpotScale = 10000

// FulfillRandomness resolves the outstanding draw. The HTTP layer has
// already authenticated the caller as the oracle identity; this method
// enforces the protocol itself: DRAWING state, a matching correlation id and
// a full randomness vector. Any violation rejects the call with no state
// change. A payout failure also leaves the raffle in DRAWING so the draw can
// be retried or force-reopened by the administrator.
func (e *Engine) FulfillRandomness(ctx context.Context, requestID string, words []uint64) (*DrawResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.raffleState != models.RaffleStateDrawing {
		slog.Warn("Fulfillment rejected: raffle not drawing", "requestId", requestID, "state", e.st.raffleState)
		return nil, ErrNotDrawing
	}
	if e.st.pendingRequestID == "" {
		slog.Warn("Fulfillment rejected: no outstanding request", "requestId", requestID)
		return nil, ErrNoPendingRequest
	}
	if requestID != e.st.pendingRequestID {
		slog.Warn("Fulfillment rejected: stale request id", "requestId", requestID, "outstanding", e.st.pendingRequestID)
		return nil, ErrStaleRequest
	}
	if len(words) < e.cfg.RandomWordCount {
		slog.Warn("Fulfillment rejected: short randomness vector", "requestId", requestID,
			"got", len(words), "want", e.cfg.RandomWordCount)
		return nil, ErrShortRandomness
	}
	n := len(e.st.entries)
	if n == 0 {
		// Unreachable given the trigger invariant; defensive precondition.
		return nil, ErrEmptyLedger
	}

	winnerIndex := int(words[0] % uint64(n))
	winner := e.st.entries[winnerIndex]

	basePrize := e.cfg.EntryFee * int64(n) * e.cfg.PrizePercent / 100
	jackpotWon := words[1]%jackpotScale < uint64(e.cfg.JackpotChanceBP)
	prize := basePrize
	jackpotPaid := int64(0)
	if jackpotWon {
		jackpotPaid = e.st.pool.Balance()
		prize += jackpotPaid
	}

	if err := e.ledger.Transfer(ctx, winner, prize); err != nil {
		slog.Error("Prize payout failed; raffle stays in DRAWING", "winner", winner, "prize", prize, "error", err)
		return nil, fmt.Errorf("failed to pay prize: %w", err)
	}

	// Payout succeeded; commit the round resolution.
	if jackpotWon {
		e.st.pool.Drain()
	}
	feesCollected := e.st.roundFees
	contributions := e.st.roundContributions
	retainedDelta := feesCollected - basePrize - contributions
	e.st.retainedRevenue += retainedDelta

	roundNumber := e.st.roundNumber
	participants := e.st.entries
	drawInitiatedAt := e.st.drawInitiatedAt
	fulfilledAt := time.Now()

	e.st.entries = nil
	e.st.index = make(map[string]int)
	e.st.roundFees = 0
	e.st.roundContributions = 0
	e.st.pendingRequestID = ""
	e.st.minPlayersReachedAt = time.Time{}
	e.st.drawInitiatedAt = time.Time{}
	e.st.recentWinner = winner
	e.st.recentPrize = prize
	e.st.recentJackpotWon = jackpotWon
	e.st.roundNumber++
	e.st.raffleState = models.RaffleStateOpen

	slog.Info("Winner selected", "winner", winner, "prize", prize, "jackpotWon", jackpotWon,
		"basePrize", basePrize, "jackpotPaid", jackpotPaid, "round", roundNumber)

	if e.roundRepo != nil {
		round := &models.Round{
			Number:          roundNumber,
			Participants:    participants,
			EntryFee:        e.cfg.EntryFee,
			FeesCollected:   feesCollected,
			BasePrize:       basePrize,
			JackpotWon:      jackpotWon,
			JackpotPaid:     jackpotPaid,
			RetainedRevenue: retainedDelta,
			WinnerAddress:   winner,
			RequestID:       requestID,
			DrawInitiatedAt: drawInitiatedAt,
			FulfilledAt:     fulfilledAt,
		}
		if err := e.roundRepo.Create(ctx, round); err != nil {
			slog.Error("Failed to archive round", "error", err, "round", roundNumber)
		}
	}
	if e.winnerRepo != nil {
		record := &models.Winner{
			RoundNumber: roundNumber,
			Address:     winner,
			Prize:       prize,
			JackpotWon:  jackpotWon,
			WinDate:     fulfilledAt,
		}
		if err := e.winnerRepo.Create(ctx, record); err != nil {
			slog.Error("Failed to record winner", "error", err, "round", roundNumber)
		}
	}

	e.emit(ctx, models.EventWinnerSelected, roundNumber, map[string]interface{}{
		"winner":     winner,
		"prize":      prize,
		"jackpotWon": jackpotWon,
	})
	e.emit(ctx, models.EventStateChanged, e.st.roundNumber, map[string]interface{}{
		"state": models.RaffleStateOpen,
	})

	result := &DrawResult{
		RoundNumber: roundNumber,
		Winner:      winner,
		Prize:       prize,
		JackpotWon:  jackpotWon,
	}
	return result, e.persistLocked(ctx)
}
