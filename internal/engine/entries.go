package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/luckydip/raffle-backend/internal/models"
	"golang.org/x/exp/slog"
)

// Enter adds a participant to the current round. The fee charge is the only
// fallible step and it runs before any mutation, so a ledger failure leaves
// the aggregate untouched.
func (e *Engine) Enter(ctx context.Context, participant string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.raffleState != models.RaffleStateOpen {
		return ErrNotOpen
	}
	if _, ok := e.st.index[participant]; ok {
		return ErrAlreadyEntered
	}

	fee := e.cfg.EntryFee
	if err := e.ledger.TransferFrom(ctx, participant, e.cfg.TreasuryAddress, fee); err != nil {
		slog.Warn("Entry fee charge failed", "participant", participant, "fee", fee, "error", err)
		return fmt.Errorf("failed to charge entry fee: %w", err)
	}

	contribution := fee / e.cfg.JackpotFeeDivisor
	e.st.pool.Contribute(contribution)
	e.st.roundFees += fee
	e.st.roundContributions += contribution
	e.st.index[participant] = len(e.st.entries)
	e.st.entries = append(e.st.entries, participant)

	if len(e.st.entries) == e.cfg.MinPlayers {
		e.st.minPlayersReachedAt = time.Now()
	}

	slog.Info("Participant entered", "participant", participant, "fee", fee,
		"entries", len(e.st.entries), "jackpotPool", e.st.pool.Balance(), "round", e.st.roundNumber)

	if e.contribRepo != nil && contribution > 0 {
		record := &models.JackpotContribution{
			RoundNumber: e.st.roundNumber,
			Address:     participant,
			Amount:      contribution,
		}
		if err := e.contribRepo.Create(ctx, record); err != nil {
			slog.Error("Failed to record jackpot contribution", "error", err, "participant", participant)
		}
	}
	e.emit(ctx, models.EventRaffleEntered, e.st.roundNumber, map[string]interface{}{
		"participant": participant,
		"fee":         fee,
	})
	return e.persistLocked(ctx)
}

// CancelEntry removes a participant from the current round, refunding a
// fixed fraction of the fee. The jackpot contribution made at entry time is
// not reversed. Removal is swap-with-last: ledger order carries no meaning.
func (e *Engine) CancelEntry(ctx context.Context, participant string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.raffleState != models.RaffleStateOpen {
		return ErrNotOpen
	}
	pos, ok := e.st.index[participant]
	if !ok {
		return ErrNotEntered
	}

	refund := e.cfg.EntryFee * e.cfg.CancelRefundPercent / 100
	if err := e.ledger.Transfer(ctx, participant, refund); err != nil {
		slog.Warn("Entry refund failed", "participant", participant, "refund", refund, "error", err)
		return fmt.Errorf("failed to refund entry fee: %w", err)
	}

	last := len(e.st.entries) - 1
	moved := e.st.entries[last]
	e.st.entries[pos] = moved
	e.st.index[moved] = pos
	e.st.entries = e.st.entries[:last]
	delete(e.st.index, participant)
	e.st.roundFees -= refund

	if len(e.st.entries) < e.cfg.MinPlayers {
		e.st.minPlayersReachedAt = time.Time{}
	}

	slog.Info("Entry cancelled", "participant", participant, "refund", refund,
		"entries", len(e.st.entries), "round", e.st.roundNumber)

	e.emit(ctx, models.EventEntryCancelled, e.st.roundNumber, map[string]interface{}{
		"participant": participant,
		"refund":      refund,
	})
	return e.persistLocked(ctx)
}
