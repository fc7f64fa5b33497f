package engine

import (
	"context"
	"testing"
	"time"

	"github.com/luckydip/raffle-backend/internal/models"
	"github.com/luckydip/raffle-backend/pkg/feeledger"
	"github.com/luckydip/raffle-backend/pkg/randoracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treasury = "raffle-treasury"

func testConfig() Config {
	return Config{
		EntryFee:            10,
		MinPlayers:          3,
		Cooldown:            60 * time.Second,
		JackpotFeeDivisor:   10,
		PrizePercent:        90,
		JackpotChanceBP:     100,
		CancelRefundPercent: 90,
		TreasuryAddress:     treasury,
		RandomWordCount:     2,
		OracleConfirmations: 3,
	}
}

func newTestEngine(t *testing.T) (*Engine, *feeledger.MockClient, *randoracle.MockClient) {
	t.Helper()
	ledger := feeledger.NewMockClient(treasury)
	oracle := randoracle.NewMockClient()
	eng := New(testConfig(), ledger, oracle, nil, nil, nil, nil, nil)
	for _, addr := range []string{"alice", "bob", "carol", "dave"} {
		ledger.SetBalance(addr, 100)
	}
	return eng, ledger, oracle
}

// enterThree enters three distinct participants and returns the pending
// request id after initiating the draw when initiate is true.
func enterThree(t *testing.T, eng *Engine, initiate bool) string {
	t.Helper()
	ctx := context.Background()
	for _, addr := range []string{"alice", "bob", "carol"} {
		require.NoError(t, eng.Enter(ctx, addr))
	}
	if !initiate {
		return ""
	}
	reached := eng.Snapshot().MinPlayersReachedAt
	requestID, err := eng.InitiateDraw(ctx, reached.Add(61*time.Second))
	require.NoError(t, err)
	return requestID
}

func TestEnterAccumulatesJackpotAndLedger(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Enter(ctx, "alice"))
	require.NoError(t, eng.Enter(ctx, "bob"))

	snapshot := eng.Snapshot()
	assert.Equal(t, models.RaffleStateOpen, snapshot.State)
	assert.Equal(t, []string{"alice", "bob"}, snapshot.Participants)
	assert.Equal(t, int64(2), snapshot.JackpotPool)
	assert.True(t, snapshot.MinPlayersReachedAt.IsZero())

	balance, err := ledger.BalanceOf(ctx, treasury)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)

	require.NoError(t, eng.Enter(ctx, "carol"))
	snapshot = eng.Snapshot()
	assert.Equal(t, int64(3), snapshot.JackpotPool)
	assert.False(t, snapshot.MinPlayersReachedAt.IsZero(), "threshold timestamp should be set at three entries")
}

func TestEnterRejectsDuplicate(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Enter(ctx, "alice"))
	err := eng.Enter(ctx, "alice")
	assert.ErrorIs(t, err, ErrAlreadyEntered)

	// The duplicate must not have been charged.
	balance, err := ledger.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(90), balance)
	assert.Len(t, eng.Snapshot().Participants, 1)
}

func TestEnterAbortsWhenChargeFails(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	ctx := context.Background()

	ledger.FailTransferFrom = true
	err := eng.Enter(ctx, "alice")
	require.Error(t, err)

	snapshot := eng.Snapshot()
	assert.Empty(t, snapshot.Participants)
	assert.Zero(t, snapshot.JackpotPool)
}

func TestCheckTriggerCooldown(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	enterThree(t, eng, false)

	reached := eng.Snapshot().MinPlayersReachedAt
	assert.False(t, eng.CheckTrigger(reached.Add(30*time.Second)))
	assert.True(t, eng.CheckTrigger(reached.Add(61*time.Second)))
}

func TestCheckTriggerNeedsMinPlayers(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Enter(ctx, "alice"))
	require.NoError(t, eng.Enter(ctx, "bob"))
	assert.False(t, eng.CheckTrigger(time.Now().Add(time.Hour)))
}

func TestInitiateDrawIssuesOneRequest(t *testing.T) {
	eng, _, oracle := newTestEngine(t)
	requestID := enterThree(t, eng, true)

	snapshot := eng.Snapshot()
	assert.Equal(t, models.RaffleStateDrawing, snapshot.State)
	assert.Equal(t, requestID, snapshot.PendingRequestID)
	assert.Equal(t, []string{requestID}, oracle.Issued())

	// A second initiation is rejected: no new request while one is out.
	_, err := eng.InitiateDraw(context.Background(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrTriggerNotMet)
	assert.Len(t, oracle.Issued(), 1)
}

func TestInitiateDrawRevalidatesTrigger(t *testing.T) {
	eng, _, oracle := newTestEngine(t)
	enterThree(t, eng, false)

	reached := eng.Snapshot().MinPlayersReachedAt
	_, err := eng.InitiateDraw(context.Background(), reached.Add(10*time.Second))
	assert.ErrorIs(t, err, ErrTriggerNotMet)
	assert.Equal(t, models.RaffleStateOpen, eng.Snapshot().State)
	assert.Empty(t, oracle.Issued())
}

func TestFulfillmentJackpotWin(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	requestID := enterThree(t, eng, true)
	ctx := context.Background()

	// 7 mod 3 selects the second entrant; 55 mod 10000 is under the 100
	// basis-point jackpot threshold.
	result, err := eng.FulfillRandomness(ctx, requestID, []uint64{7, 55})
	require.NoError(t, err)

	assert.Equal(t, "bob", result.Winner)
	assert.True(t, result.JackpotWon)
	assert.Equal(t, int64(30), result.Prize, "27 base prize plus the 3-token pool")

	snapshot := eng.Snapshot()
	assert.Equal(t, models.RaffleStateOpen, snapshot.State)
	assert.Empty(t, snapshot.Participants)
	assert.Zero(t, snapshot.JackpotPool, "pool resets on a jackpot win")
	assert.Empty(t, snapshot.PendingRequestID)
	assert.True(t, snapshot.MinPlayersReachedAt.IsZero())
	assert.Equal(t, "bob", snapshot.RecentWinner)
	assert.Equal(t, int64(30), snapshot.RecentPrize)
	assert.True(t, snapshot.RecentJackpotWon)
	assert.Equal(t, uint64(2), snapshot.RoundNumber)

	balance, err := ledger.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(120), balance)
}

func TestFulfillmentNoJackpot(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	requestID := enterThree(t, eng, true)

	// 4000 mod 10000 is at or above the threshold: base prize only.
	result, err := eng.FulfillRandomness(context.Background(), requestID, []uint64{7, 4000})
	require.NoError(t, err)

	assert.Equal(t, int64(27), result.Prize)
	assert.False(t, result.JackpotWon)

	snapshot := eng.Snapshot()
	assert.Equal(t, int64(3), snapshot.JackpotPool, "pool carries over")
	assert.Equal(t, models.RaffleStateOpen, snapshot.State)
}

func TestFulfillmentConservation(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	requestID := enterThree(t, eng, true)
	ctx := context.Background()

	_, err := eng.FulfillRandomness(ctx, requestID, []uint64{2, 4000})
	require.NoError(t, err)

	// Fees 30 = contributions 3 + base prize 27 + retained 0.
	snapshot := eng.Snapshot()
	assert.Zero(t, snapshot.RetainedRevenue)

	// Treasury still holds the unwon pool.
	balance, err := ledger.BalanceOf(ctx, treasury)
	require.NoError(t, err)
	assert.Equal(t, snapshot.JackpotPool+snapshot.RetainedRevenue, balance)
}

func TestFulfillmentRejectsStaleRequest(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	enterThree(t, eng, true)

	before := eng.Snapshot()
	_, err := eng.FulfillRandomness(context.Background(), "req-bogus", []uint64{7, 55})
	assert.ErrorIs(t, err, ErrStaleRequest)

	after := eng.Snapshot()
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.Participants, after.Participants)
	assert.Equal(t, before.JackpotPool, after.JackpotPool)
	assert.Equal(t, before.PendingRequestID, after.PendingRequestID)
}

func TestFulfillmentRejectsWhenNotDrawing(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	enterThree(t, eng, false)

	_, err := eng.FulfillRandomness(context.Background(), "req-any", []uint64{7, 55})
	assert.ErrorIs(t, err, ErrNotDrawing)
	assert.Len(t, eng.Snapshot().Participants, 3)
}

func TestFulfillmentRejectsShortVector(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	requestID := enterThree(t, eng, true)

	_, err := eng.FulfillRandomness(context.Background(), requestID, []uint64{7})
	assert.ErrorIs(t, err, ErrShortRandomness)

	snapshot := eng.Snapshot()
	assert.Equal(t, models.RaffleStateDrawing, snapshot.State)
	assert.Equal(t, requestID, snapshot.PendingRequestID)
}

func TestFulfillmentPayoutFailureKeepsDrawing(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	requestID := enterThree(t, eng, true)

	ledger.FailTransfer = true
	_, err := eng.FulfillRandomness(context.Background(), requestID, []uint64{7, 4000})
	require.Error(t, err)

	snapshot := eng.Snapshot()
	assert.Equal(t, models.RaffleStateDrawing, snapshot.State)
	assert.Equal(t, requestID, snapshot.PendingRequestID)
	assert.Len(t, snapshot.Participants, 3)

	// The payout can be retried once the ledger recovers.
	ledger.FailTransfer = false
	result, err := eng.FulfillRandomness(context.Background(), requestID, []uint64{7, 4000})
	require.NoError(t, err)
	assert.Equal(t, int64(27), result.Prize)
}

func TestEnterRejectedWhileDrawing(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	enterThree(t, eng, true)
	ctx := context.Background()

	err := eng.Enter(ctx, "dave")
	assert.ErrorIs(t, err, ErrNotOpen)

	balance, err2 := ledger.BalanceOf(ctx, "dave")
	require.NoError(t, err2)
	assert.Equal(t, int64(100), balance, "no fee may be charged on a rejected entry")
	assert.Len(t, eng.Snapshot().Participants, 3)
}

func TestCancelEntryRefundsAndReorders(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	enterThree(t, eng, false)
	ctx := context.Background()

	require.NoError(t, eng.CancelEntry(ctx, "alice"))

	snapshot := eng.Snapshot()
	// Swap-with-last: carol moved into alice's slot.
	assert.Equal(t, []string{"carol", "bob"}, snapshot.Participants)
	assert.Equal(t, int64(3), snapshot.JackpotPool, "the contribution is not reversed")
	assert.True(t, snapshot.MinPlayersReachedAt.IsZero(), "threshold timestamp clears below the minimum")

	balance, err := ledger.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(99), balance, "90 percent of the fee is refunded")

	// Re-entry after cancellation is a fresh entry.
	require.NoError(t, eng.Enter(ctx, "alice"))
	assert.Len(t, eng.Snapshot().Participants, 3)
}

func TestCancelEntryRejectsUnknownParticipant(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	require.NoError(t, eng.Enter(context.Background(), "alice"))

	err := eng.CancelEntry(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrNotEntered)
}

func TestForceReopenInvalidatesAbandonedRequest(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	abandoned := enterThree(t, eng, true)
	ctx := context.Background()

	require.NoError(t, eng.ForceReopen(ctx))
	snapshot := eng.Snapshot()
	assert.Equal(t, models.RaffleStateOpen, snapshot.State)
	assert.Empty(t, snapshot.PendingRequestID)
	assert.Len(t, snapshot.Participants, 3, "entries survive a force-reopen")

	// The late fulfillment for the abandoned request is rejected.
	_, err := eng.FulfillRandomness(ctx, abandoned, []uint64{7, 55})
	assert.ErrorIs(t, err, ErrNotDrawing)

	// A new draw gets a fresh request id and resolves normally.
	reached := snapshot.MinPlayersReachedAt
	fresh, err := eng.InitiateDraw(ctx, reached.Add(2*time.Minute))
	require.NoError(t, err)
	assert.NotEqual(t, abandoned, fresh)

	_, err = eng.FulfillRandomness(ctx, fresh, []uint64{0, 4000})
	require.NoError(t, err)
}

func TestForceReopenRequiresDrawing(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	assert.ErrorIs(t, eng.ForceReopen(context.Background()), ErrNotDrawing)
}

func TestCloseAndReopen(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Close(ctx))
	assert.Equal(t, models.RaffleStateClosed, eng.Snapshot().State)

	assert.ErrorIs(t, eng.Enter(ctx, "alice"), ErrNotOpen)
	assert.ErrorIs(t, eng.Close(ctx), ErrNotOpen)
	assert.False(t, eng.CheckTrigger(time.Now().Add(time.Hour)))

	require.NoError(t, eng.Open(ctx))
	assert.Equal(t, models.RaffleStateOpen, eng.Snapshot().State)
	require.NoError(t, eng.Enter(ctx, "alice"))
}

func TestJackpotCarriesAcrossRounds(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	ctx := context.Background()

	// Round one: no jackpot, pool persists.
	requestID := enterThree(t, eng, true)
	_, err := eng.FulfillRandomness(ctx, requestID, []uint64{0, 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(3), eng.Snapshot().JackpotPool)

	// Round two: pool grows on top of the carry-over, then drains on a win.
	for _, addr := range []string{"alice", "bob", "carol"} {
		ledger.SetBalance(addr, 100)
		require.NoError(t, eng.Enter(ctx, addr))
	}
	reached := eng.Snapshot().MinPlayersReachedAt
	requestID, err = eng.InitiateDraw(ctx, reached.Add(2*time.Minute))
	require.NoError(t, err)

	result, err := eng.FulfillRandomness(ctx, requestID, []uint64{0, 0})
	require.NoError(t, err)
	assert.True(t, result.JackpotWon)
	assert.Equal(t, int64(27+6), result.Prize)
	assert.Zero(t, eng.Snapshot().JackpotPool)
}

func TestRestoreRoundTrip(t *testing.T) {
	eng, _, oracle := newTestEngine(t)
	requestID := enterThree(t, eng, true)

	snapshot := &models.EngineSnapshot{
		State:               models.RaffleStateDrawing,
		Participants:        []string{"alice", "bob", "carol"},
		JackpotPool:         3,
		RoundFees:           30,
		RoundContributions:  3,
		RoundNumber:         1,
		PendingRequestID:    requestID,
		MinPlayersReachedAt: eng.Snapshot().MinPlayersReachedAt,
	}

	ledger := feeledger.NewMockClient(treasury)
	ledger.SetBalance(treasury, 30)
	restored := New(testConfig(), ledger, oracle, nil, nil, nil, nil, nil)
	restored.Restore(snapshot)

	view := restored.Snapshot()
	assert.Equal(t, models.RaffleStateDrawing, view.State)
	assert.Equal(t, requestID, view.PendingRequestID)

	// The restored engine resolves the outstanding draw.
	result, err := restored.FulfillRandomness(context.Background(), requestID, []uint64{1, 4000})
	require.NoError(t, err)
	assert.Equal(t, "bob", result.Winner)
}
