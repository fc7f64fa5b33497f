package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleV1RejectsCancellation(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	v1 := NewModuleV1(eng)
	ctx := context.Background()

	require.NoError(t, v1.Enter(ctx, "alice"))
	err := v1.CancelEntry(ctx, "alice")
	assert.ErrorIs(t, err, ErrCancellationUnsupported)

	// The entry and the charged fee are untouched.
	assert.Len(t, v1.Snapshot().Participants, 1)
	balance, err := ledger.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(90), balance)
}

func TestModuleV2SupportsCancellation(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	v2 := NewModuleV2(eng)
	ctx := context.Background()

	require.NoError(t, v2.Enter(ctx, "alice"))
	require.NoError(t, v2.CancelEntry(ctx, "alice"))
	assert.Empty(t, v2.Snapshot().Participants)
}

func TestModulesShareEngineState(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	v1 := NewModuleV1(eng)
	v2 := NewModuleV2(eng)
	ctx := context.Background()

	require.NoError(t, v1.Enter(ctx, "alice"))
	require.NoError(t, v2.Enter(ctx, "bob"))

	// Both views see the same underlying ledger.
	assert.Equal(t, []string{"alice", "bob"}, v1.Snapshot().Participants)
	assert.Equal(t, []string{"alice", "bob"}, v2.Snapshot().Participants)
}

func TestModuleUpgradeHooks(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	v1 := NewModuleV1(eng)
	v2 := NewModuleV2(eng)
	assert.Equal(t, "v1", v1.Version())
	assert.Equal(t, "v2", v2.Version())
	assert.Equal(t, CompatibleUpgradeHook, v1.UpgradeHook())
	assert.Equal(t, CompatibleUpgradeHook, v2.UpgradeHook())
}

func TestInitializeAppliesOverrides(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	ctx := context.Background()

	fee := int64(20)
	minPlayers := 2
	cooldown := 5 * time.Minute
	require.NoError(t, eng.Initialize(ctx, InitPayload{
		EntryFee:   &fee,
		MinPlayers: &minPlayers,
		Cooldown:   &cooldown,
	}))

	params := eng.Params()
	assert.Equal(t, int64(20), params.EntryFee)
	assert.Equal(t, 2, params.MinPlayers)
	assert.Equal(t, 5*time.Minute, params.Cooldown)
	// Untouched parameters keep their running values.
	assert.Equal(t, int64(90), params.PrizePercent)

	// The new fee takes effect on the next entry.
	require.NoError(t, eng.Enter(ctx, "alice"))
	balance, err := ledger.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(80), balance)
	assert.Equal(t, int64(2), eng.Snapshot().JackpotPool)
}
