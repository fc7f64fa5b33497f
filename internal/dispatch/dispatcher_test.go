package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/luckydip/raffle-backend/internal/engine"
	"github.com/luckydip/raffle-backend/internal/models"
	"github.com/luckydip/raffle-backend/pkg/feeledger"
	"github.com/luckydip/raffle-backend/pkg/randoracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const admin = "admin@example.com"

// memoryRecordRepo is an in-memory ModuleRecordRepository for swap tests
type memoryRecordRepo struct {
	record   *models.ModuleRecord
	failSave bool
}

func (r *memoryRecordRepo) Save(ctx context.Context, record *models.ModuleRecord) error {
	if r.failSave {
		return errors.New("save failure injected")
	}
	copied := *record
	r.record = &copied
	return nil
}

func (r *memoryRecordRepo) Load(ctx context.Context) (*models.ModuleRecord, error) {
	if r.record == nil {
		return nil, errors.New("no record")
	}
	copied := *r.record
	return &copied, nil
}

// incompatibleModule reports an upgrade hook the dispatcher must refuse
type incompatibleModule struct {
	engine.Module
}

func (incompatibleModule) Version() string     { return "v9" }
func (incompatibleModule) UpgradeHook() string { return "raffle-logic/0" }

func newTestModules(t *testing.T) (*engine.Engine, engine.Module, engine.Module) {
	t.Helper()
	ledger := feeledger.NewMockClient("raffle-treasury")
	eng := engine.New(engine.Config{
		EntryFee:            10,
		MinPlayers:          3,
		JackpotFeeDivisor:   10,
		PrizePercent:        90,
		JackpotChanceBP:     100,
		CancelRefundPercent: 90,
		TreasuryAddress:     "raffle-treasury",
	}, ledger, randoracle.NewMockClient(), nil, nil, nil, nil, nil)
	return eng, engine.NewModuleV1(eng), engine.NewModuleV2(eng)
}

func TestSwapModule(t *testing.T) {
	_, v1, v2 := newTestModules(t)
	repo := &memoryRecordRepo{}
	ctx := context.Background()

	d, err := New(ctx, repo, admin, "v1", nil, v1, v2)
	require.NoError(t, err)
	assert.Equal(t, "v1", d.Active())

	require.NoError(t, d.SwapModule(ctx, admin, "v2"))
	assert.Equal(t, "v2", d.Active())
	assert.Equal(t, "v2", d.Module().Version())

	require.NotNil(t, repo.record)
	assert.Equal(t, "v2", repo.record.ActiveModule)
	assert.Equal(t, admin, repo.record.Administrator)
}

func TestSwapModuleRejectsNonAdministrator(t *testing.T) {
	_, v1, v2 := newTestModules(t)
	ctx := context.Background()

	d, err := New(ctx, nil, admin, "v1", nil, v1, v2)
	require.NoError(t, err)

	err = d.SwapModule(ctx, "mallory@example.com", "v2")
	assert.ErrorIs(t, err, engine.ErrNotAdministrator)
	assert.Equal(t, "v1", d.Active())
}

func TestSwapModuleRejectsUnknownModule(t *testing.T) {
	_, v1, v2 := newTestModules(t)
	ctx := context.Background()

	d, err := New(ctx, nil, admin, "v1", nil, v1, v2)
	require.NoError(t, err)

	err = d.SwapModule(ctx, admin, "v3")
	assert.ErrorIs(t, err, engine.ErrUnknownModule)
	assert.Equal(t, "v1", d.Active())
}

func TestSwapModuleRejectsIncompatibleHook(t *testing.T) {
	_, v1, v2 := newTestModules(t)
	ctx := context.Background()

	d, err := New(ctx, nil, admin, "v1", nil, v1, incompatibleModule{Module: v2})
	require.NoError(t, err)

	err = d.SwapModule(ctx, admin, "v9")
	assert.ErrorIs(t, err, engine.ErrIncompatibleModule)
	assert.Equal(t, "v1", d.Active())
}

func TestSwapModuleRollsBackOnPersistFailure(t *testing.T) {
	_, v1, v2 := newTestModules(t)
	repo := &memoryRecordRepo{failSave: true}
	ctx := context.Background()

	d, err := New(ctx, repo, admin, "v1", nil, v1, v2)
	require.NoError(t, err)

	err = d.SwapModule(ctx, admin, "v2")
	require.Error(t, err)
	assert.Equal(t, "v1", d.Active(), "a swap that did not persist must not take effect")
}

func TestSwapModuleAndInitialize(t *testing.T) {
	eng, v1, v2 := newTestModules(t)
	ctx := context.Background()

	d, err := New(ctx, nil, admin, "v1", nil, v1, v2)
	require.NoError(t, err)

	fee := int64(25)
	require.NoError(t, d.SwapModuleAndInitialize(ctx, admin, "v2", engine.InitPayload{EntryFee: &fee}))
	assert.Equal(t, "v2", d.Active())
	assert.Equal(t, int64(25), eng.Params().EntryFee, "the override lands on the shared engine")
	assert.Equal(t, 3, eng.Params().MinPlayers, "untouched parameters survive the swap")
}

func TestSwapModuleAndInitializeRejectsNonAdministrator(t *testing.T) {
	eng, v1, v2 := newTestModules(t)
	ctx := context.Background()

	d, err := New(ctx, nil, admin, "v1", nil, v1, v2)
	require.NoError(t, err)

	fee := int64(25)
	err = d.SwapModuleAndInitialize(ctx, "mallory@example.com", "v2", engine.InitPayload{EntryFee: &fee})
	assert.ErrorIs(t, err, engine.ErrNotAdministrator)
	assert.Equal(t, "v1", d.Active())
	assert.Equal(t, int64(10), eng.Params().EntryFee, "no initializer runs on a rejected swap")
}

func TestNewRestoresPersistedRecord(t *testing.T) {
	_, v1, v2 := newTestModules(t)
	repo := &memoryRecordRepo{record: &models.ModuleRecord{
		ActiveModule:  "v2",
		Administrator: "ops@example.com",
	}}
	ctx := context.Background()

	d, err := New(ctx, repo, admin, "v1", nil, v1, v2)
	require.NoError(t, err)
	assert.Equal(t, "v2", d.Active(), "persisted pointer wins over the default")
	assert.Equal(t, "ops@example.com", d.Administrator())
}

func TestNewRejectsUnregisteredDefault(t *testing.T) {
	_, v1, _ := newTestModules(t)

	_, err := New(context.Background(), nil, admin, "v2", nil, v1)
	assert.ErrorIs(t, err, engine.ErrUnknownModule)
}
