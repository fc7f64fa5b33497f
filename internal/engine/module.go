package engine

import (
	"context"
	"time"

	"golang.org/x/exp/slog"
)

// CompatibleUpgradeHook is the value a logic module must report from its
// upgrade hook before the indirection layer will swap to it. It guards
// against pointing the dispatcher at an incompatible target.
const CompatibleUpgradeHook = "raffle-logic/1"

// InitPayload carries the parameter overrides applied when a module is
// swapped in with initialization. Nil fields leave the running value alone.
type InitPayload struct {
	EntryFee            *int64         `json:"entryFee,omitempty"`
	MinPlayers          *int           `json:"minPlayers,omitempty"`
	Cooldown            *time.Duration `json:"cooldown,omitempty"`
	JackpotFeeDivisor   *int64         `json:"jackpotFeeDivisor,omitempty"`
	PrizePercent        *int64         `json:"prizePercent,omitempty"`
	JackpotChanceBP     *int64         `json:"jackpotChanceBP,omitempty"`
	CancelRefundPercent *int64         `json:"cancelRefundPercent,omitempty"`
}

// Module is one raffle logic variant. All variants bind the same shared
// engine aggregate, so swapping the active module never disturbs
// accumulated state.
type Module interface {
	Version() string
	UpgradeHook() string
	Initialize(ctx context.Context, payload InitPayload) error

	Enter(ctx context.Context, participant string) error
	CancelEntry(ctx context.Context, participant string) error
	CheckTrigger(now time.Time) bool
	InitiateDraw(ctx context.Context, now time.Time) (string, error)
	FulfillRandomness(ctx context.Context, requestID string, words []uint64) (*DrawResult, error)
	ForceReopen(ctx context.Context) error
	Close(ctx context.Context) error
	Open(ctx context.Context) error
	Snapshot() Snapshot
}

// Initialize applies parameter overrides under the engine lock
func (e *Engine) Initialize(ctx context.Context, payload InitPayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if payload.EntryFee != nil {
		e.cfg.EntryFee = *payload.EntryFee
	}
	if payload.MinPlayers != nil {
		e.cfg.MinPlayers = *payload.MinPlayers
	}
	if payload.Cooldown != nil {
		e.cfg.Cooldown = *payload.Cooldown
	}
	if payload.JackpotFeeDivisor != nil {
		e.cfg.JackpotFeeDivisor = *payload.JackpotFeeDivisor
	}
	if payload.PrizePercent != nil {
		e.cfg.PrizePercent = *payload.PrizePercent
	}
	if payload.JackpotChanceBP != nil {
		e.cfg.JackpotChanceBP = *payload.JackpotChanceBP
	}
	if payload.CancelRefundPercent != nil {
		e.cfg.CancelRefundPercent = *payload.CancelRefundPercent
	}
	slog.Info("Engine parameters initialized", "entryFee", e.cfg.EntryFee,
		"minPlayers", e.cfg.MinPlayers, "cooldown", e.cfg.Cooldown)
	return nil
}

// Params returns the parameters the engine currently runs with
func (e *Engine) Params() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// moduleV1 is the base raffle logic: entries are final.
type moduleV1 struct {
	*Engine
}

// NewModuleV1 wraps the engine as the base logic variant
func NewModuleV1(e *Engine) Module {
	return moduleV1{Engine: e}
}

func (moduleV1) Version() string     { return "v1" }
func (moduleV1) UpgradeHook() string { return CompatibleUpgradeHook }

// CancelEntry is not part of the v1 logic.
func (moduleV1) CancelEntry(ctx context.Context, participant string) error {
	return ErrCancellationUnsupported
}

// moduleV2 extends v1 with entry cancellation.
type moduleV2 struct {
	*Engine
}

// NewModuleV2 wraps the engine as the cancellation-capable variant
func NewModuleV2(e *Engine) Module {
	return moduleV2{Engine: e}
}

func (moduleV2) Version() string     { return "v2" }
func (moduleV2) UpgradeHook() string { return CompatibleUpgradeHook }
