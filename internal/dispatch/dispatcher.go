// Package dispatch is the module indirection layer: a registry of raffle
// logic variants, the active-module pointer and the administrator identity.
// The two identities live in their own fixed-id record, disjoint from the
// engine's business state, so repeated swaps never corrupt it.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/luckydip/raffle-backend/internal/engine"
	"github.com/luckydip/raffle-backend/internal/models"
	"github.com/luckydip/raffle-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// EventSink mirrors engine.EventSink for swap notifications
type EventSink interface {
	Record(ctx context.Context, eventType models.EventType, roundNumber uint64, payload map[string]interface{})
}

// Dispatcher forwards every raffle operation to the active logic module and
// owns the swap protocol.
type Dispatcher struct {
	mu            sync.RWMutex
	registry      map[string]engine.Module
	active        string
	administrator string
	recordRepo    repositories.ModuleRecordRepository
	sink          EventSink
}

// New creates a dispatcher with the given administrator and default module.
// If a persisted record exists it wins over both arguments.
func New(ctx context.Context, recordRepo repositories.ModuleRecordRepository,
	administrator, defaultModule string, sink EventSink, modules ...engine.Module) (*Dispatcher, error) {
	d := &Dispatcher{
		registry:      make(map[string]engine.Module, len(modules)),
		active:        defaultModule,
		administrator: administrator,
		recordRepo:    recordRepo,
		sink:          sink,
	}
	for _, m := range modules {
		d.registry[m.Version()] = m
	}
	if _, ok := d.registry[defaultModule]; !ok {
		return nil, fmt.Errorf("default module %q is not registered: %w", defaultModule, engine.ErrUnknownModule)
	}

	if recordRepo != nil {
		record, err := recordRepo.Load(ctx)
		if err == nil {
			if _, ok := d.registry[record.ActiveModule]; ok {
				d.active = record.ActiveModule
			} else {
				slog.Warn("Persisted active module not registered, keeping default",
					"persisted", record.ActiveModule, "default", defaultModule)
			}
			if record.Administrator != "" {
				d.administrator = record.Administrator
			}
		}
	}

	slog.Info("Dispatcher ready", "activeModule", d.active, "administrator", d.administrator)
	return d, nil
}

// Module returns the active logic module. Callers invoke raffle operations
// on the returned module directly; results and errors are theirs verbatim.
func (d *Dispatcher) Module() engine.Module {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.registry[d.active]
}

// Active returns the active module version
func (d *Dispatcher) Active() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// Administrator returns the administrator identity
func (d *Dispatcher) Administrator() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.administrator
}

// SwapModule repoints the active module. Administrator-only; the candidate
// must be registered and expose the expected upgrade hook.
func (d *Dispatcher) SwapModule(ctx context.Context, caller, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.swapLocked(ctx, caller, id)
}

// SwapModuleAndInitialize swaps and then runs the new module's initializer
// in the same critical section, so initialization can neither be skipped nor
// race a concurrent caller.
func (d *Dispatcher) SwapModuleAndInitialize(ctx context.Context, caller, id string, payload engine.InitPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.swapLocked(ctx, caller, id); err != nil {
		return err
	}
	if err := d.registry[d.active].Initialize(ctx, payload); err != nil {
		return fmt.Errorf("module %q initialization failed: %w", id, err)
	}
	return nil
}

func (d *Dispatcher) swapLocked(ctx context.Context, caller, id string) error {
	if caller != d.administrator {
		slog.Warn("Module swap rejected: caller is not the administrator", "caller", caller)
		return engine.ErrNotAdministrator
	}
	candidate, ok := d.registry[id]
	if !ok {
		return engine.ErrUnknownModule
	}
	if candidate.UpgradeHook() != engine.CompatibleUpgradeHook {
		return engine.ErrIncompatibleModule
	}

	previous := d.active
	d.active = id

	if d.recordRepo != nil {
		record := &models.ModuleRecord{
			ActiveModule:  d.active,
			Administrator: d.administrator,
		}
		if err := d.recordRepo.Save(ctx, record); err != nil {
			// Roll the pointer back: a swap that did not persist would be
			// silently undone by the next restart.
			d.active = previous
			return fmt.Errorf("failed to persist module record: %w", err)
		}
	}

	slog.Info("Active module swapped", "from", previous, "to", d.active, "by", caller)
	if d.sink != nil {
		d.sink.Record(ctx, models.EventModuleSwapped, candidate.Snapshot().RoundNumber, map[string]interface{}{
			"from": previous,
			"to":   d.active,
		})
	}
	return nil
}
