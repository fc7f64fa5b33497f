// Package scheduler is the optional in-process trigger poller. Deployments
// with an external automation service leave it disabled; the engine
// re-validates the trigger on initiation either way.
package scheduler

import (
	"context"
	"time"

	"github.com/luckydip/raffle-backend/internal/dispatch"
	"golang.org/x/exp/slog"
)

// Scheduler polls the trigger predicate and initiates draws
type Scheduler struct {
	dispatcher *dispatch.Dispatcher
	interval   time.Duration
}

// New creates a new Scheduler
func New(dispatcher *dispatch.Dispatcher, interval time.Duration) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		interval:   interval,
	}
}

// Run polls until the context is cancelled. Failures are logged and left for
// the next tick; the scheduler never retries within the engine.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("Trigger poller started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Trigger poller stopped")
			return
		case now := <-ticker.C:
			module := s.dispatcher.Module()
			if !module.CheckTrigger(now) {
				continue
			}
			requestID, err := module.InitiateDraw(ctx, now)
			if err != nil {
				// Expected when another caller won the race; the engine
				// re-validated and rejected us.
				slog.Warn("Draw initiation failed", "error", err)
				continue
			}
			slog.Info("Draw initiated by poller", "requestId", requestID)
		}
	}
}
