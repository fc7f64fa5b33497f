package engine

import (
	"context"
	"sync"
	"time"

	"github.com/luckydip/raffle-backend/internal/models"
	"github.com/luckydip/raffle-backend/internal/repositories"
	"github.com/luckydip/raffle-backend/pkg/feeledger"
	"github.com/luckydip/raffle-backend/pkg/randoracle"
	"golang.org/x/exp/slog"
)

// Config holds the raffle parameters the engine runs with
type Config struct {
	EntryFee            int64
	MinPlayers          int
	Cooldown            time.Duration
	JackpotFeeDivisor   int64
	PrizePercent        int64
	JackpotChanceBP     int64
	CancelRefundPercent int64
	TreasuryAddress     string
	RandomWordCount     int
	OracleConfirmations int
}

// EventSink receives engine notifications. Recording is best-effort: a sink
// failure never fails the operation that emitted the event.
type EventSink interface {
	Record(ctx context.Context, eventType models.EventType, roundNumber uint64, payload map[string]interface{})
}

// Snapshot is the read-only view of the aggregate handed to external readers
type Snapshot struct {
	State               models.RaffleState `json:"state"`
	Participants        []string           `json:"participants"`
	JackpotPool         int64              `json:"jackpotPool"`
	RetainedRevenue     int64              `json:"retainedRevenue"`
	RoundNumber         uint64             `json:"roundNumber"`
	PendingRequestID    string             `json:"pendingRequestId,omitempty"`
	MinPlayersReachedAt time.Time          `json:"minPlayersReachedAt,omitempty"`
	DrawInitiatedAt     time.Time          `json:"drawInitiatedAt,omitempty"`
	RecentWinner        string             `json:"recentWinner,omitempty"`
	RecentPrize         int64              `json:"recentPrize"`
	RecentJackpotWon    bool               `json:"recentJackpotWon"`
}

// DrawResult is what a completed fulfillment produced
type DrawResult struct {
	RoundNumber uint64 `json:"roundNumber"`
	Winner      string `json:"winner"`
	Prize       int64  `json:"prize"`
	JackpotWon  bool   `json:"jackpotWon"`
}

// state is the owned aggregate: entry ledger, jackpot pool, state flags and
// the pending-request marker. Mutated only under the engine mutex.
type state struct {
	raffleState models.RaffleState
	entries     []string
	index       map[string]int
	pool        JackpotPool

	retainedRevenue    int64
	roundFees          int64
	roundContributions int64
	roundNumber        uint64

	pendingRequestID    string
	minPlayersReachedAt time.Time
	drawInitiatedAt     time.Time

	recentWinner     string
	recentPrize      int64
	recentJackpotWon bool
}

// Engine is the draw state machine. One mutex serialises every operation,
// which models the single global sequencer of the execution environment.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	ledger feeledger.Client
	oracle randoracle.Client

	stateRepo   repositories.EngineStateRepository
	roundRepo   repositories.RoundRepository
	winnerRepo  repositories.WinnerRepository
	contribRepo repositories.ContributionRepository
	sink        EventSink

	st state
}

// New creates an engine with a fresh OPEN state
func New(cfg Config, ledger feeledger.Client, oracle randoracle.Client,
	stateRepo repositories.EngineStateRepository, roundRepo repositories.RoundRepository,
	winnerRepo repositories.WinnerRepository, contribRepo repositories.ContributionRepository,
	sink EventSink) *Engine {
	if cfg.RandomWordCount == 0 {
		cfg.RandomWordCount = 2
	}
	return &Engine{
		cfg:         cfg,
		ledger:      ledger,
		oracle:      oracle,
		stateRepo:   stateRepo,
		roundRepo:   roundRepo,
		winnerRepo:  winnerRepo,
		contribRepo: contribRepo,
		sink:        sink,
		st: state{
			raffleState: models.RaffleStateOpen,
			index:       make(map[string]int),
			roundNumber: 1,
		},
	}
}

// Restore rebuilds the aggregate from a persisted snapshot. Called once at
// startup, before the engine is reachable.
func (e *Engine) Restore(snapshot *models.EngineSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := state{
		raffleState:         snapshot.State,
		entries:             append([]string(nil), snapshot.Participants...),
		index:               make(map[string]int, len(snapshot.Participants)),
		retainedRevenue:     snapshot.RetainedRevenue,
		roundFees:           snapshot.RoundFees,
		roundContributions:  snapshot.RoundContributions,
		roundNumber:         snapshot.RoundNumber,
		pendingRequestID:    snapshot.PendingRequestID,
		minPlayersReachedAt: snapshot.MinPlayersReachedAt,
		drawInitiatedAt:     snapshot.DrawInitiatedAt,
		recentWinner:        snapshot.RecentWinner,
		recentPrize:         snapshot.RecentPrize,
		recentJackpotWon:    snapshot.RecentJackpotWon,
	}
	st.pool.Contribute(snapshot.JackpotPool)
	for i, addr := range st.entries {
		st.index[addr] = i
	}
	if st.roundNumber == 0 {
		st.roundNumber = 1
	}
	e.st = st
	slog.Info("Engine state restored", "state", st.raffleState, "entries", len(st.entries),
		"jackpotPool", st.pool.Balance(), "round", st.roundNumber)
}

// Snapshot returns a copy of the aggregate for external readers
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *Engine) viewLocked() Snapshot {
	return Snapshot{
		State:               e.st.raffleState,
		Participants:        append([]string(nil), e.st.entries...),
		JackpotPool:         e.st.pool.Balance(),
		RetainedRevenue:     e.st.retainedRevenue,
		RoundNumber:         e.st.roundNumber,
		PendingRequestID:    e.st.pendingRequestID,
		MinPlayersReachedAt: e.st.minPlayersReachedAt,
		DrawInitiatedAt:     e.st.drawInitiatedAt,
		RecentWinner:        e.st.recentWinner,
		RecentPrize:         e.st.recentPrize,
		RecentJackpotWon:    e.st.recentJackpotWon,
	}
}

// persistLocked writes the snapshot through to storage. The in-memory commit
// has already happened; un-committing after a successful token transfer
// would risk a double payout on retry, so a persistence failure is surfaced
// without rolling back.
func (e *Engine) persistLocked(ctx context.Context) error {
	if e.stateRepo == nil {
		return nil
	}
	snapshot := &models.EngineSnapshot{
		State:               e.st.raffleState,
		Participants:        append([]string(nil), e.st.entries...),
		JackpotPool:         e.st.pool.Balance(),
		RetainedRevenue:     e.st.retainedRevenue,
		RoundFees:           e.st.roundFees,
		RoundContributions:  e.st.roundContributions,
		RoundNumber:         e.st.roundNumber,
		PendingRequestID:    e.st.pendingRequestID,
		MinPlayersReachedAt: e.st.minPlayersReachedAt,
		DrawInitiatedAt:     e.st.drawInitiatedAt,
		RecentWinner:        e.st.recentWinner,
		RecentPrize:         e.st.recentPrize,
		RecentJackpotWon:    e.st.recentJackpotWon,
	}
	if err := e.stateRepo.Save(ctx, snapshot); err != nil {
		slog.Error("Failed to persist engine snapshot", "error", err, "round", e.st.roundNumber)
		return err
	}
	return nil
}

func (e *Engine) emit(ctx context.Context, eventType models.EventType, roundNumber uint64, payload map[string]interface{}) {
	if e.sink == nil {
		return
	}
	e.sink.Record(ctx, eventType, roundNumber, payload)
}
