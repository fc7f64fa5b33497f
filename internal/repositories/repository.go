package repositories

import (
	"context"

	"github.com/luckydip/raffle-backend/internal/models"
)

// RoundRepository defines the interface for round archive operations
type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	FindByNumber(ctx context.Context, number uint64) (*models.Round, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Round, error)
	Count(ctx context.Context) (int64, error)
}

// WinnerRepository defines the interface for winner data operations
type WinnerRepository interface {
	Create(ctx context.Context, winner *models.Winner) error
	FindByRoundNumber(ctx context.Context, roundNumber uint64) (*models.Winner, error)
	FindByAddress(ctx context.Context, address string) ([]*models.Winner, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Winner, error)
}

// EventRepository defines the interface for event data operations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByType(ctx context.Context, eventType models.EventType, page, limit int) ([]*models.Event, error)
	FindByRoundNumber(ctx context.Context, roundNumber uint64) ([]*models.Event, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Event, error)
}

// ContributionRepository defines the interface for jackpot contribution operations
type ContributionRepository interface {
	Create(ctx context.Context, contribution *models.JackpotContribution) error
	FindByRoundNumber(ctx context.Context, roundNumber uint64) ([]*models.JackpotContribution, error)
	SumSince(ctx context.Context, roundNumber uint64) (int64, error)
}

// EngineStateRepository persists the engine aggregate snapshot at a fixed id
type EngineStateRepository interface {
	Save(ctx context.Context, snapshot *models.EngineSnapshot) error
	Load(ctx context.Context) (*models.EngineSnapshot, error)
}

// ModuleRecordRepository persists the indirection record at a fixed id,
// in a collection of its own so swaps never touch engine state
type ModuleRecordRepository interface {
	Save(ctx context.Context, record *models.ModuleRecord) error
	Load(ctx context.Context) (*models.ModuleRecord, error)
}
