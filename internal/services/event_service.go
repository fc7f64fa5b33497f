package services

import (
	"context"

	"github.com/luckydip/raffle-backend/internal/models"
	"github.com/luckydip/raffle-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// EventService records and queries engine notifications
type EventService struct {
	eventRepo repositories.EventRepository
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repositories.EventRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
	}
}

// Record persists an engine notification. Implements engine.EventSink;
// recording is best-effort so a storage failure never fails the emitting
// operation.
func (s *EventService) Record(ctx context.Context, eventType models.EventType, roundNumber uint64, payload map[string]interface{}) {
	event := &models.Event{
		Type:        eventType,
		RoundNumber: roundNumber,
		Payload:     payload,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		slog.Error("Failed to record event", "error", err, "type", eventType, "round", roundNumber)
	}
}

// ListEvents returns events, optionally filtered by type
func (s *EventService) ListEvents(ctx context.Context, eventType models.EventType, page, limit int) ([]*models.Event, error) {
	if eventType == "" {
		return s.eventRepo.FindAll(ctx, page, limit)
	}
	return s.eventRepo.FindByType(ctx, eventType, page, limit)
}

// ListRoundEvents returns every event recorded during a round
func (s *EventService) ListRoundEvents(ctx context.Context, roundNumber uint64) ([]*models.Event, error) {
	return s.eventRepo.FindByRoundNumber(ctx, roundNumber)
}
