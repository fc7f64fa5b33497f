package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/luckydip/raffle-backend/internal/models"
	"github.com/luckydip/raffle-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository implements the repositories.EventRepository interface
type EventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *mongo.Database) repositories.EventRepository {
	return &EventRepository{
		collection: db.Collection("events"),
	}
}

// Create records an engine event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to create event record: %w", err)
	}
	return nil
}

// FindByType returns events of a given type, newest first, paginated.
func (r *EventRepository) FindByType(ctx context.Context, eventType models.EventType, page, limit int) ([]*models.Event, error) {
	return r.find(ctx, bson.M{"type": eventType}, page, limit)
}

// FindByRoundNumber returns every event recorded during a round.
func (r *EventRepository) FindByRoundNumber(ctx context.Context, roundNumber uint64) ([]*models.Event, error) {
	return r.find(ctx, bson.M{"roundNumber": roundNumber}, 1, 1000)
}

// FindAll returns events newest first, paginated.
func (r *EventRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Event, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

func (r *EventRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.Event, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding events: %w", err)
	}
	if events == nil {
		events = []*models.Event{}
	}
	return events, nil
}
