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

// RoundRepository implements the repositories.RoundRepository interface
type RoundRepository struct {
	collection *mongo.Collection
}

// NewRoundRepository creates a new RoundRepository
func NewRoundRepository(db *mongo.Database) repositories.RoundRepository {
	return &RoundRepository{
		collection: db.Collection("rounds"),
	}
}

// Create archives a completed round.
func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	round.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, round)
	if err != nil {
		return fmt.Errorf("failed to create round record: %w", err)
	}
	return nil
}

// FindByNumber finds a round by its round number.
func (r *RoundRepository) FindByNumber(ctx context.Context, number uint64) (*models.Round, error) {
	var round models.Round
	err := r.collection.FindOne(ctx, bson.M{"number": number}).Decode(&round)
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// FindAll returns rounds newest first, paginated.
func (r *RoundRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Round, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.M{"number": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding rounds: %w", err)
	}
	defer cursor.Close(ctx)

	var rounds []*models.Round
	if err := cursor.All(ctx, &rounds); err != nil {
		return nil, fmt.Errorf("error decoding rounds: %w", err)
	}
	if rounds == nil {
		rounds = []*models.Round{}
	}
	return rounds, nil
}

// Count returns the number of archived rounds.
func (r *RoundRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
