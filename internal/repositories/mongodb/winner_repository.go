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

// WinnerRepository implements the repositories.WinnerRepository interface
type WinnerRepository struct {
	collection *mongo.Collection
}

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository(db *mongo.Database) repositories.WinnerRepository {
	return &WinnerRepository{
		collection: db.Collection("winners"),
	}
}

// Create records a round winner.
func (r *WinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	winner.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, winner)
	if err != nil {
		return fmt.Errorf("failed to create winner record: %w", err)
	}
	return nil
}

// FindByRoundNumber finds the winner of a specific round.
func (r *WinnerRepository) FindByRoundNumber(ctx context.Context, roundNumber uint64) (*models.Winner, error) {
	var winner models.Winner
	err := r.collection.FindOne(ctx, bson.M{"roundNumber": roundNumber}).Decode(&winner)
	if err != nil {
		return nil, err
	}
	return &winner, nil
}

// FindByAddress finds every win recorded for an address.
func (r *WinnerRepository) FindByAddress(ctx context.Context, address string) ([]*models.Winner, error) {
	opts := options.Find().SetSort(bson.M{"roundNumber": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"address": address}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding winners for address: %w", err)
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, fmt.Errorf("error decoding winners: %w", err)
	}
	if winners == nil {
		winners = []*models.Winner{}
	}
	return winners, nil
}

// FindAll returns winners newest first, paginated.
func (r *WinnerRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Winner, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.M{"roundNumber": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding winners: %w", err)
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, fmt.Errorf("error decoding winners: %w", err)
	}
	if winners == nil {
		winners = []*models.Winner{}
	}
	return winners, nil
}
