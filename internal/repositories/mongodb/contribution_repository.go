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

// ContributionRepository implements the repositories.ContributionRepository interface
type ContributionRepository struct {
	collection *mongo.Collection
}

// NewContributionRepository creates a new ContributionRepository
func NewContributionRepository(db *mongo.Database) repositories.ContributionRepository {
	return &ContributionRepository{
		collection: db.Collection("jackpot_contributions"),
	}
}

// Create records a jackpot contribution.
func (r *ContributionRepository) Create(ctx context.Context, contribution *models.JackpotContribution) error {
	contribution.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, contribution)
	if err != nil {
		return fmt.Errorf("failed to create jackpot contribution record: %w", err)
	}
	return nil
}

// FindByRoundNumber returns the contributions made during a round.
func (r *ContributionRepository) FindByRoundNumber(ctx context.Context, roundNumber uint64) ([]*models.JackpotContribution, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"roundNumber": roundNumber}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding contributions for round %d: %w", roundNumber, err)
	}
	defer cursor.Close(ctx)

	var contributions []*models.JackpotContribution
	if err := cursor.All(ctx, &contributions); err != nil {
		return nil, fmt.Errorf("error decoding contributions for round %d: %w", roundNumber, err)
	}
	if contributions == nil {
		contributions = []*models.JackpotContribution{}
	}
	return contributions, nil
}

// SumSince totals the contributions made at or after a round number. Used to
// reconcile the pool balance against the contribution ledger.
func (r *ContributionRepository) SumSince(ctx context.Context, roundNumber uint64) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"roundNumber": bson.M{"$gte": roundNumber}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("error summing contributions since round %d: %w", roundNumber, err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("error decoding contribution sum: %w", err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}
