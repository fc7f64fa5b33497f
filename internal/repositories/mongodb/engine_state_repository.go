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

// EngineStateRepository implements the repositories.EngineStateRepository interface
type EngineStateRepository struct {
	collection *mongo.Collection
}

// NewEngineStateRepository creates a new EngineStateRepository
func NewEngineStateRepository(db *mongo.Database) repositories.EngineStateRepository {
	return &EngineStateRepository{
		collection: db.Collection("engine_state"),
	}
}

// Save upserts the snapshot at its fixed id.
func (r *EngineStateRepository) Save(ctx context.Context, snapshot *models.EngineSnapshot) error {
	snapshot.ID = models.EngineSnapshotID
	snapshot.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": models.EngineSnapshotID}, snapshot, opts)
	if err != nil {
		return fmt.Errorf("failed to save engine snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot; mongo.ErrNoDocuments means a fresh deployment.
func (r *EngineStateRepository) Load(ctx context.Context) (*models.EngineSnapshot, error) {
	var snapshot models.EngineSnapshot
	err := r.collection.FindOne(ctx, bson.M{"_id": models.EngineSnapshotID}).Decode(&snapshot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load engine snapshot: %w", err)
	}
	return &snapshot, nil
}
