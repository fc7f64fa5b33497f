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

// ModuleRecordRepository implements the repositories.ModuleRecordRepository interface
type ModuleRecordRepository struct {
	collection *mongo.Collection
}

// NewModuleRecordRepository creates a new ModuleRecordRepository
func NewModuleRecordRepository(db *mongo.Database) repositories.ModuleRecordRepository {
	return &ModuleRecordRepository{
		collection: db.Collection("module_record"),
	}
}

// Save upserts the indirection record at its fixed id.
func (r *ModuleRecordRepository) Save(ctx context.Context, record *models.ModuleRecord) error {
	record.ID = models.ModuleRecordID
	record.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": models.ModuleRecordID}, record, opts)
	if err != nil {
		return fmt.Errorf("failed to save module record: %w", err)
	}
	return nil
}

// Load reads the indirection record; mongo.ErrNoDocuments means a fresh
// deployment.
func (r *ModuleRecordRepository) Load(ctx context.Context) (*models.ModuleRecord, error) {
	var record models.ModuleRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": models.ModuleRecordID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load module record: %w", err)
	}
	return &record, nil
}
