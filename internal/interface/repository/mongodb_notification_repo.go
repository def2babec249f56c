package repository

import (
	"context"
	"fmt"
	"time"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNotificationRepository implements the NotificationRepository interface
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// DefaultNotificationCollection holds delivery attempts when no collection is configured
const DefaultNotificationCollection = "notifications"

// NewMongoNotificationRepository creates a new MongoDB notification history repository
func NewMongoNotificationRepository(ctx context.Context, db *mongo.Database, collectionName string) (repository.NotificationRepository, error) {
	if collectionName == "" {
		collectionName = DefaultNotificationCollection
	}
	collection := db.Collection(collectionName)

	// Index on runId for listing one sweep's deliveries
	runIDIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "runId", Value: 1},
			{Key: "notificationId", Value: 1},
		},
	}

	// Index on createdAt for recent history
	createdAtIndex := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}

	// Index on partId for per-part history
	partIDIndex := mongo.IndexModel{
		Keys: bson.M{"partId": 1},
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		runIDIndex,
		createdAtIndex,
		partIDIndex,
	}); err != nil {
		return nil, fmt.Errorf("failed to create notification indexes: %w", err)
	}

	return &MongoNotificationRepository{
		collection: collection,
	}, nil
}

// Save stores a delivery attempt
func (r *MongoNotificationRepository) Save(ctx context.Context, record *entity.NotificationRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to save notification record: %w", err)
	}
	return nil
}

// FindByRunID returns the deliveries of one sweep in notification order
func (r *MongoNotificationRepository) FindByRunID(ctx context.Context, runID string) ([]*entity.NotificationRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"runId": runID}, options.Find().
		SetSort(bson.D{{Key: "notificationId", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*entity.NotificationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FindRecent returns the latest deliveries, newest first
func (r *MongoNotificationRepository) FindRecent(ctx context.Context, limit int) ([]*entity.NotificationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*entity.NotificationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
