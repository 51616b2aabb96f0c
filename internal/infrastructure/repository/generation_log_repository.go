package repository

import (
	"context"
	"fmt"
	"time"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/infrastructure/repository/entity"
	"copyforge-core-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGenerationLogRepository implements GenerationLogRepository using MongoDB.
type MongoGenerationLogRepository struct {
	collection *mongo.Collection
}

// NewMongoGenerationLogRepository creates a new MongoDB generation log repository.
func NewMongoGenerationLogRepository(db *mongo.Database) ports.GenerationLogRepository {
	return &MongoGenerationLogRepository{
		collection: db.Collection("generation_logs"),
	}
}

// Create inserts a new log entry.
func (r *MongoGenerationLogRepository) Create(ctx context.Context, log *domain.GenerationLog) error {
	doc := entity.MongoGenerationLogDocFromDomain(log)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	// Index on shop + created_at for the per-shop listing.
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "shop", Value: 1}, {Key: "created_at", Value: -1}},
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, indexModel)

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create generation log: %w", err)
	}
	return nil
}

// ListByShop returns the most recent entries for a shop, newest first.
func (r *MongoGenerationLogRepository) ListByShop(ctx context.Context, shop string, limit int64) ([]*domain.GenerationLog, error) {
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"shop": shop}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []*domain.GenerationLog
	for cursor.Next(ctx) {
		var doc entity.MongoGenerationLogDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode generation log: %w", err)
		}
		logs = append(logs, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generation logs: %w", err)
	}

	return logs, nil
}

// DeleteByShop removes every entry for a shop.
func (r *MongoGenerationLogRepository) DeleteByShop(ctx context.Context, shop string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"shop": shop}); err != nil {
		return fmt.Errorf("failed to delete generation logs: %w", err)
	}
	return nil
}
