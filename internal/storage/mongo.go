package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/types"
)

// MongoStorage writes final-stage products to a MongoDB collection,
// one document per product tagged with the run it came from.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	count      int
	logger     *slog.Logger
}

// NewMongoStorage creates a new MongoDB storage backend.
func NewMongoStorage(cfg *config.StorageConfig, logger *slog.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoStorage{
		client:     client,
		collection: client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
		logger:     logger.With("component", "mongo_storage"),
	}, nil
}

func (s *MongoStorage) Name() string { return "mongodb" }

func (s *MongoStorage) Store(a *Artifacts) error {
	if len(a.Final) == 0 {
		return nil
	}

	docs := make([]any, len(a.Final))
	for i, p := range a.Final {
		docs[i] = productDoc(a.RunID, p)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	s.count += len(docs)
	s.logger.Debug("products stored in mongodb", "count", len(docs), "total", s.count)
	return nil
}

func (s *MongoStorage) Close() error {
	s.logger.Info("mongodb storage closing", "total_products", s.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func productDoc(runID string, p types.CanonicalProduct) map[string]any {
	return map[string]any{
		"run_id":        runID,
		"stored_at":     time.Now(),
		"original_name": p.OriginalName,
		"name":          p.Name,
		"price":         p.Price,
		"volume_weight": p.VolumeWeight,
		"multipack":     p.Multipack,
		"slug":          p.Slug,
		"brand":         p.Brand,
		"image_url":     p.ImageURL,
	}
}
