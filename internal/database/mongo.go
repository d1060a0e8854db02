package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomiwa-code/recipe-share-api/config"
)

// Collection names.
const (
	UsersCollection   = "users"
	RecipesCollection = "recipes"
)

// Mongo wraps the client and the application database handle.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens a client, verifies connectivity and ensures indexes.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(25).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	m := &Mongo{Client: client, DB: client.Database(cfg.MongoDB)}
	if err := m.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensuring indexes: %w", err)
	}

	logger.Info("connected to mongo", "database", cfg.MongoDB)
	return m, nil
}

// Disconnect closes the underlying client.
func (m *Mongo) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck checks if the database is accessible
func (m *Mongo) HealthCheck(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

// ensureIndexes creates the unique, text-search and secondary indexes the
// application relies on. Unique indexes are the final backstop for the
// handle/email allocation race.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	users := m.DB.Collection(UsersCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	recipes := m.DB.Collection(RecipesCollection)
	_, err = recipes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "cuisine", Value: "text"},
			},
			Options: options.Index().SetWeights(bson.D{
				{Key: "name", Value: 3},
				{Key: "description", Value: 2},
				{Key: "cuisine", Value: 1},
			}),
		},
		{
			Keys: bson.D{
				{Key: "difficulty", Value: 1},
				{Key: "prepTime", Value: 1},
				{Key: "rating", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "creator", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("recipes indexes: %w", err)
	}

	return nil
}
