package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/spec-kit/dine-service/internal/config"
)

// Mongo wraps a connected client and the service database.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongo connects with the Stable API v1 and pings the admin database.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	opts := options.Client().
		ApplyURI(cfg.ConnectionURI()).
		SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	m := &Mongo{Client: client, Database: client.Database(cfg.Database)}
	if err := m.ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("connected to mongo", zap.String("database", cfg.Database))
	return m, nil
}

func (m *Mongo) ping(ctx context.Context) error {
	if err := m.Client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// Ping verifies connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return errors.New("mongo client not configured")
	}
	return m.ping(ctx)
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.Client != nil {
		_ = m.Client.Disconnect(ctx)
	}
}
