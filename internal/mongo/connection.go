package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, url, dbName string, timeout time.Duration, logger *slog.Logger) (*mongo.Database, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if url == "" {
		url = "mongodb://localhost:27017"
	}
	if dbName == "" {
		dbName = "eventmaster"
	}

	clientOptions := options.Client().ApplyURI(url).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB", "database", dbName)
	return client.Database(dbName), nil
}
