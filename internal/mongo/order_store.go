package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventmaster/internal/models"
	"eventmaster/internal/repository"
)

const backendName = "mongo"

type orderDocument struct {
	ID           string `bson:"_id"`
	models.Order `bson:",inline"`
}

// OrderStore persists one document per order and pushes snapshots from a
// change stream. Change streams need a replica set or sharded cluster.
type OrderStore struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

var _ repository.OrderStore = (*OrderStore)(nil)

func NewOrderStore(db *mongo.Database, logger *slog.Logger) *OrderStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderStore{
		collection: db.Collection("orders"),
		logger:     logger,
	}
}

func (s *OrderStore) Save(ctx context.Context, o models.Order) error {
	doc := orderDocument{ID: o.ID, Order: o}
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": o.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return repository.NewStorageError(backendName, "save", fmt.Errorf("cannot replace order: %w", err))
	}
	return nil
}

func (s *OrderStore) Subscribe(ctx context.Context, fn repository.SnapshotFunc) (repository.Unsubscribe, error) {
	watchCtx, cancel := context.WithCancel(context.Background())

	// Open the stream before the first read so no change falls between them.
	stream, err := s.collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, repository.NewStorageError(backendName, "watch", fmt.Errorf("cannot open change stream: %w", err))
	}

	orders, err := s.list(ctx)
	if err != nil {
		cancel()
		_ = stream.Close(context.Background())
		return nil, repository.NewStorageError(backendName, "read", err)
	}
	fn(orders, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer stream.Close(context.Background())

		for stream.Next(watchCtx) {
			orders, err := s.list(watchCtx)
			if err != nil {
				if watchCtx.Err() != nil {
					return
				}
				s.logger.Error("failed to reload orders after change", "backend", backendName, "error", err)
				fn(nil, repository.NewStorageError(backendName, "read", err))
				continue
			}
			fn(orders, nil)
		}
		if err := stream.Err(); err != nil && watchCtx.Err() == nil {
			s.logger.Error("change stream stopped", "backend", backendName, "error", err)
			fn(nil, repository.NewStorageError(backendName, "watch", err))
		}
	}()

	return repository.OnceUnsubscribe(func() {
		cancel()
		<-done
	}), nil
}

func (s *OrderStore) LiveUpdates() bool {
	return true
}

func (s *OrderStore) Close() error {
	return s.collection.Database().Client().Disconnect(context.Background())
}

func (s *OrderStore) list(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode orders: %w", err)
	}

	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.Order)
	}
	return orders, nil
}
