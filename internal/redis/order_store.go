package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"eventmaster/internal/models"
	"eventmaster/internal/repository"
)

const backendName = "redis"

const (
	ordersKey      = "eventmaster:orders"
	byCreatedKey   = "eventmaster:orders:by_created"
	changedChannel = "eventmaster:orders:changed"
)

// OrderStore keeps each order as JSON in a hash, its creation order in a
// sorted set, and announces every save on a pub/sub channel shared by all
// clients of the same Redis.
type OrderStore struct {
	client *Client
	logger *slog.Logger
}

var _ repository.OrderStore = (*OrderStore)(nil)

func NewOrderStore(client *Client, logger *slog.Logger) *OrderStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderStore{client: client, logger: logger}
}

func (s *OrderStore) Save(ctx context.Context, order models.Order) error {
	jsonData, err := json.Marshal(order)
	if err != nil {
		return repository.NewStorageError(backendName, "encode", err)
	}

	_, err = s.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, ordersKey, order.ID, jsonData)
		pipe.ZAdd(ctx, byCreatedKey, &redis.Z{
			Score:  float64(order.CreatedAt.UnixMilli()),
			Member: order.ID,
		})
		pipe.Publish(ctx, changedChannel, order.ID)
		return nil
	})
	if err != nil {
		return repository.NewStorageError(backendName, "save", err)
	}
	return nil
}

func (s *OrderStore) Subscribe(ctx context.Context, fn repository.SnapshotFunc) (repository.Unsubscribe, error) {
	subCtx, cancel := context.WithCancel(context.Background())

	pubsub := s.client.rdb.Subscribe(subCtx, changedChannel)
	// Wait for the subscription to be confirmed so no change published
	// after the initial read is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		pubsub.Close()
		return nil, repository.NewStorageError(backendName, "subscribe", err)
	}

	orders, err := s.load(ctx)
	if err != nil {
		cancel()
		pubsub.Close()
		return nil, repository.NewStorageError(backendName, "read", err)
	}
	fn(orders, nil)

	changes := pubsub.Channel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				orders, err := s.load(subCtx)
				if err != nil {
					if subCtx.Err() != nil {
						return
					}
					s.logger.Error("failed to reload orders after change", "backend", backendName, "error", err)
					fn(nil, repository.NewStorageError(backendName, "read", err))
					continue
				}
				fn(orders, nil)
			}
		}
	}()

	return repository.OnceUnsubscribe(func() {
		cancel()
		pubsub.Close()
		<-done
	}), nil
}

func (s *OrderStore) LiveUpdates() bool {
	return true
}

func (s *OrderStore) Close() error {
	return s.client.Close()
}

func (s *OrderStore) load(ctx context.Context) ([]models.Order, error) {
	ids, err := s.client.rdb.ZRevRange(ctx, byCreatedKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list order ids: %w", err)
	}
	orders := make([]models.Order, 0, len(ids))
	if len(ids) == 0 {
		return orders, nil
	}

	values, err := s.client.rdb.HMGet(ctx, ordersKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	for i, val := range values {
		raw, ok := val.(string)
		if !ok {
			// Indexed but not stored yet, or removed out of band.
			continue
		}
		var order models.Order
		if err := json.Unmarshal([]byte(raw), &order); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order %s: %w", ids[i], err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
