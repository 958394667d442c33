package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventmaster/internal/models"
	"eventmaster/internal/repository"
)

const backendName = "postgres"

// ChangeChannel is the LISTEN/NOTIFY channel announcing order saves.
const ChangeChannel = "orders_changed"

// OrderStore keeps every order as a jsonb document next to the columns
// needed for ordering, and announces saves with pg_notify so every
// connected process gets a fresh snapshot.
type OrderStore struct {
	db     *gorm.DB
	dsn    string
	logger *slog.Logger
}

var _ repository.OrderStore = (*OrderStore)(nil)

func NewOrderStore(db *gorm.DB, dsn string, logger *slog.Logger) *OrderStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderStore{db: db, dsn: dsn, logger: logger}
}

func (s *OrderStore) Save(ctx context.Context, order models.Order) error {
	document, err := json.Marshal(order)
	if err != nil {
		return repository.NewStorageError(backendName, "encode", err)
	}

	record := models.OrderRecord{
		ID:        order.ID,
		CreatedAt: order.CreatedAt,
		Status:    string(order.Status),
		Document:  datatypes.JSON(document),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&record).Error
		if err != nil {
			return err
		}
		// Delivered to listeners when the transaction commits.
		return tx.Exec("SELECT pg_notify(?, ?)", ChangeChannel, order.ID).Error
	})
	if err != nil {
		return repository.NewStorageError(backendName, "save", err)
	}
	return nil
}

func (s *OrderStore) Subscribe(ctx context.Context, fn repository.SnapshotFunc) (repository.Unsubscribe, error) {
	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return nil, repository.NewStorageError(backendName, "listen", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ChangeChannel}.Sanitize()); err != nil {
		conn.Close(context.Background())
		return nil, repository.NewStorageError(backendName, "listen", err)
	}

	orders, err := s.list(ctx)
	if err != nil {
		conn.Close(context.Background())
		return nil, repository.NewStorageError(backendName, "read", err)
	}
	fn(orders, nil)

	listenCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer conn.Close(context.Background())

		for {
			if _, err := conn.WaitForNotification(listenCtx); err != nil {
				if listenCtx.Err() == nil {
					s.logger.Error("order notifications stopped", "backend", backendName, "error", err)
					fn(nil, repository.NewStorageError(backendName, "listen", err))
				}
				return
			}
			orders, err := s.list(listenCtx)
			if err != nil {
				if listenCtx.Err() != nil {
					return
				}
				s.logger.Error("failed to reload orders after change", "backend", backendName, "error", err)
				fn(nil, repository.NewStorageError(backendName, "read", err))
				continue
			}
			fn(orders, nil)
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
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *OrderStore) list(ctx context.Context) ([]models.Order, error) {
	var records []models.OrderRecord
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]models.Order, 0, len(records))
	for _, r := range records {
		var order models.Order
		if err := json.Unmarshal(r.Document, &order); err != nil {
			return nil, fmt.Errorf("failed to decode order %s: %w", r.ID, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
