// Package local implements the single-device order store: one JSON array
// kept under a fixed key of a sqlite key-value table.
//
// Subscribers receive exactly one snapshot, read at registration time. Saves
// made afterwards, by this process or any other, are not pushed; callers
// reconcile their own writes and re-read on the next full reload.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"

	"eventmaster/internal/models"
	"eventmaster/internal/repository"
)

const (
	backendName = "local"
	// SlotKey is the key-value slot holding the serialized order list.
	SlotKey = "eventmaster_orders"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

type Store struct {
	db     *sql.DB
	logger *slog.Logger
	// mu serializes this process's read-modify-write cycles on the slot.
	// Other processes writing the same file still race, whole blob wins.
	mu sync.Mutex
}

var _ repository.OrderStore = (*Store)(nil)

func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to local store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create local store schema: %w", err)
	}

	logger.Info("local order store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Subscribe(ctx context.Context, fn repository.SnapshotFunc) (repository.Unsubscribe, error) {
	orders, err := s.load(ctx)
	if err != nil {
		return nil, repository.NewStorageError(backendName, "read", err)
	}
	fn(orders, nil)
	return repository.OnceUnsubscribe(func() {}), nil
}

func (s *Store) Save(ctx context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.load(ctx)
	if err != nil {
		return repository.NewStorageError(backendName, "read", err)
	}

	replaced := false
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = order.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		orders = append([]models.Order{order.Clone()}, orders...)
	}

	blob, err := json.Marshal(orders)
	if err != nil {
		return repository.NewStorageError(backendName, "encode", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		SlotKey, string(blob))
	if err != nil {
		return repository.NewStorageError(backendName, "write", err)
	}
	return nil
}

func (s *Store) LiveUpdates() bool {
	return false
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) load(ctx context.Context) ([]models.Order, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, SlotKey).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, err
	}

	orders := []models.Order{}
	if err := json.Unmarshal([]byte(blob), &orders); err != nil {
		return nil, fmt.Errorf("corrupt order blob: %w", err)
	}
	return orders, nil
}
