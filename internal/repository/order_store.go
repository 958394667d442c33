package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"eventmaster/internal/models"
)

// SnapshotFunc receives the full ordered collection every time it changes.
// Push failures arrive as a nil snapshot with a *StorageError.
type SnapshotFunc func(orders []models.Order, err error)

// Unsubscribe deregisters a listener. Calling it more than once, or after
// the backend has been closed, is a no-op.
type Unsubscribe func()

// OrderStore is the only persistence contract the lifecycle engine knows.
type OrderStore interface {
	// Subscribe delivers the current snapshot to fn before returning and,
	// when the backend supports it, one snapshot per subsequent change.
	Subscribe(ctx context.Context, fn SnapshotFunc) (Unsubscribe, error)
	// Save upserts order by id. An existing record is replaced whole.
	Save(ctx context.Context, order models.Order) error
}

// LiveUpdater is implemented by stores that can report whether they push
// change notifications after the initial snapshot.
type LiveUpdater interface {
	LiveUpdates() bool
}

// HasLiveUpdates reports whether store pushes snapshots after a Save.
func HasLiveUpdates(store OrderStore) bool {
	if lu, ok := store.(LiveUpdater); ok {
		return lu.LiveUpdates()
	}
	return false
}

type StorageError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s store: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}

// IsStorageError reports whether err carries a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// OnceUnsubscribe wraps stop so that repeated calls run it only once.
func OnceUnsubscribe(stop func()) Unsubscribe {
	var once sync.Once
	return func() {
		once.Do(stop)
	}
}
