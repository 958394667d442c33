package repository

import (
	"context"
	"fmt"

	"eventmaster/internal/models"
)

// MisconfiguredBackendError means the configured backend never came up.
// Nothing is written anywhere while it is in effect.
type MisconfiguredBackendError struct {
	Backend string
	Err     error
}

func (e *MisconfiguredBackendError) Error() string {
	return fmt.Sprintf("%s backend is misconfigured: %v", e.Backend, e.Err)
}

func (e *MisconfiguredBackendError) Unwrap() error {
	return e.Err
}

// MisconfiguredStore stands in for a remote backend that failed to
// initialize. It never falls back to another backend.
type MisconfiguredStore struct {
	err *MisconfiguredBackendError
}

func NewMisconfiguredStore(backend string, cause error) *MisconfiguredStore {
	return &MisconfiguredStore{err: &MisconfiguredBackendError{Backend: backend, Err: cause}}
}

func (s *MisconfiguredStore) Subscribe(ctx context.Context, fn SnapshotFunc) (Unsubscribe, error) {
	return nil, s.err
}

func (s *MisconfiguredStore) Save(ctx context.Context, order models.Order) error {
	return s.err
}

func (s *MisconfiguredStore) LiveUpdates() bool {
	return false
}

// InitError returns the initialization failure carried by the store.
func (s *MisconfiguredStore) InitError() error {
	return s.err
}

// InitError reports the initialization failure of store, if any.
func InitError(store OrderStore) error {
	if m, ok := store.(interface{ InitError() error }); ok {
		return m.InitError()
	}
	return nil
}
