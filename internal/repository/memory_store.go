package repository

import (
	"context"
	"sort"
	"sync"

	"eventmaster/internal/models"
)

const memoryBackend = "memory"

// MemoryStore keeps orders in process and notifies subscribers after every
// save. Snapshots are ordered by descending creation time. Listeners run
// while the store is delivering and must not call Save.
type MemoryStore struct {
	// deliver is held from taking a snapshot until every listener has it,
	// so listeners see snapshots in the order they were taken.
	deliver   sync.Mutex
	mu        sync.RWMutex
	orders    map[string]models.Order
	listeners map[int]SnapshotFunc
	nextID    int
	// FailSave, when set, is returned by Save instead of persisting.
	FailSave error
	saves    int
}

var _ OrderStore = (*MemoryStore)(nil)

func NewMemoryStore(seed ...models.Order) *MemoryStore {
	s := &MemoryStore{
		orders:    make(map[string]models.Order),
		listeners: make(map[int]SnapshotFunc),
	}
	for _, o := range seed {
		s.orders[o.ID] = o.Clone()
	}
	return s
}

func (s *MemoryStore) Subscribe(ctx context.Context, fn SnapshotFunc) (Unsubscribe, error) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	fn(snapshot, nil)

	return OnceUnsubscribe(func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}), nil
}

func (s *MemoryStore) Save(ctx context.Context, order models.Order) error {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	if s.FailSave != nil {
		err := s.FailSave
		s.mu.Unlock()
		return NewStorageError(memoryBackend, "save", err)
	}
	s.saves++
	s.orders[order.ID] = order.Clone()
	snapshot := s.snapshotLocked()
	listeners := make([]SnapshotFunc, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(models.CloneOrders(snapshot), nil)
	}
	return nil
}

func (s *MemoryStore) LiveUpdates() bool {
	return true
}

// Saves returns how many successful saves the store has accepted.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func (s *MemoryStore) snapshotLocked() []models.Order {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.Clone())
	}
	SortByCreatedDesc(out)
	return out
}

// SortByCreatedDesc orders newest first, breaking ties by id.
func SortByCreatedDesc(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
