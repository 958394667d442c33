// Package storetest holds the behaviour every OrderStore backend must share.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/models"
	"eventmaster/internal/repository"
)

// Recorder collects the snapshots delivered to a subscription.
type Recorder struct {
	mu        sync.Mutex
	snapshots [][]models.Order
	errs      []error
}

func (r *Recorder) Record(orders []models.Order, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.errs = append(r.errs, err)
		return
	}
	r.snapshots = append(r.snapshots, orders)
}

func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

// Latest returns the most recent snapshot, or nil before the first one.
func (r *Recorder) Latest() []models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}

func find(orders []models.Order, id string) (models.Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// NewOrder builds a pending order with a fresh id so runs against shared
// databases do not collide.
func NewOrder(created time.Time) models.Order {
	return models.Order{
		ID:            "ORD-test-" + uuid.NewString(),
		ClientName:    "Contrato",
		ServiceType:   models.ServiceCatering,
		Headcount:     12,
		EventDate:     "2026-09-01",
		EventLocation: "Cocina central",
		Status:        models.OrderPending,
		Production:    &models.ProductionData{Items: []models.ProductionItem{}},
		CreatedAt:     created.UTC().Truncate(time.Millisecond),
	}
}

func snapshot(t *testing.T, store repository.OrderStore) []models.Order {
	t.Helper()
	rec := &Recorder{}
	unsubscribe, err := store.Subscribe(context.Background(), rec.Record)
	require.NoError(t, err)
	unsubscribe()
	require.Equal(t, 1, rec.Count(), "initial snapshot must arrive before Subscribe returns")
	return rec.Latest()
}

// Run exercises the store contract against store.
func Run(t *testing.T, store repository.OrderStore) {
	ctx := context.Background()

	t.Run("save then subscribe", func(t *testing.T) {
		order := NewOrder(time.Now())
		require.NoError(t, store.Save(ctx, order))

		got, ok := find(snapshot(t, store), order.ID)
		require.True(t, ok)
		assert.Equal(t, order, got)
	})

	t.Run("save replaces whole record", func(t *testing.T) {
		order := NewOrder(time.Now())
		order.Production.Notes = "sin sal"
		require.NoError(t, store.Save(ctx, order))

		start := order.CreatedAt.Add(time.Minute)
		order.Status = models.OrderInProduction
		order.Production = &models.ProductionData{
			Items:     []models.ProductionItem{{ID: uuid.NewString(), Name: "Pan", Quantity: 12}},
			StartDate: &start,
		}
		require.NoError(t, store.Save(ctx, order))

		got, ok := find(snapshot(t, store), order.ID)
		require.True(t, ok)
		assert.Equal(t, models.OrderInProduction, got.Status)
		assert.Empty(t, got.Production.Notes)
		assert.Equal(t, order.Production.Items, got.Production.Items)
	})

	t.Run("newest first", func(t *testing.T) {
		older := NewOrder(time.Now().Add(-time.Hour))
		newer := NewOrder(time.Now())
		require.NoError(t, store.Save(ctx, older))
		require.NoError(t, store.Save(ctx, newer))

		orders := snapshot(t, store)
		olderAt, newerAt := -1, -1
		for i, o := range orders {
			switch o.ID {
			case older.ID:
				olderAt = i
			case newer.ID:
				newerAt = i
			}
		}
		require.NotEqual(t, -1, olderAt)
		require.NotEqual(t, -1, newerAt)
		assert.Less(t, newerAt, olderAt)
	})

	t.Run("unsubscribe is idempotent", func(t *testing.T) {
		rec := &Recorder{}
		unsubscribe, err := store.Subscribe(ctx, rec.Record)
		require.NoError(t, err)
		unsubscribe()
		unsubscribe()
	})

	if !repository.HasLiveUpdates(store) {
		return
	}

	t.Run("pushes snapshot after save", func(t *testing.T) {
		rec := &Recorder{}
		unsubscribe, err := store.Subscribe(ctx, rec.Record)
		require.NoError(t, err)
		defer unsubscribe()

		order := NewOrder(time.Now())
		require.NoError(t, store.Save(ctx, order))

		require.Eventually(t, func() bool {
			_, ok := find(rec.Latest(), order.ID)
			return ok
		}, 5*time.Second, 20*time.Millisecond)
	})
}
