package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/models"
)

func TestMemoryStoreNotifiesAfterSave(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(models.Order{ID: "ORD-1", CreatedAt: base})
	ctx := context.Background()

	var snapshots [][]models.Order
	unsubscribe, err := store.Subscribe(ctx, func(orders []models.Order, err error) {
		require.NoError(t, err)
		snapshots = append(snapshots, orders)
	})
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, models.Order{ID: "ORD-2", CreatedAt: base.Add(time.Second)}))

	require.Len(t, snapshots, 2)
	assert.Len(t, snapshots[0], 1)
	require.Len(t, snapshots[1], 2)
	assert.Equal(t, "ORD-2", snapshots[1][0].ID)

	unsubscribe()
	unsubscribe()
	require.NoError(t, store.Save(ctx, models.Order{ID: "ORD-3", CreatedAt: base}))
	assert.Len(t, snapshots, 2)
	assert.Equal(t, 2, store.Saves())
}

func TestMemoryStoreSaveReplacesWhole(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, models.Order{ID: "ORD-1", ClientName: "A", Production: &models.ProductionData{Notes: "x"}}))
	require.NoError(t, store.Save(ctx, models.Order{ID: "ORD-1", ClientName: "B"}))

	var got []models.Order
	_, err := store.Subscribe(ctx, func(orders []models.Order, _ error) { got = orders })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ClientName)
	assert.Nil(t, got[0].Production)
}

func TestMemoryStoreFailSave(t *testing.T) {
	store := NewMemoryStore()
	store.FailSave = errors.New("boom")

	err := store.Save(context.Background(), models.Order{ID: "ORD-1"})

	assert.True(t, IsStorageError(err))
	assert.Equal(t, 0, store.Saves())
}

func TestSortByCreatedDescBreaksTiesByID(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: "ORD-a", CreatedAt: at},
		{ID: "ORD-c", CreatedAt: at.Add(-time.Hour)},
		{ID: "ORD-b", CreatedAt: at},
	}

	SortByCreatedDesc(orders)

	assert.Equal(t, "ORD-b", orders[0].ID)
	assert.Equal(t, "ORD-a", orders[1].ID)
	assert.Equal(t, "ORD-c", orders[2].ID)
}

func TestMisconfiguredStore(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	store := NewMisconfiguredStore("redis", cause)

	unsubscribe, err := store.Subscribe(context.Background(), func([]models.Order, error) {
		t.Fatal("misconfigured store must not deliver snapshots")
	})
	assert.Nil(t, unsubscribe)
	var mis *MisconfiguredBackendError
	require.ErrorAs(t, err, &mis)
	assert.Equal(t, "redis", mis.Backend)
	assert.ErrorIs(t, err, cause)

	assert.ErrorAs(t, store.Save(context.Background(), models.Order{}), &mis)
	assert.Equal(t, mis, InitError(store))
	assert.False(t, HasLiveUpdates(store))
	assert.NoError(t, InitError(NewMemoryStore()))
}

func TestOnceUnsubscribe(t *testing.T) {
	calls := 0
	stop := OnceUnsubscribe(func() { calls++ })

	stop()
	stop()

	assert.Equal(t, 1, calls)
}

func TestStorageErrorMessage(t *testing.T) {
	err := NewStorageError("mongo", "watch", errors.New("not a replica set"))

	assert.Equal(t, "mongo store: watch: not a replica set", err.Error())
}

func TestMemoryStoreDeliversSnapshotsInOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var latest []models.Order
	var sizes []int
	_, err := store.Subscribe(ctx, func(orders []models.Order, err error) {
		require.NoError(t, err)
		latest = orders
		sizes = append(sizes, len(orders))
	})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, models.Order{
				ID:        fmt.Sprintf("ORD-%02d", i),
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			}))
		}(i)
	}
	wg.Wait()

	assert.Len(t, latest, n)
	for i := 1; i < len(sizes); i++ {
		assert.Equal(t, sizes[i-1]+1, sizes[i], "snapshot %d delivered out of order", i)
	}
}
