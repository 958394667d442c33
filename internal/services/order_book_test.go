package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/models"
	"eventmaster/internal/repository"
)

func TestAcknowledgeOnNonLiveBook(t *testing.T) {
	book := NewOrderBook(false, nil)
	book.Update([]models.Order{{ID: "ORD-old"}}, nil)

	book.Acknowledge(models.Order{ID: "ORD-new"})
	book.Acknowledge(models.Order{ID: "ORD-old", ClientName: "Renamed"})

	orders := book.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-new", orders[0].ID)
	assert.Equal(t, "Renamed", orders[1].ClientName)
}

func TestAcknowledgeOnLiveBookAppliesUntilNextPush(t *testing.T) {
	book := NewOrderBook(true, nil)

	book.Acknowledge(models.Order{ID: "ORD-1"})
	_, ok := book.Find("ORD-1")
	assert.True(t, ok)

	book.Update([]models.Order{{ID: "ORD-2"}}, nil)
	_, ok = book.Find("ORD-1")
	assert.False(t, ok)
	assert.Len(t, book.Orders(), 1)
}

func TestAttachTakesLiveFlagFromStore(t *testing.T) {
	book, err := Attach(context.Background(), repository.NewMemoryStore(), nil)
	require.NoError(t, err)
	defer book.Close()

	assert.True(t, book.Live())
}

func TestAttachToMisconfiguredStore(t *testing.T) {
	store := repository.NewMisconfiguredStore("mongo", errors.New("no replica set"))

	book, err := Attach(context.Background(), store, nil)

	var mis *repository.MisconfiguredBackendError
	require.ErrorAs(t, err, &mis)
	require.NotNil(t, book)
	assert.Empty(t, book.Orders())
	book.Close()
}

func TestUpdateErrorKeepsLastSnapshot(t *testing.T) {
	book := NewOrderBook(true, nil)
	book.Update([]models.Order{{ID: "ORD-1"}}, nil)

	pushErr := repository.NewStorageError("redis", "read", errors.New("EOF"))
	book.Update(nil, pushErr)

	assert.Equal(t, pushErr, book.Err())
	assert.Len(t, book.Orders(), 1)

	book.Update([]models.Order{{ID: "ORD-1"}, {ID: "ORD-2"}}, nil)
	assert.NoError(t, book.Err())
	assert.Len(t, book.Orders(), 2)
}

func TestListenReceivesSnapshots(t *testing.T) {
	store := repository.NewMemoryStore()
	book, err := Attach(context.Background(), store, nil)
	require.NoError(t, err)
	defer book.Close()

	var got [][]models.Order
	stop := book.Listen(func(orders []models.Order) {
		got = append(got, orders)
	})

	require.NoError(t, store.Save(context.Background(), models.Order{ID: "ORD-1"}))
	stop()
	stop()
	require.NoError(t, store.Save(context.Background(), models.Order{ID: "ORD-2"}))

	require.Len(t, got, 1)
	assert.Equal(t, "ORD-1", got[0][0].ID)
}

func TestFindReturnsCopy(t *testing.T) {
	book := NewOrderBook(false, nil)
	book.Update([]models.Order{{
		ID:         "ORD-1",
		Production: &models.ProductionData{Items: []models.ProductionItem{{ID: "i", Quantity: 1}}},
	}}, nil)

	found, ok := book.Find("ORD-1")
	require.True(t, ok)
	found.Production.Items[0].Quantity = 50

	again, _ := book.Find("ORD-1")
	assert.Equal(t, 1, again.Production.Items[0].Quantity)
}

func TestCloseStopsUpdates(t *testing.T) {
	store := repository.NewMemoryStore()
	book, err := Attach(context.Background(), store, nil)
	require.NoError(t, err)

	book.Close()
	book.Close()
	require.NoError(t, store.Save(context.Background(), models.Order{ID: "ORD-1"}))

	assert.Empty(t, book.Orders())
}
