package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/models"
	"eventmaster/internal/repository"
	"eventmaster/internal/testutil"
)

var testStart = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type harness struct {
	store   *repository.MemoryStore
	book    *OrderBook
	service OrderService
	clock   *testutil.StepClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := repository.NewMemoryStore()
	book, err := Attach(context.Background(), store, nil)
	require.NoError(t, err)
	t.Cleanup(book.Close)

	clock := testutil.NewStepClock(testStart, time.Minute)
	return &harness{
		store:   store,
		book:    book,
		service: NewOrderService(store, book, clock, nil),
		clock:   clock,
	}
}

func validDraft() models.OrderDraft {
	return models.OrderDraft{
		ClientName:    "Familia Rojas",
		ServiceType:   models.ServiceWedding,
		Headcount:     50,
		EventDate:     "2026-06-20",
		EventLocation: "Hacienda Los Olivos",
	}
}

func TestCreateOrder(t *testing.T) {
	h := newHarness(t)

	order, err := h.service.CreateOrder(context.Background(), validDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, testStart, order.CreatedAt)
	require.NotNil(t, order.Production)
	assert.Empty(t, order.Production.Items)
	assert.NotNil(t, order.Production.Items)
	assert.Nil(t, order.Production.StartDate)
	assert.Nil(t, order.Delivery)

	stored, ok := h.book.Find(order.ID)
	require.True(t, ok)
	assert.Equal(t, order, stored)
}

func TestCreateOrderRejectsInvalidDraft(t *testing.T) {
	h := newHarness(t)

	draft := models.OrderDraft{ServiceType: "Picnic", Headcount: 0, ClientName: "  "}
	_, err := h.service.CreateOrder(context.Background(), draft)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"clientName", "serviceType", "headcount", "eventDate", "eventLocation"}, fields)
	assert.Equal(t, 0, h.store.Saves())
}

func TestCreateOrderIDsAreUnique(t *testing.T) {
	store := repository.NewMemoryStore()
	book, err := Attach(context.Background(), store, nil)
	require.NoError(t, err)
	defer book.Close()
	// A frozen clock forces every id into the same millisecond.
	frozen := testutil.NewStepClock(testStart, 0)
	service := NewOrderService(store, book, frozen, nil)

	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := service.CreateOrder(context.Background(), validDraft())
			if assert.NoError(t, err) {
				ids <- order.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Len(t, book.Orders(), n)
}

func TestRecordProductionScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, err := h.service.CreateOrder(ctx, validDraft())
	require.NoError(t, err)

	produced, err := h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{
		{Name: "Empanadas", Quantity: 60},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderInProduction, produced.Status)
	require.NotNil(t, produced.Production.StartDate)
	require.Len(t, produced.Production.Items, 1)
	assert.Equal(t, 60, produced.Production.Items[0].Quantity)
	assert.NotEmpty(t, produced.Production.Items[0].ID)
	assert.False(t, produced.Production.Items[0].QCApproved)
	assert.Equal(t, order.CreatedAt, produced.CreatedAt)
}

func TestRecordProductionKeepsFirstStartDate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, err := h.service.CreateOrder(ctx, validDraft())
	require.NoError(t, err)

	first, err := h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{{Name: "Tequeños", Quantity: 100}})
	require.NoError(t, err)
	second, err := h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{{Name: "Tequeños", Quantity: 120}})
	require.NoError(t, err)

	require.NotNil(t, second.Production.StartDate)
	assert.Equal(t, *first.Production.StartDate, *second.Production.StartDate)
	assert.Equal(t, 120, second.Production.Items[0].Quantity)
}

func TestRecordProductionAlwaysSetsInProduction(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, err := h.service.CreateOrder(ctx, validDraft())
	require.NoError(t, err)
	_, err = h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{{Name: "Pan", Quantity: 10}})
	require.NoError(t, err)
	_, err = h.service.ConfirmDelivery(ctx, order.ID, DeliveryConfirmation{})
	require.NoError(t, err)

	again, err := h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{{Name: "Pan", Quantity: 12}})
	require.NoError(t, err)
	assert.Equal(t, models.OrderInProduction, again.Status)
}

func TestRecordProductionUnknownOrder(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.RecordProduction(context.Background(), "ORD-missing", nil)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, h.store.Saves())
}

func TestRecordQualityControlScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, err := h.service.CreateOrder(ctx, validDraft())
	require.NoError(t, err)
	produced, err := h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{{Name: "Empanadas", Quantity: 60}})
	require.NoError(t, err)

	items := models.CloneItems(produced.Production.Items)
	items[0].QCApproved = true
	items[0].QCNotes = "Dorado parejo"

	checked, err := h.service.RecordQualityControl(ctx, order.ID, items)
	require.NoError(t, err)

	assert.Equal(t, models.OrderInProduction, checked.Status)
	require.NotNil(t, checked.Production.LastQCDate)
	assert.True(t, checked.Production.Items[0].QCApproved)
	assert.Equal(t, "Dorado parejo", checked.Production.Items[0].QCNotes)
	assert.Equal(t, produced.Production.Items[0].ID, checked.Production.Items[0].ID)
	assert.Equal(t, *produced.Production.StartDate, *checked.Production.StartDate)
}

func TestRecordQualityControlRequiresProduction(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, err := h.service.CreateOrder(ctx, validDraft())
	require.NoError(t, err)
	saves := h.store.Saves()

	_, err = h.service.RecordQualityControl(ctx, order.ID, []models.ProductionItem{{Name: "x", Quantity: 1}})

	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Equal(t, saves, h.store.Saves())
}

func TestRecordQualityControlNeverChangesStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, err := h.service.CreateOrder(ctx, validDraft())
	require.NoError(t, err)
	_, err = h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{{Name: "Pan", Quantity: 10}})
	require.NoError(t, err)
	delivered, err := h.service.ConfirmDelivery(ctx, order.ID, DeliveryConfirmation{})
	require.NoError(t, err)

	checked, err := h.service.RecordQualityControl(ctx, order.ID, delivered.Production.Items)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, checked.Status)
}

func TestConfirmDeliveryScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, err := h.service.CreateOrder(ctx, validDraft())
	require.NoError(t, err)
	produced, err := h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{{Name: "Empanadas", Quantity: 60}})
	require.NoError(t, err)
	items := models.CloneItems(produced.Production.Items)
	items[0].QCApproved = true
	checked, err := h.service.RecordQualityControl(ctx, order.ID, items)
	require.NoError(t, err)

	delivered, err := h.service.ConfirmDelivery(ctx, order.ID, DeliveryConfirmation{ProofURL: "https://x/y"})
	require.NoError(t, err)

	assert.Equal(t, models.OrderDelivered, delivered.Status)
	require.NotNil(t, delivered.Delivery)
	assert.Equal(t, "https://x/y", delivered.Delivery.ProofURL)
	assert.False(t, delivered.Delivery.DeliveryDate.IsZero())
	require.Len(t, delivered.Delivery.ItemsSnapshot, 1)
	assert.Equal(t, checked.Production.Items[0], delivered.Delivery.ItemsSnapshot[0])
}

func TestConfirmDeliverySnapshotIsIsolated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, err := h.service.CreateOrder(ctx, validDraft())
	require.NoError(t, err)
	_, err = h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{{Name: "Empanadas", Quantity: 60}})
	require.NoError(t, err)
	delivered, err := h.service.ConfirmDelivery(ctx, order.ID, DeliveryConfirmation{})
	require.NoError(t, err)

	_, err = h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{
		{Name: "Alfajores", Quantity: 5},
		{Name: "Empanadas", Quantity: 10},
	})
	require.NoError(t, err)

	latest, ok := h.book.Find(order.ID)
	require.True(t, ok)
	require.NotNil(t, latest.Delivery)
	assert.Equal(t, delivered.Delivery.ItemsSnapshot, latest.Delivery.ItemsSnapshot)
	assert.Len(t, latest.Production.Items, 2)
}

func TestConfirmDeliveryUnknownOrder(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.ConfirmDelivery(context.Background(), "ORD-missing", DeliveryConfirmation{})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorageErrorIsSurfaced(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	order, err := h.service.CreateOrder(ctx, validDraft())
	require.NoError(t, err)

	h.store.FailSave = errors.New("disk full")
	_, err = h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{{Name: "Pan", Quantity: 1}})

	var se *repository.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "save", se.Op)

	unchanged, ok := h.book.Find(order.ID)
	require.True(t, ok)
	assert.Equal(t, models.OrderPending, unchanged.Status)
}

func TestMisconfiguredBackendBlocksEveryMutation(t *testing.T) {
	store := repository.NewMisconfiguredStore("redis", errors.New("connection refused"))
	book := NewOrderBook(false, nil)
	book.Acknowledge(models.Order{ID: "ORD-1", Status: models.OrderPending, Production: &models.ProductionData{}})
	service := NewOrderService(store, book, testutil.NewStepClock(testStart, time.Second), nil)
	ctx := context.Background()

	var mis *repository.MisconfiguredBackendError

	_, err := service.CreateOrder(ctx, validDraft())
	assert.ErrorAs(t, err, &mis)
	_, err = service.RecordProduction(ctx, "ORD-1", nil)
	assert.ErrorAs(t, err, &mis)
	_, err = service.RecordQualityControl(ctx, "ORD-1", nil)
	assert.ErrorAs(t, err, &mis)
	_, err = service.ConfirmDelivery(ctx, "ORD-missing", DeliveryConfirmation{})
	assert.ErrorAs(t, err, &mis)
}

func TestSaveThenSubscribeRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, err := h.service.CreateOrder(ctx, validDraft())
	require.NoError(t, err)
	produced, err := h.service.RecordProduction(ctx, order.ID, []models.ProductionItem{{Name: "Empanadas", Quantity: 60}})
	require.NoError(t, err)

	var got []models.Order
	unsubscribe, err := h.store.Subscribe(ctx, func(orders []models.Order, err error) {
		require.NoError(t, err)
		got = orders
	})
	require.NoError(t, err)
	defer unsubscribe()

	require.Len(t, got, 1)
	assert.Equal(t, produced, got[0])
}
