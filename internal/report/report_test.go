package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/models"
)

var generatedAt = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func at(day, hour, minute int) *time.Time {
	t := time.Date(2026, 5, day, hour, minute, 0, 0, time.UTC)
	return &t
}

func fixtureOrders() []models.Order {
	sandwiches := []models.ProductionItem{{ID: "i1", Name: "Sandwiches", Quantity: 150, QCApproved: true, QCNotes: "Ok"}}
	return []models.Order{
		{
			ID:            "ORD-1777000000300-AAAAAA0003C1",
			ClientName:    "ACME Corp",
			ServiceType:   models.ServiceCorporate,
			Headcount:     120,
			EventDate:     "2026-07-01",
			EventLocation: "Torre Norte",
			Status:        models.OrderDelivered,
			Production: &models.ProductionData{
				Items:      sandwiches,
				StartDate:  at(1, 8, 0),
				LastQCDate: at(2, 10, 30),
			},
			Delivery: &models.DeliveryData{
				DeliveryDate:  *at(3, 14, 15),
				ProofURL:      "https://fotos/acme.jpg",
				ItemsSnapshot: models.CloneItems(sandwiches),
			},
			CreatedAt: *at(1, 7, 0),
		},
		{
			ID:            "ORD-1777000000200-BBBBBB0002B2",
			ClientName:    "Familia Rojas",
			ServiceType:   models.ServiceWedding,
			Headcount:     50,
			EventDate:     "2026-06-20",
			EventLocation: "Hacienda Los Olivos",
			Status:        models.OrderInProduction,
			Production: &models.ProductionData{
				Items: []models.ProductionItem{
					{ID: "i2", Name: "Empanadas", Quantity: 60, QCApproved: true, QCNotes: "Dorado parejo"},
					{ID: "i3", Name: "Alfajores", Quantity: 30},
				},
				StartDate:  at(2, 9, 0),
				LastQCDate: at(3, 11, 0),
			},
			CreatedAt: *at(1, 6, 0),
		},
		{
			ID:            "ORD-1777000000100-CCCCCC0001A3",
			ClientName:    "Lucía Gómez",
			ServiceType:   models.ServiceBirthday,
			Headcount:     25,
			EventDate:     "2026-05-30",
			EventLocation: "Salón Azul",
			Status:        models.OrderPending,
			Production:    &models.ProductionData{Items: []models.ProductionItem{}},
			CreatedAt:     *at(1, 5, 0),
		},
	}
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestOrderList(t *testing.T) {
	rows := OrderList(fixtureOrders())

	require.Len(t, rows, 3)
	assert.Equal(t, "0003C1", rows[0].Ref)
	assert.Equal(t, "En Producción", rows[1].Status)

	var buf bytes.Buffer
	require.NoError(t, RenderOrderList(&buf, rows, generatedAt))
	golden(t).Assert(t, "order_list", buf.Bytes())
}

func TestProduction(t *testing.T) {
	entries := Production(fixtureOrders())

	require.Len(t, entries, 2)
	assert.Equal(t, 150, entries[0].TotalUnits)
	assert.True(t, entries[0].CoversHeadcount)
	assert.Equal(t, 90, entries[1].TotalUnits)

	var buf bytes.Buffer
	require.NoError(t, RenderProduction(&buf, entries, generatedAt))
	golden(t).Assert(t, "production", buf.Bytes())
}

func TestProductionEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderProduction(&buf, Production(nil), generatedAt))
	golden(t).Assert(t, "production_empty", buf.Bytes())
}

func TestQualityControl(t *testing.T) {
	sheet, err := QualityControl(fixtureOrders()[1])
	require.NoError(t, err)

	assert.Equal(t, 1, sheet.Approved)
	assert.Equal(t, 2, sheet.Total)
	assert.False(t, sheet.FullyApproved)

	var buf bytes.Buffer
	require.NoError(t, RenderQualityControl(&buf, sheet, generatedAt))
	golden(t).Assert(t, "quality_control", buf.Bytes())
}

func TestQualityControlWithoutItems(t *testing.T) {
	orders := fixtureOrders()

	_, err := QualityControl(orders[2])
	assert.ErrorIs(t, err, ErrNoProductionItems)

	_, err = QualityControl(models.Order{ID: "ORD-legacy"})
	assert.ErrorIs(t, err, ErrNoProductionItems)
}

func TestLogistics(t *testing.T) {
	rows := Logistics(fixtureOrders())

	require.Len(t, rows, 1)
	assert.Equal(t, "150 Sandwiches", rows[0].Items)

	var buf bytes.Buffer
	require.NoError(t, RenderLogistics(&buf, rows, generatedAt))
	golden(t).Assert(t, "logistics", buf.Bytes())
}

func TestLogisticsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderLogistics(&buf, Logistics(fixtureOrders()[1:]), generatedAt))
	golden(t).Assert(t, "logistics_empty", buf.Bytes())
}

func TestProjectionsDoNotMutate(t *testing.T) {
	orders := fixtureOrders()
	before := models.CloneOrders(orders)

	entries := Production(orders)
	entries[0].Items[0].Quantity = 1
	_ = OrderList(orders)
	_ = Logistics(orders)
	_, _ = QualityControl(orders[1])

	assert.Equal(t, before, orders)
}

func TestSummarizeWithoutItems(t *testing.T) {
	assert.Equal(t, "Sin detalle", summarize(nil))
	assert.Equal(t, "2 Pan, 1 Torta", summarize([]models.ProductionItem{{Name: "Pan", Quantity: 2}, {Name: "Torta", Quantity: 1}}))
}
