package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() Order {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return Order{
		ID:            "ORD-1714000000000-ABCDEF123456",
		ClientName:    "Familia Rojas",
		ServiceType:   ServiceWedding,
		Headcount:     50,
		EventDate:     "2026-06-20",
		EventLocation: "Hacienda Los Olivos",
		Status:        OrderInProduction,
		Production: &ProductionData{
			Items:     []ProductionItem{{ID: "i1", Name: "Empanadas", Quantity: 60}},
			StartDate: &start,
		},
		CreatedAt: start,
	}
}

func TestShortRef(t *testing.T) {
	assert.Equal(t, "123456", sampleOrder().ShortRef())
	assert.Equal(t, "ORD-1", Order{ID: "ord-1"}.ShortRef())
	assert.Equal(t, "ABCDEF", Order{ID: "x-abcdef"}.ShortRef())
}

func TestProductionCounters(t *testing.T) {
	p := ProductionData{Items: []ProductionItem{
		{Quantity: 30, QCApproved: true},
		{Quantity: 25},
	}}

	assert.Equal(t, 55, p.TotalUnits())
	assert.Equal(t, 1, p.ApprovedCount())
	assert.False(t, p.FullyApproved())

	p.Items[1].QCApproved = true
	assert.True(t, p.FullyApproved())
	assert.False(t, ProductionData{}.FullyApproved())
}

func TestCoversHeadcount(t *testing.T) {
	order := sampleOrder()
	assert.True(t, order.CoversHeadcount())

	order.Headcount = 61
	assert.False(t, order.CoversHeadcount())

	order.Production = nil
	assert.False(t, order.CoversHeadcount())
}

func TestCloneSharesNothing(t *testing.T) {
	order := sampleOrder()
	order.Delivery = &DeliveryData{ItemsSnapshot: []ProductionItem{{ID: "i1", Quantity: 60}}}

	c := order.Clone()
	c.Production.Items[0].Quantity = 1
	*c.Production.StartDate = time.Time{}
	c.Delivery.ItemsSnapshot[0].Quantity = 2

	assert.Equal(t, 60, order.Production.Items[0].Quantity)
	assert.False(t, order.Production.StartDate.IsZero())
	assert.Equal(t, 60, order.Delivery.ItemsSnapshot[0].Quantity)
}

func TestServiceTypeValid(t *testing.T) {
	assert.True(t, ServiceBirthday.Valid())
	assert.False(t, ServiceType("cumpleaños").Valid())
	assert.False(t, ServiceType("").Valid())
}

func TestOrderJSONFieldNames(t *testing.T) {
	order := sampleOrder()
	order.Production.StartDate = nil

	raw, err := json.Marshal(order)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	for _, key := range []string{"id", "clientName", "serviceType", "headcount", "eventDate", "eventLocation", "status", "production", "createdAt"} {
		assert.Contains(t, doc, key)
	}
	assert.NotContains(t, doc, "delivery")
	assert.Equal(t, "En Producción", doc["status"])
	assert.Equal(t, "Boda", doc["serviceType"])

	production := doc["production"].(map[string]any)
	assert.Contains(t, production, "startDate")
	assert.Nil(t, production["startDate"])
	assert.NotContains(t, production, "lastQcDate")

	item := production["items"].([]any)[0].(map[string]any)
	assert.Contains(t, item, "qcApproved")
	assert.Contains(t, item, "qcNotes")
}
