package services

import (
	"context"
	"fmt"

	"eventmaster/internal/models"
)

// demoOrder is one scripted walk through the lifecycle.
type demoOrder struct {
	draft    models.OrderDraft
	items    []models.ProductionItem
	approve  bool
	deliver  string
	produced bool
}

var demoOrders = []demoOrder{
	{
		draft: models.OrderDraft{ClientName: "Lucía Gómez", ServiceType: models.ServiceBirthday, Headcount: 25, EventDate: "2026-05-30", EventLocation: "Salón Azul"},
	},
	{
		draft:    models.OrderDraft{ClientName: "Familia Rojas", ServiceType: models.ServiceWedding, Headcount: 50, EventDate: "2026-06-20", EventLocation: "Hacienda Los Olivos"},
		items:    []models.ProductionItem{{Name: "Empanadas", Quantity: 60}, {Name: "Alfajores", Quantity: 30}},
		produced: true,
	},
	{
		draft:    models.OrderDraft{ClientName: "ACME Corp", ServiceType: models.ServiceCorporate, Headcount: 120, EventDate: "2026-07-01", EventLocation: "Torre Norte"},
		items:    []models.ProductionItem{{Name: "Sandwiches", Quantity: 150}},
		produced: true,
		approve:  true,
		deliver:  "https://example.com/entregas/acme.jpg",
	},
}

// SeedDemo fills an empty book with a handful of orders at different
// stages. It does nothing when orders already exist.
func SeedDemo(ctx context.Context, service OrderService, book *OrderBook) (int, error) {
	if len(book.Orders()) > 0 {
		return 0, nil
	}

	for i, d := range demoOrders {
		order, err := service.CreateOrder(ctx, d.draft)
		if err != nil {
			return i, fmt.Errorf("failed to seed demo order: %w", err)
		}
		book.Acknowledge(order)

		if d.produced {
			if order, err = service.RecordProduction(ctx, order.ID, d.items); err != nil {
				return i, fmt.Errorf("failed to seed demo production: %w", err)
			}
			book.Acknowledge(order)
		}
		if d.approve {
			items := models.CloneItems(order.Production.Items)
			for j := range items {
				items[j].QCApproved = true
			}
			if order, err = service.RecordQualityControl(ctx, order.ID, items); err != nil {
				return i, fmt.Errorf("failed to seed demo quality control: %w", err)
			}
			book.Acknowledge(order)
		}
		if d.deliver != "" {
			if order, err = service.ConfirmDelivery(ctx, order.ID, DeliveryConfirmation{ProofURL: d.deliver}); err != nil {
				return i, fmt.Errorf("failed to seed demo delivery: %w", err)
			}
			book.Acknowledge(order)
		}
	}
	return len(demoOrders), nil
}
