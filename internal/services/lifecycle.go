package services

import (
	"fmt"
	"strings"
	"time"

	"eventmaster/internal/models"
)

// The functions below compute the next value of an order. They never touch
// their input: each returns a fresh copy with the section it owns replaced.

// ValidateDraft reports every problem with the client-supplied facts.
func ValidateDraft(draft models.OrderDraft) error {
	verr := &ValidationError{}
	if strings.TrimSpace(draft.ClientName) == "" {
		verr.add("clientName", "is required")
	}
	if !draft.ServiceType.Valid() {
		verr.add("serviceType", fmt.Sprintf("must be one of %v", models.ServiceTypes))
	}
	if draft.Headcount <= 0 {
		verr.add("headcount", "must be a positive integer")
	}
	if strings.TrimSpace(draft.EventDate) == "" {
		verr.add("eventDate", "is required")
	}
	if strings.TrimSpace(draft.EventLocation) == "" {
		verr.add("eventLocation", "is required")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// NewOrder builds a pending order from a validated draft.
func NewOrder(draft models.OrderDraft, id string, now time.Time) models.Order {
	return models.Order{
		ID:            id,
		ClientName:    strings.TrimSpace(draft.ClientName),
		ServiceType:   draft.ServiceType,
		Headcount:     draft.Headcount,
		EventDate:     strings.TrimSpace(draft.EventDate),
		EventLocation: strings.TrimSpace(draft.EventLocation),
		Status:        models.OrderPending,
		CreatedAt:     now,
		Production: &models.ProductionData{
			Items:     []models.ProductionItem{},
			StartDate: nil,
		},
	}
}

// ApplyProduction replaces the production breakdown and moves the order
// into production. The start date is kept once set.
func ApplyProduction(order models.Order, items []models.ProductionItem, now time.Time) models.Order {
	next := order.Clone()

	production := models.ProductionData{}
	if next.Production != nil {
		production = *next.Production
	}
	production.Items = assignItemIDs(items)
	if production.StartDate == nil {
		start := now
		production.StartDate = &start
	}

	next.Production = &production
	next.Status = models.OrderInProduction
	return next
}

// ApplyQualityControl records an inspection pass over the breakdown. It
// requires a prior production save and leaves the status alone.
func ApplyQualityControl(order models.Order, items []models.ProductionItem, now time.Time) (models.Order, error) {
	if order.Production == nil || order.Production.StartDate == nil {
		return models.Order{}, fmt.Errorf("%w: order %s has no production breakdown", ErrPrecondition, order.ID)
	}

	next := order.Clone()
	next.Production.Items = assignItemIDs(items)
	qc := now
	next.Production.LastQCDate = &qc
	return next, nil
}

// ApplyDelivery marks the order delivered and freezes a copy of the items
// that left the kitchen.
func ApplyDelivery(order models.Order, proofURL string, now time.Time) models.Order {
	next := order.Clone()

	var items []models.ProductionItem
	if next.Production != nil {
		items = next.Production.Items
	}
	next.Delivery = &models.DeliveryData{
		DeliveryDate:  now,
		ProofURL:      strings.TrimSpace(proofURL),
		ItemsSnapshot: models.CloneItems(items),
	}
	next.Status = models.OrderDelivered
	return next
}

func assignItemIDs(items []models.ProductionItem) []models.ProductionItem {
	out := models.CloneItems(items)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = NewItemID()
		}
	}
	return out
}
