package services

import (
	"strings"

	"golang.org/x/text/cases"

	"eventmaster/internal/models"
)

// fold builds a fresh Caser per call; Casers keep state and cannot be
// shared between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Search keeps orders whose client name or id contains term, ignoring case.
// An empty term keeps everything.
func Search(orders []models.Order, term string) []models.Order {
	term = strings.TrimSpace(term)
	if term == "" {
		return orders
	}
	needle := fold(term)
	return filter(orders, func(o models.Order) bool {
		return strings.Contains(fold(o.ClientName), needle) ||
			strings.Contains(fold(o.ID), needle)
	})
}

// ProductionBoard lists the orders the kitchen still works on.
func ProductionBoard(orders []models.Order) []models.Order {
	return filter(orders, func(o models.Order) bool {
		return o.Status != models.OrderDelivered
	})
}

// DispatchQueue lists undelivered orders that have something to ship.
func DispatchQueue(orders []models.Order) []models.Order {
	return filter(orders, func(o models.Order) bool {
		return o.Status != models.OrderDelivered && o.Production != nil && len(o.Production.Items) > 0
	})
}

// DeliveredHistory returns up to limit delivered orders; limit <= 0 means all.
func DeliveredHistory(orders []models.Order, limit int) []models.Order {
	delivered := filter(orders, func(o models.Order) bool {
		return o.Status == models.OrderDelivered
	})
	if limit > 0 && len(delivered) > limit {
		delivered = delivered[:limit]
	}
	return delivered
}

func filter(orders []models.Order, keep func(models.Order) bool) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
