// Package report builds the read-only projections behind the printable
// reports: the general order list, the kitchen production sheet, the
// per-order quality control sheet and the delivery log.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"eventmaster/internal/models"
)

// ErrNoProductionItems is returned for a quality control sheet of an order
// with nothing to inspect.
var ErrNoProductionItems = errors.New("order has no production items to inspect")

// TimeLayout is how timestamps appear on rendered reports.
const TimeLayout = "2006-01-02 15:04"

type OrderRow struct {
	Ref         string `json:"ref" yaml:"ref"`
	OrderID     string `json:"orderId" yaml:"orderId"`
	ClientName  string `json:"clientName" yaml:"clientName"`
	ServiceType string `json:"serviceType" yaml:"serviceType"`
	Headcount   int    `json:"headcount" yaml:"headcount"`
	EventDate   string `json:"eventDate" yaml:"eventDate"`
	Location    string `json:"eventLocation" yaml:"eventLocation"`
	Status      string `json:"status" yaml:"status"`
}

type ProductionEntry struct {
	Ref             string                  `json:"ref" yaml:"ref"`
	OrderID         string                  `json:"orderId" yaml:"orderId"`
	ClientName      string                  `json:"clientName" yaml:"clientName"`
	EventDate       string                  `json:"eventDate" yaml:"eventDate"`
	Location        string                  `json:"eventLocation" yaml:"eventLocation"`
	StartDate       *time.Time              `json:"startDate" yaml:"startDate"`
	Items           []models.ProductionItem `json:"items" yaml:"items"`
	TotalUnits      int                     `json:"totalUnits" yaml:"totalUnits"`
	Headcount       int                     `json:"headcount" yaml:"headcount"`
	CoversHeadcount bool                    `json:"coversHeadcount" yaml:"coversHeadcount"`
}

type InspectionLine struct {
	Name     string `json:"name" yaml:"name"`
	Quantity int    `json:"quantity" yaml:"quantity"`
	Approved bool   `json:"qcApproved" yaml:"qcApproved"`
	Notes    string `json:"qcNotes" yaml:"qcNotes"`
}

type QualityControlSheet struct {
	Ref           string           `json:"ref" yaml:"ref"`
	OrderID       string           `json:"orderId" yaml:"orderId"`
	ClientName    string           `json:"clientName" yaml:"clientName"`
	ServiceType   string           `json:"serviceType" yaml:"serviceType"`
	EventDate     string           `json:"eventDate" yaml:"eventDate"`
	Location      string           `json:"eventLocation" yaml:"eventLocation"`
	Lines         []InspectionLine `json:"items" yaml:"items"`
	Approved      int              `json:"approved" yaml:"approved"`
	Total         int              `json:"total" yaml:"total"`
	LastQCDate    *time.Time       `json:"lastQcDate" yaml:"lastQcDate"`
	FullyApproved bool             `json:"fullyApproved" yaml:"fullyApproved"`
}

type LogisticsRow struct {
	Ref          string    `json:"ref" yaml:"ref"`
	OrderID      string    `json:"orderId" yaml:"orderId"`
	ClientName   string    `json:"clientName" yaml:"clientName"`
	Location     string    `json:"eventLocation" yaml:"eventLocation"`
	DeliveryDate time.Time `json:"deliveryDate" yaml:"deliveryDate"`
	Items        string    `json:"items" yaml:"items"`
	ProofURL     string    `json:"proofUrl,omitempty" yaml:"proofUrl,omitempty"`
}

func OrderList(orders []models.Order) []OrderRow {
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, OrderRow{
			Ref:         o.ShortRef(),
			OrderID:     o.ID,
			ClientName:  o.ClientName,
			ServiceType: string(o.ServiceType),
			Headcount:   o.Headcount,
			EventDate:   o.EventDate,
			Location:    o.EventLocation,
			Status:      string(o.Status),
		})
	}
	return rows
}

// Production lists every order with at least one production item, in
// snapshot order.
func Production(orders []models.Order) []ProductionEntry {
	entries := make([]ProductionEntry, 0, len(orders))
	for _, o := range orders {
		if o.Production == nil || len(o.Production.Items) == 0 {
			continue
		}
		p := o.Production.Clone()
		entries = append(entries, ProductionEntry{
			Ref:             o.ShortRef(),
			OrderID:         o.ID,
			ClientName:      o.ClientName,
			EventDate:       o.EventDate,
			Location:        o.EventLocation,
			StartDate:       p.StartDate,
			Items:           p.Items,
			TotalUnits:      p.TotalUnits(),
			Headcount:       o.Headcount,
			CoversHeadcount: o.CoversHeadcount(),
		})
	}
	return entries
}

func QualityControl(order models.Order) (QualityControlSheet, error) {
	if order.Production == nil || len(order.Production.Items) == 0 {
		return QualityControlSheet{}, fmt.Errorf("%w: %s", ErrNoProductionItems, order.ID)
	}

	p := order.Production.Clone()
	lines := make([]InspectionLine, len(p.Items))
	for i, item := range p.Items {
		lines[i] = InspectionLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Approved: item.QCApproved,
			Notes:    item.QCNotes,
		}
	}

	return QualityControlSheet{
		Ref:           order.ShortRef(),
		OrderID:       order.ID,
		ClientName:    order.ClientName,
		ServiceType:   string(order.ServiceType),
		EventDate:     order.EventDate,
		Location:      order.EventLocation,
		Lines:         lines,
		Approved:      p.ApprovedCount(),
		Total:         len(p.Items),
		LastQCDate:    p.LastQCDate,
		FullyApproved: p.FullyApproved(),
	}, nil
}

// Logistics lists every order carrying a delivery record.
func Logistics(orders []models.Order) []LogisticsRow {
	rows := make([]LogisticsRow, 0, len(orders))
	for _, o := range orders {
		if o.Delivery == nil {
			continue
		}
		rows = append(rows, LogisticsRow{
			Ref:          o.ShortRef(),
			OrderID:      o.ID,
			ClientName:   o.ClientName,
			Location:     o.EventLocation,
			DeliveryDate: o.Delivery.DeliveryDate,
			Items:        summarize(o.Delivery.ItemsSnapshot),
			ProofURL:     o.Delivery.ProofURL,
		})
	}
	return rows
}

func summarize(items []models.ProductionItem) string {
	if len(items) == 0 {
		return "Sin detalle"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%d %s", item.Quantity, item.Name)
	}
	return strings.Join(parts, ", ")
}
