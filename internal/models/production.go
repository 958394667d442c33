package models

import "time"

type ProductionData struct {
	Items []ProductionItem `json:"items" bson:"items" yaml:"items"`
	// StartDate is written once, by the first production save.
	StartDate  *time.Time `json:"startDate" bson:"startDate" yaml:"startDate"`
	LastQCDate *time.Time `json:"lastQcDate,omitempty" bson:"lastQcDate,omitempty" yaml:"lastQcDate,omitempty"`
	Notes      string     `json:"notes,omitempty" bson:"notes,omitempty" yaml:"notes,omitempty"`
}

type ProductionItem struct {
	ID         string `json:"id" bson:"id" yaml:"id"`
	Name       string `json:"name" bson:"name" yaml:"name"`
	Quantity   int    `json:"quantity" bson:"quantity" yaml:"quantity"`
	QCApproved bool   `json:"qcApproved" bson:"qcApproved" yaml:"qcApproved"`
	QCNotes    string `json:"qcNotes" bson:"qcNotes" yaml:"qcNotes"`
}

type DeliveryData struct {
	DeliveryDate time.Time `json:"deliveryDate" bson:"deliveryDate" yaml:"deliveryDate"`
	ProofURL     string    `json:"proofUrl,omitempty" bson:"proofUrl,omitempty" yaml:"proofUrl,omitempty"`
	// ItemsSnapshot is what actually left the kitchen. It never aliases
	// ProductionData.Items.
	ItemsSnapshot []ProductionItem `json:"itemsSnapshot" bson:"itemsSnapshot" yaml:"itemsSnapshot"`
}

func (p ProductionData) TotalUnits() int {
	total := 0
	for _, item := range p.Items {
		total += item.Quantity
	}
	return total
}

func (p ProductionData) ApprovedCount() int {
	approved := 0
	for _, item := range p.Items {
		if item.QCApproved {
			approved++
		}
	}
	return approved
}

func (p ProductionData) FullyApproved() bool {
	return len(p.Items) > 0 && p.ApprovedCount() == len(p.Items)
}

func (p ProductionData) Clone() ProductionData {
	c := p
	c.Items = CloneItems(p.Items)
	c.StartDate = cloneTime(p.StartDate)
	c.LastQCDate = cloneTime(p.LastQCDate)
	return c
}

func (d DeliveryData) Clone() DeliveryData {
	c := d
	c.ItemsSnapshot = CloneItems(d.ItemsSnapshot)
	return c
}

// CloneItems copies items into a fresh, never nil, slice.
func CloneItems(items []ProductionItem) []ProductionItem {
	out := make([]ProductionItem, len(items))
	copy(out, items)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
