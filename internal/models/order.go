package models

import (
	"strings"
	"time"
)

type Order struct {
	ID            string          `json:"id" bson:"id" yaml:"id"`
	ClientName    string          `json:"clientName" bson:"clientName" yaml:"clientName"`
	ServiceType   ServiceType     `json:"serviceType" bson:"serviceType" yaml:"serviceType"`
	Headcount     int             `json:"headcount" bson:"headcount" yaml:"headcount"`
	EventDate     string          `json:"eventDate" bson:"eventDate" yaml:"eventDate"`
	EventLocation string          `json:"eventLocation" bson:"eventLocation" yaml:"eventLocation"`
	Status        OrderStatus     `json:"status" bson:"status" yaml:"status"`
	Production    *ProductionData `json:"production,omitempty" bson:"production,omitempty" yaml:"production,omitempty"`
	Delivery      *DeliveryData   `json:"delivery,omitempty" bson:"delivery,omitempty" yaml:"delivery,omitempty"`
	CreatedAt     time.Time       `json:"createdAt" bson:"createdAt" yaml:"createdAt"`
}

// OrderDraft carries the client-supplied facts of a new order.
type OrderDraft struct {
	ClientName    string      `json:"clientName"`
	ServiceType   ServiceType `json:"serviceType"`
	Headcount     int         `json:"headcount"`
	EventDate     string      `json:"eventDate"`
	EventLocation string      `json:"eventLocation"`
}

type ServiceType string

const (
	ServiceCatering  ServiceType = "Catering"
	ServiceWedding   ServiceType = "Boda"
	ServiceCorporate ServiceType = "Corporativo"
	ServiceBirthday  ServiceType = "Cumpleaños"
	ServiceOther     ServiceType = "Otro"
)

var ServiceTypes = []ServiceType{
	ServiceCatering,
	ServiceWedding,
	ServiceCorporate,
	ServiceBirthday,
	ServiceOther,
}

func (s ServiceType) Valid() bool {
	for _, t := range ServiceTypes {
		if s == t {
			return true
		}
	}
	return false
}

type OrderStatus string

const (
	OrderPending      OrderStatus = "Pendiente"
	OrderInProduction OrderStatus = "En Producción"
	OrderDelivered    OrderStatus = "Entregado"
	// OrderCompleted is part of the persisted vocabulary but no operation sets it.
	OrderCompleted OrderStatus = "Completado"
)

// ShortRef is the human facing reference printed on reports.
func (o Order) ShortRef() string {
	ref := o.ID
	if len(ref) > 6 {
		ref = ref[len(ref)-6:]
	}
	return strings.ToUpper(ref)
}

// CoversHeadcount reports whether the production breakdown yields at least
// one unit per guest.
func (o Order) CoversHeadcount() bool {
	if o.Production == nil {
		return false
	}
	return o.Production.TotalUnits() >= o.Headcount
}

// Clone returns a deep copy that shares no slices or pointers with o.
func (o Order) Clone() Order {
	c := o
	if o.Production != nil {
		p := o.Production.Clone()
		c.Production = &p
	}
	if o.Delivery != nil {
		d := o.Delivery.Clone()
		c.Delivery = &d
	}
	return c
}

func CloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}
