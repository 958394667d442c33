package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderRecord is the relational row behind the postgres store. The order
// itself lives in Document using the same field names as every other
// backend.
type OrderRecord struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time      `json:"updated_at"`
	Status    string         `json:"status" gorm:"not null;index"`
	Document  datatypes.JSON `json:"document" gorm:"type:jsonb;not null"`
}

func (OrderRecord) TableName() string {
	return "orders"
}
