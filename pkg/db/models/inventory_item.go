package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem tracks donated stock levels per item.
type InventoryItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string          `gorm:"type:text;not null" json:"name"`
	Category          string          `gorm:"type:text;not null" json:"category"`
	Quantity          decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"quantity"`
	Unit              string          `gorm:"type:text;not null" json:"unit"`
	LowStockThreshold decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"low_stock_threshold"`
}

// TableName keeps the table aligned with the managed schema.
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLowStock reports whether the item is at or below its configured threshold.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.LowStockThreshold)
}
