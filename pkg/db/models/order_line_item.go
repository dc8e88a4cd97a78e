package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/shopkart-backend/pkg/enums"
)

// OrderLineItem carries the frozen allocation decision for one product:
// which warehouse holds its reservation, at what shipping tier and cost.
type OrderLineItem struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID       uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID     uuid.UUID          `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	ProductName   string             `gorm:"column:product_name;not null" json:"product_name"`
	Category      string             `gorm:"column:category;not null" json:"category"`
	Quantity      int                `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice     decimal.Decimal    `gorm:"column:unit_price;type:numeric;not null" json:"unit_price"`
	WarehouseID   uuid.UUID          `gorm:"column:warehouse_id;type:uuid;not null" json:"warehouse_id"`
	Zone          int                `gorm:"column:zone;not null" json:"zone"`
	ShippingMode  enums.ShippingMode `gorm:"column:shipping_mode;not null" json:"shipping_mode"`
	ShippingCost  decimal.Decimal    `gorm:"column:shipping_cost;type:numeric;not null" json:"shipping_cost"`
	EstimatedDays int                `gorm:"column:estimated_days;not null" json:"estimated_days"`
}
