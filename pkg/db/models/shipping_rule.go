package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingRule prices shipments from one warehouse for one product category.
// Standard and express tiers are flattened into columns; estimates are
// zone-1 transit days before the zone factor is applied.
type ShippingRule struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	WarehouseID          uuid.UUID       `gorm:"column:warehouse_id;type:uuid;not null;uniqueIndex:idx_shipping_rules_warehouse_category" json:"warehouse_id"`
	Category             string          `gorm:"column:category;not null;uniqueIndex:idx_shipping_rules_warehouse_category" json:"category"`
	StandardBaseCost     decimal.Decimal `gorm:"column:standard_base_cost;type:numeric;not null" json:"standard_base_cost"`
	StandardPerKgCost    decimal.Decimal `gorm:"column:standard_per_kg_cost;type:numeric;not null" json:"standard_per_kg_cost"`
	StandardEstimateDays int             `gorm:"column:standard_estimate_days;not null" json:"standard_estimate_days"`
	ExpressBaseCost      decimal.Decimal `gorm:"column:express_base_cost;type:numeric;not null" json:"express_base_cost"`
	ExpressPerKgCost     decimal.Decimal `gorm:"column:express_per_kg_cost;type:numeric;not null" json:"express_per_kg_cost"`
	ExpressEstimateDays  int             `gorm:"column:express_estimate_days;not null" json:"express_estimate_days"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
