package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryRecord tracks stock per (product, warehouse). ReservedQuantity is
// a provisional hold; sellable stock is Quantity - ReservedQuantity.
// 0 <= reserved_quantity <= quantity is maintained by conditional updates
// with affected-row checks, never by read-then-write.
type InventoryRecord struct {
	ProductID        uuid.UUID      `gorm:"column:product_id;type:uuid;primaryKey" json:"product_id"`
	WarehouseID      uuid.UUID      `gorm:"column:warehouse_id;type:uuid;primaryKey" json:"warehouse_id"`
	Quantity         int            `gorm:"column:quantity;not null;default:0" json:"quantity"`
	ReservedQuantity int            `gorm:"column:reserved_quantity;not null;default:0" json:"reserved_quantity"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Available returns the sellable quantity, floored at zero.
func (r InventoryRecord) Available() int {
	available := r.Quantity - r.ReservedQuantity
	if available < 0 {
		return 0
	}
	return available
}
