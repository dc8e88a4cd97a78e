package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a fulfillment location. Maintained by admin tooling; the
// fulfillment core only reads it.
type Warehouse struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"column:name;not null" json:"name"`
	Pincode         string    `gorm:"column:pincode;not null;index" json:"pincode"`
	City            string    `gorm:"column:city;not null" json:"city"`
	State           string    `gorm:"column:state;not null;index" json:"state"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CoveredPincodes []string  `gorm:"column:covered_pincodes;type:jsonb;serializer:json" json:"covered_pincodes"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Covers reports whether the warehouse declares service coverage for the
// given customer pincode.
func (w Warehouse) Covers(pincode string) bool {
	for _, covered := range w.CoveredPincodes {
		if covered == pincode {
			return true
		}
	}
	return false
}
