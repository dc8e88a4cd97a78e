package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

// Order is the persisted checkout result. Address, user, and allocation
// decisions are frozen at creation time so cancellation can release the
// exact inventory rows without recomputing allocation.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          string              `gorm:"column:user_id;not null;index" json:"user_id"`
	UserSnapshot    types.JSONMap       `gorm:"column:user_snapshot;type:jsonb;serializer:json" json:"user_snapshot,omitempty"`
	AddressSnapshot types.Address       `gorm:"column:address_snapshot;type:jsonb;serializer:json" json:"address_snapshot"`
	ShippingTotal   decimal.Decimal     `gorm:"column:shipping_total;type:numeric;not null" json:"shipping_total"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric;not null" json:"total_amount"`
	Currency        string              `gorm:"column:currency;not null;default:'INR'" json:"currency"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null" json:"payment_method"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'pending';index" json:"status"`
	LineItems       []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"line_items"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
