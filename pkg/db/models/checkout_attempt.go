package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

// AttemptLineItem is one frozen allocation inside a checkout attempt.
type AttemptLineItem struct {
	ProductID     uuid.UUID          `json:"product_id"`
	ProductName   string             `json:"product_name"`
	Category      string             `json:"category"`
	Quantity      int                `json:"quantity"`
	UnitPrice     decimal.Decimal    `json:"unit_price"`
	WarehouseID   uuid.UUID          `json:"warehouse_id"`
	Zone          int                `json:"zone"`
	ShippingMode  enums.ShippingMode `json:"shipping_mode"`
	ShippingCost  decimal.Decimal    `json:"shipping_cost"`
	EstimatedDays int                `json:"estimated_days"`
}

// CheckoutAttempt is the durable record of one checkout saga run. Gateway
// checkouts span two HTTP calls (create, then capture), so the reserved
// allocations must outlive the first request. The attempt id doubles as the
// order id once the order row is written.
type CheckoutAttempt struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          string              `gorm:"column:user_id;not null;index" json:"user_id"`
	UserSnapshot    types.JSONMap       `gorm:"column:user_snapshot;type:jsonb;serializer:json" json:"user_snapshot,omitempty"`
	AddressSnapshot types.Address       `gorm:"column:address_snapshot;type:jsonb;serializer:json" json:"address_snapshot"`
	LineItems       []AttemptLineItem   `gorm:"column:line_items;type:jsonb;serializer:json" json:"line_items"`
	ShippingTotal   decimal.Decimal     `gorm:"column:shipping_total;type:numeric;not null" json:"shipping_total"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric;not null" json:"total_amount"`
	Currency        string              `gorm:"column:currency;not null;default:'INR'" json:"currency"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null" json:"payment_method"`
	State           enums.CheckoutState `gorm:"column:state;not null;default:'initiated';index" json:"state"`
	ExpiresAt       *time.Time          `gorm:"column:expires_at;index" json:"expires_at,omitempty"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
