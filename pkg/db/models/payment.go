package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

// Payment tracks one gateway payment for one order. The gateway order id is
// encrypted at rest; RawGatewayPayload keeps the gateway's last response for
// reconciliation.
type Payment struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID           uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	GatewayOrderIDEnc string              `gorm:"column:gateway_order_id_enc;not null" json:"-"`
	Status            enums.PaymentStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	Amount            decimal.Decimal     `gorm:"column:amount;type:numeric;not null" json:"amount"`
	Currency          string              `gorm:"column:currency;not null" json:"currency"`
	RawGatewayPayload types.JSONMap       `gorm:"column:raw_gateway_payload;type:jsonb;serializer:json" json:"-"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
