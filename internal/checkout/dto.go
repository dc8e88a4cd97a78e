package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

// QuoteItemInput is one item of an allocate-and-quote request.
type QuoteItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Mode      enums.ShippingMode
}

// QuoteRequest asks for allocation and shipping prices before checkout.
type QuoteRequest struct {
	Address types.Address
	Items   []QuoteItemInput
}

// QuoteLine is the allocation and price returned for one requested item.
type QuoteLine struct {
	ProductID     uuid.UUID          `json:"product_id"`
	WarehouseID   uuid.UUID          `json:"warehouse_id"`
	Zone          int                `json:"zone"`
	Mode          enums.ShippingMode `json:"shipping_mode"`
	ShippingCost  decimal.Decimal    `json:"shipping_cost"`
	EstimatedDays int                `json:"estimated_days"`
}

// QuoteResult is the full allocate-and-quote response.
type QuoteResult struct {
	Lines         []QuoteLine     `json:"lines"`
	ShippingTotal decimal.Decimal `json:"shipping_total"`
}

// CreateOrderInput carries everything checkout needs besides the cart.
type CreateOrderInput struct {
	Address       types.Address
	PaymentMethod enums.PaymentMethod
	// ShippingModes selects a tier per product; items not listed ship standard.
	ShippingModes map[uuid.UUID]enums.ShippingMode
}

// CreateOrderResult reports the saga outcome to the client. ApprovalLink is
// set only for gateway checkouts, which complete in a second capture call.
type CreateOrderResult struct {
	OrderID      uuid.UUID         `json:"order_id"`
	Status       enums.OrderStatus `json:"status"`
	ApprovalLink string            `json:"approval_link,omitempty"`
}

// CaptureResult reports the outcome of the capture call.
type CaptureResult struct {
	OrderID uuid.UUID         `json:"order_id"`
	Status  enums.OrderStatus `json:"status"`
}
