package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/shopkart-backend/api/middleware"
	"github.com/arjunmehra/shopkart-backend/api/responses"
	"github.com/arjunmehra/shopkart-backend/api/validators"
	ordersvc "github.com/arjunmehra/shopkart-backend/internal/orders"
	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/pagination"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

type orderResponse struct {
	OrderID       uuid.UUID           `json:"order_id"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	Currency      string              `json:"currency"`
	ShippingTotal decimal.Decimal     `json:"shipping_total"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Address       types.Address       `json:"address"`
	Items         []orderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

type orderItemResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	Zone          int             `json:"zone"`
	ShippingMode  string          `json:"shipping_mode"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	EstimatedDays int             `json:"estimated_days"`
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// ListOrders returns the caller's order history, newest first.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), userID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := orderListResponse{
			Orders:     make([]orderResponse, 0, len(page.Orders)),
			NextCursor: page.NextCursor,
		}
		for i := range page.Orders {
			resp.Orders = append(resp.Orders, newOrderResponse(&page.Orders[i]))
		}
		responses.WriteSuccess(w, resp)
	}
}

// OrderDetail returns one of the caller's orders with its line items.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := orderIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), middleware.UserIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// CancelOrder cancels a pending or processing order and releases its stock.
func CancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := orderIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), middleware.UserIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

func orderIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "orderId")
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid")
	}
	return orderID, nil
}

func newOrderResponse(order *models.Order) orderResponse {
	if order == nil {
		return orderResponse{}
	}
	items := make([]orderItemResponse, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		items = append(items, orderItemResponse{
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Category:      item.Category,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			WarehouseID:   item.WarehouseID,
			Zone:          item.Zone,
			ShippingMode:  string(item.ShippingMode),
			ShippingCost:  item.ShippingCost,
			EstimatedDays: item.EstimatedDays,
		})
	}
	return orderResponse{
		OrderID:       order.ID,
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		Currency:      order.Currency,
		ShippingTotal: order.ShippingTotal,
		TotalAmount:   order.TotalAmount,
		Address:       order.AddressSnapshot,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}
