package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/arjunmehra/shopkart-backend/api/middleware"
	"github.com/arjunmehra/shopkart-backend/api/responses"
	"github.com/arjunmehra/shopkart-backend/api/validators"
	checkoutsvc "github.com/arjunmehra/shopkart-backend/internal/checkout"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

type quoteRequest struct {
	Address types.Address   `json:"address" validate:"required"`
	Items   []quoteItemBody `json:"items" validate:"required,min=1,dive"`
}

type quoteItemBody struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Mode      string    `json:"shipping_mode" validate:"omitempty,oneof=standard express"`
}

// CheckoutQuote allocates and prices items without reserving stock.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]checkoutsvc.QuoteItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, checkoutsvc.QuoteItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Mode:      enums.ShippingMode(item.Mode),
			})
		}

		result, err := svc.Quote(r.Context(), checkoutsvc.QuoteRequest{
			Address: payload.Address,
			Items:   items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type createOrderRequest struct {
	Address       types.Address     `json:"address" validate:"required"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cod gateway"`
	ShippingModes map[string]string `json:"shipping_modes" validate:"omitempty"`
}

// Checkout runs the order saga for the caller's active cart.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modes, err := parseShippingModes(payload.ShippingModes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateOrder(r.Context(), userID, checkoutsvc.CreateOrderInput{
			Address:       payload.Address,
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
			ShippingModes: modes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type captureRequest struct {
	GatewayOrderID string `json:"gateway_order_id" validate:"omitempty,max=128"`
}

// CaptureOrderPayment finishes a gateway checkout after buyer approval.
func CaptureOrderPayment(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		orderID, err := orderIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload captureRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CapturePayment(r.Context(), orderID, payload.GatewayOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseShippingModes(raw map[string]string) (map[uuid.UUID]enums.ShippingMode, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	modes := make(map[uuid.UUID]enums.ShippingMode, len(raw))
	for key, value := range raw {
		productID, err := uuid.Parse(key)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping_modes keys must be product ids").WithDetails(map[string]any{"key": key})
		}
		mode := enums.ShippingMode(value)
		if !mode.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown shipping mode").WithDetails(map[string]any{"mode": value})
		}
		modes[productID] = mode
	}
	return modes, nil
}
