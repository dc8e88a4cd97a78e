package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/shopkart-backend/internal/checkout"
	"github.com/arjunmehra/shopkart-backend/internal/orders"
	"github.com/arjunmehra/shopkart-backend/pkg/config"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/pagination"
	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
)

type stubCheckoutService struct{}

func (stubCheckoutService) Quote(context.Context, checkout.QuoteRequest) (*checkout.QuoteResult, error) {
	return &checkout.QuoteResult{ShippingTotal: decimal.Zero}, nil
}

func (stubCheckoutService) CreateOrder(context.Context, string, checkout.CreateOrderInput) (*checkout.CreateOrderResult, error) {
	panic("unimplemented")
}

func (stubCheckoutService) CapturePayment(context.Context, uuid.UUID, string) (*checkout.CaptureResult, error) {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) Get(context.Context, string, uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrdersService) List(context.Context, string, pagination.Params) (*orders.OrderPage, error) {
	return &orders.OrderPage{Orders: []models.Order{}}, nil
}

func (stubOrdersService) Cancel(context.Context, string, uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	return NewRouter(testConfig(), logg, stubPinger{}, nil, nil, stubCheckoutService{}, stubOrdersService{})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-ShopKart-Env"); got != "test" {
		t.Fatalf("expected env header test, got %q", got)
	}
}

func TestHealthReady(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProtectedRoutesRequireIdentity(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity header, got %d", rec.Code)
	}
}

func TestListOrdersWithIdentity(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("X-User-Id", "user-123")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			Orders []json.RawMessage `json:"orders"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 0 {
		t.Fatalf("expected empty order list, got %d entries", len(envelope.Data.Orders))
	}
}

func TestOrderDetailRejectsMalformedID(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	req.Header.Set("X-User-Id", "user-123")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed order id, got %d", rec.Code)
	}
}

func TestQuoteRejectsInvalidBody(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-123")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty quote, got %d: %s", rec.Code, rec.Body.String())
	}
}
