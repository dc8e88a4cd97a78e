package orders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/internal/inventory"
	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/pagination"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubGateway struct {
	refundErr error
	refunds   []string
}

func (s *stubGateway) RefundOrder(ctx context.Context, requestID, gatewayOrderID string) error {
	s.refunds = append(s.refunds, gatewayOrderID)
	return s.refundErr
}

type plainDecryptor struct{}

func (plainDecryptor) Decrypt(encoded string) (string, error) {
	return encoded, nil
}

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:orders_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{`
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  user_snapshot TEXT,
  address_snapshot TEXT NOT NULL,
  shipping_total NUMERIC NOT NULL,
  total_amount NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'INR',
  payment_method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  category TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  warehouse_id TEXT NOT NULL,
  zone INTEGER NOT NULL,
  shipping_mode TEXT NOT NULL,
  shipping_cost NUMERIC NOT NULL,
  estimated_days INTEGER NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  gateway_order_id_enc TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  amount NUMERIC NOT NULL,
  currency TEXT NOT NULL,
  raw_gateway_payload TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS inventory_records (
  product_id TEXT NOT NULL,
  warehouse_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  reserved_quantity INTEGER NOT NULL DEFAULT 0,
  deleted_at DATETIME,
  updated_at DATETIME,
  PRIMARY KEY (product_id, warehouse_id)
);`}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newTestService(t *testing.T, db *gorm.DB, gateway *stubGateway) Service {
	t.Helper()
	svc, err := NewService(
		gormTxRunner{db: db},
		NewRepository(db),
		inventory.NewRepository(db),
		gateway,
		plainDecryptor{},
		nil,
		testLogger(),
	)
	require.NoError(t, err)
	return svc
}

func seedOrder(t *testing.T, db *gorm.DB, userID string, status enums.OrderStatus, method enums.PaymentMethod) *models.Order {
	t.Helper()

	productID, warehouseID := uuid.New(), uuid.New()
	require.NoError(t, db.Create(&models.InventoryRecord{
		ProductID:        productID,
		WarehouseID:      warehouseID,
		Quantity:         10,
		ReservedQuantity: 3,
	}).Error)

	order := &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		AddressSnapshot: types.Address{
			Name: "Test", Line1: "1 Street", City: "Mumbai",
			State: "Maharashtra", Pincode: "400001", Country: "India", Phone: "9999999999",
		},
		ShippingTotal: decimal.NewFromInt(50),
		TotalAmount:   decimal.NewFromInt(550),
		Currency:      "INR",
		PaymentMethod: method,
		Status:        status,
		LineItems: []models.OrderLineItem{{
			ID:            uuid.New(),
			ProductID:     productID,
			ProductName:   "Widget",
			Category:      "electronics",
			Quantity:      3,
			UnitPrice:     decimal.NewFromInt(500),
			WarehouseID:   warehouseID,
			Zone:          1,
			ShippingMode:  enums.ShippingModeStandard,
			ShippingCost:  decimal.NewFromInt(50),
			EstimatedDays: 4,
		}},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func reservedQuantity(t *testing.T, db *gorm.DB, productID, warehouseID uuid.UUID) int {
	t.Helper()
	var rec models.InventoryRecord
	require.NoError(t, db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&rec).Error)
	return rec.ReservedQuantity
}

func TestCancelReleasesReservationsAndMarksCancelled(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db, &stubGateway{})
	order := seedOrder(t, db, "user-1", enums.OrderStatusProcessing, enums.PaymentMethodCOD)

	cancelled, err := svc.Cancel(context.Background(), "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)

	item := order.LineItems[0]
	assert.Equal(t, 0, reservedQuantity(t, db, item.ProductID, item.WarehouseID))
}

func TestCancelIsIdempotent(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db, &stubGateway{})
	order := seedOrder(t, db, "user-1", enums.OrderStatusProcessing, enums.PaymentMethodCOD)

	_, err := svc.Cancel(context.Background(), "user-1", order.ID)
	require.NoError(t, err)

	again, err := svc.Cancel(context.Background(), "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, again.Status)

	// No double release: reserved stays floored at zero and quantity untouched.
	item := order.LineItems[0]
	assert.Equal(t, 0, reservedQuantity(t, db, item.ProductID, item.WarehouseID))
}

func TestCancelCompletedOrderRejected(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db, &stubGateway{})
	order := seedOrder(t, db, "user-1", enums.OrderStatusCompleted, enums.PaymentMethodCOD)

	_, err := svc.Cancel(context.Background(), "user-1", order.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict), "got %v", err)

	item := order.LineItems[0]
	assert.Equal(t, 3, reservedQuantity(t, db, item.ProductID, item.WarehouseID))
}

func TestCancelUnknownOrderNotFound(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db, &stubGateway{})

	_, err := svc.Cancel(context.Background(), "user-1", uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestCancelRefundsCapturedPayment(t *testing.T) {
	db := setupOrdersTestDB(t)
	gateway := &stubGateway{}
	svc := newTestService(t, db, gateway)
	order := seedOrder(t, db, "user-1", enums.OrderStatusProcessing, enums.PaymentMethodGateway)

	payment := &models.Payment{
		ID:                uuid.New(),
		OrderID:           order.ID,
		GatewayOrderIDEnc: "8PS123",
		Status:            enums.PaymentStatusCompleted,
		Amount:            decimal.NewFromInt(550),
		Currency:          "USD",
	}
	require.NoError(t, db.Create(payment).Error)

	_, err := svc.Cancel(context.Background(), "user-1", order.ID)
	require.NoError(t, err)
	require.Len(t, gateway.refunds, 1)
	assert.Equal(t, "8PS123", gateway.refunds[0])

	var updated models.Payment
	require.NoError(t, db.Where("id = ?", payment.ID).First(&updated).Error)
	assert.Equal(t, enums.PaymentStatusRefunded, updated.Status)
}

func TestCancelSucceedsWhenRefundFails(t *testing.T) {
	db := setupOrdersTestDB(t)
	gateway := &stubGateway{refundErr: errors.New("gateway down")}
	svc := newTestService(t, db, gateway)
	order := seedOrder(t, db, "user-1", enums.OrderStatusProcessing, enums.PaymentMethodGateway)

	payment := &models.Payment{
		ID:                uuid.New(),
		OrderID:           order.ID,
		GatewayOrderIDEnc: "8PS123",
		Status:            enums.PaymentStatusCompleted,
		Amount:            decimal.NewFromInt(550),
		Currency:          "USD",
	}
	require.NoError(t, db.Create(payment).Error)

	cancelled, err := svc.Cancel(context.Background(), "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)

	item := order.LineItems[0]
	assert.Equal(t, 0, reservedQuantity(t, db, item.ProductID, item.WarehouseID))

	var updated models.Payment
	require.NoError(t, db.Where("id = ?", payment.ID).First(&updated).Error)
	assert.Equal(t, enums.PaymentStatusRefundFailed, updated.Status)
}

func TestGetHidesOtherUsersOrders(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db, &stubGateway{})
	order := seedOrder(t, db, "user-1", enums.OrderStatusProcessing, enums.PaymentMethodCOD)

	_, err := svc.Get(context.Background(), "user-2", order.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound), "got %v", err)

	got, err := svc.Get(context.Background(), "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	require.Len(t, got.LineItems, 1)
}

func TestListPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db, &stubGateway{})

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		order := seedOrder(t, db, "user-1", enums.OrderStatusProcessing, enums.PaymentMethodCOD)
		require.NoError(t, db.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	first, err := svc.List(context.Background(), "user-1", pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(context.Background(), "user-1", pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Orders, 2)
	assert.NotEqual(t, first.Orders[0].ID, second.Orders[0].ID)

	third, err := svc.List(context.Background(), "user-1", pagination.Params{Limit: 2, Cursor: second.NextCursor})
	require.NoError(t, err)
	require.Len(t, third.Orders, 1)
	assert.Empty(t, third.NextCursor)
}
