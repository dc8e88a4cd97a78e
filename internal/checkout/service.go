package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/internal/clients"
	"github.com/arjunmehra/shopkart-backend/internal/inventory"
	"github.com/arjunmehra/shopkart-backend/internal/orders"
	"github.com/arjunmehra/shopkart-backend/internal/shipping"
	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/metrics"
	"github.com/arjunmehra/shopkart-backend/pkg/paypal"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

const (
	stepReserveStock  = "reserve_stock"
	stepCreatePayment = "create_payment"
	stepCapture       = "capture_payment"
	stepPersistOrder  = "persist_order"
	stepClearCart     = "clear_cart"
)

// checkoutLockTTL bounds how long a crashed request can block a user's next
// checkout.
const checkoutLockTTL = 30 * time.Second

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gatewayClient interface {
	CreateOrder(ctx context.Context, requestID string, amount decimal.Decimal, currency string) (*paypal.CreateOrderResult, error)
	CaptureOrder(ctx context.Context, requestID, gatewayOrderID string) (*paypal.CaptureResult, error)
}

type cryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encoded string) (string, error)
}

type checkoutLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutLockKey(userID string) string
}

// Service runs the checkout saga: quote, create (reserve + pay), capture.
type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error)
	CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*CreateOrderResult, error)
	CapturePayment(ctx context.Context, orderID uuid.UUID, gatewayOrderID string) (*CaptureResult, error)
}

// ServiceParams wires the orchestrator's collaborators.
type ServiceParams struct {
	Tx         txRunner
	Attempts   AttemptRepository
	Orders     orders.Repository
	Inventory  inventory.Repository
	Quoter     shipping.Quoter
	Cart       clients.CartClient
	Catalog    clients.CatalogClient
	Pricing    clients.PricingClient
	Gateway    gatewayClient
	Crypt      cryptor
	Locks      checkoutLocker // optional; nil disables the per-user checkout lock
	Saga       *metrics.SagaMetrics
	Logger     *logger.Logger
	Currency   string          // gateway settlement currency
	FXRate     decimal.Decimal // INR -> gateway currency
	AttemptTTL time.Duration
}

type service struct {
	p ServiceParams
}

// NewService builds the checkout orchestrator.
func NewService(p ServiceParams) (Service, error) {
	switch {
	case p.Tx == nil:
		return nil, fmt.Errorf("tx runner required")
	case p.Attempts == nil:
		return nil, fmt.Errorf("attempt repository required")
	case p.Orders == nil:
		return nil, fmt.Errorf("orders repository required")
	case p.Inventory == nil:
		return nil, fmt.Errorf("inventory repository required")
	case p.Quoter == nil:
		return nil, fmt.Errorf("quoter required")
	case p.Cart == nil:
		return nil, fmt.Errorf("cart client required")
	case p.Catalog == nil:
		return nil, fmt.Errorf("catalog client required")
	case p.Pricing == nil:
		return nil, fmt.Errorf("pricing client required")
	case p.Gateway == nil:
		return nil, fmt.Errorf("payment gateway required")
	case p.Crypt == nil:
		return nil, fmt.Errorf("encryptor required")
	case p.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.FXRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("fx rate must be positive")
	}
	if p.AttemptTTL <= 0 {
		p.AttemptTTL = 30 * time.Minute
	}
	return &service{p: p}, nil
}

// Quote allocates and prices the requested items without reserving anything.
func (s *service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	if missing := req.Address.Validate(); missing != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("address field %s is required", missing))
	}

	requests := make([]shipping.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		mode := item.Mode
		if mode == "" {
			mode = enums.ShippingModeStandard
		}
		if !mode.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown shipping mode %q", mode))
		}

		product, err := s.p.Catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", item.ProductID))
			}
			return nil, err
		}
		requests = append(requests, shipping.ItemRequest{
			ProductID: item.ProductID,
			Category:  product.Category,
			Quantity:  item.Quantity,
			Mode:      mode,
		})
	}

	quotes, err := s.p.Quoter.QuoteItems(ctx, requests, req.Address)
	if err != nil {
		return nil, err
	}

	result := &QuoteResult{ShippingTotal: decimal.Zero}
	for _, item := range req.Items {
		quote := quotes[item.ProductID]
		result.Lines = append(result.Lines, QuoteLine{
			ProductID:     quote.ProductID,
			WarehouseID:   quote.WarehouseID,
			Zone:          quote.Zone,
			Mode:          quote.Mode,
			ShippingCost:  quote.Cost,
			EstimatedDays: quote.EstimatedDays,
		})
		result.ShippingTotal = result.ShippingTotal.Add(quote.Cost)
	}
	return result, nil
}

// CreateOrder runs the forward saga up to the commit point. COD orders
// commit in this call; gateway orders stop at payment_pending and finish in
// CapturePayment.
func (s *service) CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*CreateOrderResult, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if missing := input.Address.Validate(); missing != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("address field %s is required", missing))
	}
	if input.PaymentMethod != enums.PaymentMethodCOD && input.PaymentMethod != enums.PaymentMethodGateway {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}

	unlock, err := s.acquireCheckoutLock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cart, err := s.p.Cart.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	attemptID := uuid.New()
	ctx = s.p.Logger.WithOrderID(ctx, attemptID.String())

	lineItems, shippingTotal, itemsTotal, err := s.buildLineItems(ctx, cart, input)
	if err != nil {
		return nil, err
	}
	totalAmount := itemsTotal.Add(shippingTotal)

	// Reserve sequentially, all-or-nothing. Every successful reservation
	// pushes its own release so a later failure unwinds exactly what this
	// attempt committed.
	comp := newCompensator(s.p.Saga, s.p.Logger)
	for _, item := range lineItems {
		item := item
		if err := s.p.Inventory.Reserve(ctx, item.ProductID, item.WarehouseID, item.Quantity); err != nil {
			s.p.Saga.IncStepFailure(stepReserveStock)
			comp.run(ctx)
			if errors.Is(err, inventory.ErrReservationConflict) {
				s.p.Saga.IncReservationConflict()
				return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("stock for product %s was taken by a concurrent checkout", item.ProductID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserve stock")
		}
		comp.push(stepReserveStock, func(ctx context.Context) error {
			return s.p.Inventory.Release(ctx, item.ProductID, item.WarehouseID, item.Quantity)
		})
	}

	expiresAt := time.Now().Add(s.p.AttemptTTL)
	attempt := &models.CheckoutAttempt{
		ID:              attemptID,
		UserID:          userID,
		UserSnapshot:    types.JSONMap{"user_id": userID},
		AddressSnapshot: input.Address,
		LineItems:       lineItems,
		ShippingTotal:   shippingTotal,
		TotalAmount:     totalAmount,
		Currency:        "INR",
		PaymentMethod:   input.PaymentMethod,
		State:           enums.CheckoutStateStockReserved,
		ExpiresAt:       &expiresAt,
	}
	if _, err := s.p.Attempts.Create(ctx, attempt); err != nil {
		comp.run(ctx)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist checkout attempt")
	}

	if input.PaymentMethod == enums.PaymentMethodCOD {
		return s.finishCOD(ctx, userID, attempt, comp)
	}
	return s.startGatewayPayment(ctx, attempt, comp)
}

// finishCOD commits the order immediately: no payment row is written for
// cash on delivery.
func (s *service) finishCOD(ctx context.Context, userID string, attempt *models.CheckoutAttempt, comp *compensator) (*CreateOrderResult, error) {
	err := s.p.Tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.p.Orders.WithTx(tx).Create(ctx, orderFromAttempt(attempt)); err != nil {
			return err
		}
		return s.p.Attempts.WithTx(tx).UpdateState(ctx, attempt.ID, enums.CheckoutStateOrderPersisted)
	})
	if err != nil {
		s.p.Saga.IncStepFailure(stepPersistOrder)
		comp.run(ctx)
		s.markAttempt(ctx, attempt.ID, enums.CheckoutStateCompensated)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	s.clearCartAndComplete(ctx, userID, attempt.ID)
	return &CreateOrderResult{OrderID: attempt.ID, Status: enums.OrderStatusProcessing}, nil
}

// startGatewayPayment opens the gateway order and parks the saga in
// payment_pending until the client calls capture.
func (s *service) startGatewayPayment(ctx context.Context, attempt *models.CheckoutAttempt, comp *compensator) (*CreateOrderResult, error) {
	amount := s.toGatewayAmount(attempt.TotalAmount)

	created, err := s.p.Gateway.CreateOrder(ctx, attempt.ID.String(), amount, s.p.Currency)
	if err != nil {
		s.p.Saga.IncStepFailure(stepCreatePayment)
		comp.run(ctx)
		s.markAttempt(ctx, attempt.ID, enums.CheckoutStateCompensated)
		if pkgerrors.Is(err, pkgerrors.CodePaymentFailed) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "create gateway payment")
	}

	encrypted, err := s.p.Crypt.Encrypt(created.OrderID)
	if err != nil {
		s.p.Saga.IncStepFailure(stepCreatePayment)
		comp.run(ctx)
		s.markAttempt(ctx, attempt.ID, enums.CheckoutStateCompensated)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encrypt gateway order id")
	}

	payment := &models.Payment{
		ID:                uuid.New(),
		OrderID:           attempt.ID,
		GatewayOrderIDEnc: encrypted,
		Status:            enums.PaymentStatusPending,
		Amount:            amount,
		Currency:          s.p.Currency,
	}
	err = s.p.Tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.p.Orders.WithTx(tx).CreatePayment(ctx, payment); err != nil {
			return err
		}
		return s.p.Attempts.WithTx(tx).UpdateState(ctx, attempt.ID, enums.CheckoutStatePaymentPending)
	})
	if err != nil {
		s.p.Saga.IncStepFailure(stepCreatePayment)
		comp.run(ctx)
		s.markAttempt(ctx, attempt.ID, enums.CheckoutStateCompensated)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist pending payment")
	}

	return &CreateOrderResult{
		OrderID:      attempt.ID,
		Status:       enums.OrderStatusPending,
		ApprovalLink: created.ApproveLink,
	}, nil
}

// CapturePayment finishes a gateway checkout. A capture failure or timeout
// releases every reservation and leaves no order row.
func (s *service) CapturePayment(ctx context.Context, orderID uuid.UUID, gatewayOrderID string) (*CaptureResult, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	ctx = s.p.Logger.WithOrderID(ctx, orderID.String())

	attempt, err := s.p.Attempts.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout attempt not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load checkout attempt")
	}

	switch attempt.State {
	case enums.CheckoutStatePaymentPending:
		// proceed
	case enums.CheckoutStateOrderPersisted, enums.CheckoutStateCartCleared, enums.CheckoutStateCompleted:
		// Retried capture after success is a no-op.
		return &CaptureResult{OrderID: orderID, Status: enums.OrderStatusProcessing}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("attempt in state %q cannot be captured", attempt.State))
	}

	payment, err := s.p.Orders.FindPaymentByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pending payment")
	}
	storedGatewayID, err := s.p.Crypt.Decrypt(payment.GatewayOrderIDEnc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrypt gateway order id")
	}
	if gatewayOrderID != "" && gatewayOrderID != storedGatewayID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway order id does not match this order")
	}

	captured, err := s.p.Gateway.CaptureOrder(ctx, orderID.String(), storedGatewayID)
	if err != nil {
		// A timeout is a failure, never an optimistic success.
		s.p.Saga.IncStepFailure(stepCapture)
		s.compensateFailedCapture(ctx, attempt, payment)
		if pkgerrors.Is(err, pkgerrors.CodePaymentFailed) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "capture gateway payment")
	}

	err = s.p.Tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.p.Orders.WithTx(tx)
		if err := ordersRepo.UpdatePaymentCapture(ctx, payment.ID, enums.PaymentStatusCompleted, types.JSONMap(captured.RawPayload)); err != nil {
			return err
		}
		if _, err := ordersRepo.Create(ctx, orderFromAttempt(attempt)); err != nil {
			return err
		}
		// Conditional on payment_pending: the sweeper may have expired the
		// attempt between the state read above and this commit.
		return s.p.Attempts.WithTx(tx).TransitionState(ctx, attempt.ID, enums.CheckoutStatePaymentPending, enums.CheckoutStateOrderPersisted)
	})
	if errors.Is(err, ErrAttemptStateChanged) {
		// The sweeper already released this attempt's reservations and
		// marked it failed; persisting the order now would sell stock the
		// sweeper returned to the pool.
		s.p.Saga.IncStepFailure(stepPersistOrder)
		s.p.Saga.IncConsistencyViolation()
		s.p.Logger.Error(ctx, "attempt expired during capture, payment requires reconciliation", err)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout attempt expired before capture completed")
	}
	if err != nil {
		// Money is captured but the commit point failed. Release the
		// inventory and surface loudly; the payment is reconciled
		// out-of-band rather than silently retried here.
		s.p.Saga.IncStepFailure(stepPersistOrder)
		s.releaseAttemptReservations(ctx, attempt)
		s.markAttempt(ctx, attempt.ID, enums.CheckoutStateFailed)
		s.p.Logger.Error(ctx, "order persistence failed after capture, payment requires reconciliation", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order after capture")
	}

	s.clearCartAndComplete(ctx, attempt.UserID, attempt.ID)
	return &CaptureResult{OrderID: orderID, Status: enums.OrderStatusProcessing}, nil
}

// buildLineItems enriches cart items with catalog, pricing, allocation, and
// shipping data, producing the frozen snapshot stored on the attempt.
func (s *service) buildLineItems(ctx context.Context, cart *clients.CartSnapshot, input CreateOrderInput) ([]models.AttemptLineItem, decimal.Decimal, decimal.Decimal, error) {
	requests := make([]shipping.ItemRequest, 0, len(cart.Items))
	products := make(map[uuid.UUID]*clients.Product, len(cart.Items))
	prices := make(map[uuid.UUID]decimal.Decimal, len(cart.Items))

	for _, item := range cart.Items {
		if item.Quantity <= 0 {
			return nil, decimal.Zero, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cart quantity for product %s must be positive", item.ProductID))
		}
		mode, ok := input.ShippingModes[item.ProductID]
		if !ok {
			mode = enums.ShippingModeStandard
		}
		if !mode.IsValid() {
			return nil, decimal.Zero, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unknown shipping mode %q", mode))
		}

		product, err := s.p.Catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		price, err := s.p.Pricing.GetPrice(ctx, item.ProductID)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}

		products[item.ProductID] = product
		prices[item.ProductID] = price.Price
		requests = append(requests, shipping.ItemRequest{
			ProductID: item.ProductID,
			Category:  product.Category,
			Quantity:  item.Quantity,
			Mode:      mode,
		})
	}

	quotes, err := s.p.Quoter.QuoteItems(ctx, requests, input.Address)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}

	lineItems := make([]models.AttemptLineItem, 0, len(cart.Items))
	shippingTotal, itemsTotal := decimal.Zero, decimal.Zero
	for _, item := range cart.Items {
		quote := quotes[item.ProductID]
		product := products[item.ProductID]
		unitPrice := prices[item.ProductID]

		lineItems = append(lineItems, models.AttemptLineItem{
			ProductID:     item.ProductID,
			ProductName:   product.Name,
			Category:      product.Category,
			Quantity:      item.Quantity,
			UnitPrice:     unitPrice,
			WarehouseID:   quote.WarehouseID,
			Zone:          quote.Zone,
			ShippingMode:  quote.Mode,
			ShippingCost:  quote.Cost,
			EstimatedDays: quote.EstimatedDays,
		})
		shippingTotal = shippingTotal.Add(quote.Cost)
		itemsTotal = itemsTotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return lineItems, shippingTotal, itemsTotal, nil
}

// clearCartAndComplete is best-effort: a stale cart is a UX issue, not a
// consistency violation, so a failure never rolls the order back.
func (s *service) clearCartAndComplete(ctx context.Context, userID string, attemptID uuid.UUID) {
	if err := s.p.Cart.ClearCart(ctx, userID); err != nil {
		s.p.Saga.IncStepFailure(stepClearCart)
		s.p.Logger.Warn(s.p.Logger.WithSagaStep(ctx, stepClearCart), "cart clear failed, order stands")
	} else {
		s.markAttempt(ctx, attemptID, enums.CheckoutStateCartCleared)
	}
	s.markAttempt(ctx, attemptID, enums.CheckoutStateCompleted)
}

// compensateFailedCapture releases this attempt's reservations and marks
// the payment failed. No order row exists at this point.
func (s *service) compensateFailedCapture(ctx context.Context, attempt *models.CheckoutAttempt, payment *models.Payment) {
	s.releaseAttemptReservations(ctx, attempt)
	if err := s.p.Orders.UpdatePaymentStatus(ctx, payment.ID, enums.PaymentStatusFailed); err != nil {
		s.p.Logger.Error(ctx, "mark payment failed", err)
	}
	s.markAttempt(ctx, attempt.ID, enums.CheckoutStateCompensated)
}

func (s *service) releaseAttemptReservations(ctx context.Context, attempt *models.CheckoutAttempt) {
	for _, item := range attempt.LineItems {
		if err := s.p.Inventory.Release(ctx, item.ProductID, item.WarehouseID, item.Quantity); err != nil {
			s.p.Logger.Error(s.p.Logger.WithSagaStep(ctx, stepReserveStock), "release reservation failed", err)
			continue
		}
		s.p.Saga.IncCompensation(stepReserveStock)
	}
}

// acquireCheckoutLock keeps a user down to one checkout at a time. The
// idempotency middleware already absorbs same-request retries; the lock
// stops two distinct checkouts from racing the same cart. A redis outage
// degrades to no lock rather than blocking checkouts.
func (s *service) acquireCheckoutLock(ctx context.Context, userID string) (func(), error) {
	if s.p.Locks == nil {
		return func() {}, nil
	}
	key := s.p.Locks.CheckoutLockKey(userID)
	acquired, err := s.p.Locks.SetNX(ctx, key, "1", checkoutLockTTL)
	if err != nil {
		s.p.Logger.Warn(ctx, "checkout lock unavailable, proceeding unlocked")
		return func() {}, nil
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "another checkout is already in progress")
	}
	return func() {
		if err := s.p.Locks.Del(ctx, key); err != nil {
			s.p.Logger.Warn(ctx, "checkout lock release failed, ttl will expire it")
		}
	}, nil
}

func (s *service) markAttempt(ctx context.Context, attemptID uuid.UUID, state enums.CheckoutState) {
	if err := s.p.Attempts.UpdateState(ctx, attemptID, state); err != nil {
		s.p.Logger.Error(ctx, fmt.Sprintf("update attempt state to %s", state), err)
	}
}

func (s *service) toGatewayAmount(totalINR decimal.Decimal) decimal.Decimal {
	if s.p.Currency == "INR" {
		return totalINR.Round(2)
	}
	return totalINR.Mul(s.p.FXRate).Round(2)
}

// orderFromAttempt materializes the frozen attempt snapshot as the durable
// order row, sharing the attempt's id.
func orderFromAttempt(attempt *models.CheckoutAttempt) *models.Order {
	items := make([]models.OrderLineItem, 0, len(attempt.LineItems))
	for _, item := range attempt.LineItems {
		items = append(items, models.OrderLineItem{
			ID:            uuid.New(),
			OrderID:       attempt.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Category:      item.Category,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			WarehouseID:   item.WarehouseID,
			Zone:          item.Zone,
			ShippingMode:  item.ShippingMode,
			ShippingCost:  item.ShippingCost,
			EstimatedDays: item.EstimatedDays,
		})
	}
	return &models.Order{
		ID:              attempt.ID,
		UserID:          attempt.UserID,
		UserSnapshot:    attempt.UserSnapshot,
		AddressSnapshot: attempt.AddressSnapshot,
		ShippingTotal:   attempt.ShippingTotal,
		TotalAmount:     attempt.TotalAmount,
		Currency:        attempt.Currency,
		PaymentMethod:   attempt.PaymentMethod,
		Status:          enums.OrderStatusProcessing,
		LineItems:       items,
	}
}
