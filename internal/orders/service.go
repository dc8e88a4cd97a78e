package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/internal/inventory"
	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/metrics"
	"github.com/arjunmehra/shopkart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type refunder interface {
	RefundOrder(ctx context.Context, requestID, gatewayOrderID string) error
}

type decryptor interface {
	Decrypt(encoded string) (string, error)
}

// OrderPage is one page of a user's order history.
type OrderPage struct {
	Orders     []models.Order
	NextCursor string
}

// Service exposes order reads and the cancellation workflow.
type Service interface {
	Get(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID string, params pagination.Params) (*OrderPage, error)
	Cancel(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	tx        txRunner
	repo      Repository
	inventory inventory.Repository
	gateway   refunder
	crypt     decryptor
	saga      *metrics.SagaMetrics
	logg      *logger.Logger
}

// NewService builds the orders service.
func NewService(
	tx txRunner,
	repo Repository,
	inventoryRepo inventory.Repository,
	gateway refunder,
	crypt decryptor,
	saga *metrics.SagaMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if crypt == nil {
		return nil, fmt.Errorf("decryptor required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        tx,
		repo:      repo,
		inventory: inventoryRepo,
		gateway:   gateway,
		crypt:     crypt,
		saga:      saga,
		logg:      logg,
	}, nil
}

func (s *service) Get(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.findOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) List(ctx context.Context, userID string, params pagination.Params) (*OrderPage, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	rows, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &OrderPage{Orders: rows}
	if len(rows) > limit {
		page.Orders = rows[:limit]
		last := page.Orders[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// Cancel releases every reservation frozen into the order's line items and
// transitions the order to cancelled. Refunds are best-effort: a refund
// failure is logged and reflected on the payment row but never blocks the
// inventory release, which is reconciled out-of-band.
func (s *service) Cancel(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.findOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, orderID.String())

	// Cancelling twice is a no-op, not an error; the caller gets the same
	// terminal state either way.
	if order.Status == enums.OrderStatusCancelled {
		return order, nil
	}
	if !order.Status.CanCancel() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := s.inventory.WithTx(tx)
		ordRepo := s.repo.WithTx(tx)

		for _, item := range order.LineItems {
			if err := invRepo.Release(ctx, item.ProductID, item.WarehouseID, item.Quantity); err != nil {
				return fmt.Errorf("release %d of product %s at warehouse %s: %w",
					item.Quantity, item.ProductID, item.WarehouseID, err)
			}
		}
		return ordRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
	}
	s.saga.IncCompensation("release_reservations")

	if refundErr := s.refundIfCaptured(ctx, order); refundErr != nil {
		s.logg.Error(ctx, "refund failed during cancellation", refundErr)
	}

	order.Status = enums.OrderStatusCancelled
	return order, nil
}

func (s *service) findOwnedOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	// Treat another user's order as unknown rather than leaking existence.
	if userID != "" && order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// refundIfCaptured refunds the gateway payment when one was captured.
// Errors are accumulated so a status-update failure does not mask the
// refund failure itself.
func (s *service) refundIfCaptured(ctx context.Context, order *models.Order) error {
	if order.PaymentMethod != enums.PaymentMethodGateway {
		return nil
	}

	payment, err := s.repo.FindPaymentByOrder(ctx, order.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load payment: %w", err)
	}
	if payment.Status != enums.PaymentStatusCompleted {
		return nil
	}

	gatewayOrderID, err := s.crypt.Decrypt(payment.GatewayOrderIDEnc)
	if err != nil {
		return fmt.Errorf("decrypt gateway order id: %w", err)
	}

	refundKey := fmt.Sprintf("refund-%s", order.ID)
	if refundErr := s.gateway.RefundOrder(ctx, refundKey, gatewayOrderID); refundErr != nil {
		s.saga.IncStepFailure("refund")
		combined := fmt.Errorf("refund gateway order: %w", refundErr)
		if updErr := s.repo.UpdatePaymentStatus(ctx, payment.ID, enums.PaymentStatusRefundFailed); updErr != nil {
			combined = multierr.Append(combined, fmt.Errorf("mark payment refund_failed: %w", updErr))
		}
		return combined
	}

	s.saga.IncCompensation("refund")
	if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, enums.PaymentStatusRefunded); err != nil {
		return fmt.Errorf("mark payment refunded: %w", err)
	}
	return nil
}
