package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	"github.com/arjunmehra/shopkart-backend/pkg/pagination"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

// Repository persists orders, their line items, and payment rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, params pagination.Params) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, paymentID uuid.UUID, status enums.PaymentStatus) error
	UpdatePaymentCapture(ctx context.Context, paymentID uuid.UUID, status enums.PaymentStatus, payload types.JSONMap) error
}
