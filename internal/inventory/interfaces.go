package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
)

// ErrReservationConflict signals the conditional reservation update matched
// no row: either the row is gone or a concurrent checkout took the stock.
var ErrReservationConflict = errors.New("reservation conflict")

// Repository mutates and reads inventory rows. Reserve is the only guarded
// write in the platform; see its doc for the concurrency contract.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListAvailability(ctx context.Context, productID uuid.UUID) ([]models.InventoryRecord, error)
	Reserve(ctx context.Context, productID, warehouseID uuid.UUID, quantity int) error
	Release(ctx context.Context, productID, warehouseID uuid.UUID, quantity int) error
}
