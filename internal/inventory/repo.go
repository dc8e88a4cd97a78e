package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListAvailability(ctx context.Context, productID uuid.UUID) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Reserve increments reserved_quantity by quantity in a single conditional
// UPDATE. The condition re-checks availability at write time, so two
// concurrent checkouts racing for the last units cannot both succeed; the
// loser sees zero affected rows and gets ErrReservationConflict.
func (r *repository) Reserve(ctx context.Context, productID, warehouseID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE inventory_records
		SET reserved_quantity = reserved_quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ?
		  AND warehouse_id = ?
		  AND deleted_at IS NULL
		  AND reserved_quantity + ? <= quantity`,
		quantity, productID, warehouseID, quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReservationConflict
	}
	return nil
}

// Release decrements reserved_quantity by quantity, floored at zero so a
// duplicate release cannot drive the row negative.
func (r *repository) Release(ctx context.Context, productID, warehouseID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	return r.db.WithContext(ctx).Exec(`
		UPDATE inventory_records
		SET reserved_quantity = CASE
			WHEN reserved_quantity >= ? THEN reserved_quantity - ?
			ELSE 0
		END,
		updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ?
		  AND warehouse_id = ?
		  AND deleted_at IS NULL`,
		quantity, quantity, productID, warehouseID).Error
}
