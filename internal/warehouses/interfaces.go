package warehouses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
)

// Repository provides read access to the warehouse directory and its
// shipping rules. Both tables are admin-maintained and read-only here.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context) ([]models.Warehouse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	FindRule(ctx context.Context, warehouseID uuid.UUID, category string) (*models.ShippingRule, error)
}
