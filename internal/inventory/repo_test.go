package inventory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:inventory_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite allows one writer; a single connection keeps concurrent test
	// writes queued instead of failing with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	schema := `
CREATE TABLE IF NOT EXISTS inventory_records (
  product_id TEXT NOT NULL,
  warehouse_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  reserved_quantity INTEGER NOT NULL DEFAULT 0,
  deleted_at DATETIME,
  updated_at DATETIME,
  PRIMARY KEY (product_id, warehouse_id)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedRecord(t *testing.T, db *gorm.DB, productID, warehouseID uuid.UUID, quantity, reserved int) {
	t.Helper()
	rec := models.InventoryRecord{
		ProductID:        productID,
		WarehouseID:      warehouseID,
		Quantity:         quantity,
		ReservedQuantity: reserved,
	}
	require.NoError(t, db.Create(&rec).Error)
}

func fetchReserved(t *testing.T, db *gorm.DB, productID, warehouseID uuid.UUID) int {
	t.Helper()
	var rec models.InventoryRecord
	require.NoError(t, db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&rec).Error)
	return rec.ReservedQuantity
}

func TestReserveHappyPath(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID, warehouseID := uuid.New(), uuid.New()
	seedRecord(t, db, productID, warehouseID, 10, 2)

	require.NoError(t, repo.Reserve(ctx, productID, warehouseID, 5))
	assert.Equal(t, 7, fetchReserved(t, db, productID, warehouseID))
}

func TestReserveRejectsWhenInsufficient(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID, warehouseID := uuid.New(), uuid.New()
	seedRecord(t, db, productID, warehouseID, 10, 8)

	err := repo.Reserve(ctx, productID, warehouseID, 3)
	assert.ErrorIs(t, err, ErrReservationConflict)
	assert.Equal(t, 8, fetchReserved(t, db, productID, warehouseID))
}

func TestReserveRejectsUnknownRow(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	err := repo.Reserve(context.Background(), uuid.New(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrReservationConflict)
}

func TestReserveIgnoresSoftDeletedRows(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID, warehouseID := uuid.New(), uuid.New()
	seedRecord(t, db, productID, warehouseID, 10, 0)
	require.NoError(t, db.Exec(
		"UPDATE inventory_records SET deleted_at = CURRENT_TIMESTAMP WHERE product_id = ?", productID,
	).Error)

	err := repo.Reserve(ctx, productID, warehouseID, 1)
	assert.ErrorIs(t, err, ErrReservationConflict)
}

func TestReleaseFloorsAtZero(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID, warehouseID := uuid.New(), uuid.New()
	seedRecord(t, db, productID, warehouseID, 10, 3)

	require.NoError(t, repo.Release(ctx, productID, warehouseID, 5))
	assert.Equal(t, 0, fetchReserved(t, db, productID, warehouseID))
}

func TestReleaseDecrements(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID, warehouseID := uuid.New(), uuid.New()
	seedRecord(t, db, productID, warehouseID, 10, 6)

	require.NoError(t, repo.Release(ctx, productID, warehouseID, 4))
	assert.Equal(t, 2, fetchReserved(t, db, productID, warehouseID))
}

// TestNoOversellUnderConcurrency hammers one row with concurrent
// reservations; successful reservations must never exceed quantity.
func TestNoOversellUnderConcurrency(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID, warehouseID := uuid.New(), uuid.New()
	seedRecord(t, db, productID, warehouseID, 10, 0)

	const attempts = 40
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Reserve(ctx, productID, warehouseID, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, fetchReserved(t, db, productID, warehouseID))
}

func TestListAvailability(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	whA, whB := uuid.New(), uuid.New()
	seedRecord(t, db, productID, whA, 10, 2)
	seedRecord(t, db, productID, whB, 5, 5)
	seedRecord(t, db, uuid.New(), whA, 99, 0)

	records, err := repo.ListAvailability(ctx, productID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byWarehouse := map[uuid.UUID]int{}
	for _, rec := range records {
		byWarehouse[rec.WarehouseID] = rec.Available()
	}
	assert.Equal(t, 8, byWarehouse[whA])
	assert.Equal(t, 0, byWarehouse[whB])
}
