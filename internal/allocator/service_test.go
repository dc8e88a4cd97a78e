package allocator

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

type stubWarehouses struct {
	warehouses []models.Warehouse
}

func (s *stubWarehouses) ListActive(ctx context.Context) ([]models.Warehouse, error) {
	return s.warehouses, nil
}

type stubInventory struct {
	records []models.InventoryRecord
}

func (s *stubInventory) ListAvailability(ctx context.Context, productID uuid.UUID) ([]models.InventoryRecord, error) {
	var out []models.InventoryRecord
	for _, rec := range s.records {
		if rec.ProductID == productID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func warehouse(name, pincode, state string, covered ...string) models.Warehouse {
	return models.Warehouse{
		ID:              uuid.New(),
		Name:            name,
		Pincode:         pincode,
		City:            name,
		State:           state,
		IsActive:        true,
		CoveredPincodes: covered,
	}
}

func record(productID uuid.UUID, wh models.Warehouse, quantity, reserved int) models.InventoryRecord {
	return models.InventoryRecord{
		ProductID:        productID,
		WarehouseID:      wh.ID,
		Quantity:         quantity,
		ReservedQuantity: reserved,
	}
}

func newTestService(t *testing.T, warehouses []models.Warehouse, records []models.InventoryRecord) Service {
	t.Helper()
	svc, err := NewService(
		&stubWarehouses{warehouses: warehouses},
		&stubInventory{records: records},
		nil,
		testLogger(),
	)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func mumbaiAddress() types.Address {
	return types.Address{
		Name:    "Test Customer",
		Line1:   "1 Marine Drive",
		City:    "Mumbai",
		State:   "Maharashtra",
		Pincode: "400050",
		Country: "India",
		Phone:   "9999999999",
	}
}

func TestAllocatePrefersCloserZoneWhenBothSufficient(t *testing.T) {
	productID := uuid.New()
	near := warehouse("Mumbai Hub", "400001", "Maharashtra")
	far := warehouse("Delhi Hub", "110001", "Delhi")

	svc := newTestService(t,
		[]models.Warehouse{near, far},
		[]models.InventoryRecord{
			record(productID, near, 10, 0),
			record(productID, far, 100, 0),
		})

	alloc, err := svc.Allocate(context.Background(), productID, 5, mumbaiAddress())
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if alloc.WarehouseID != near.ID {
		t.Fatalf("expected zone-1 warehouse %s, got %s", near.Name, alloc.Warehouse.Name)
	}
	if alloc.Zone != 1 {
		t.Fatalf("expected zone 1, got %d", alloc.Zone)
	}
}

func TestAllocateSufficientBucketBeatsCloserPartial(t *testing.T) {
	productID := uuid.New()
	near := warehouse("Mumbai Hub", "400001", "Maharashtra")
	regional := warehouse("Pune Hub", "411001", "Maharashtra")

	svc := newTestService(t,
		[]models.Warehouse{near, regional},
		[]models.InventoryRecord{
			record(productID, near, 3, 0),
			record(productID, regional, 50, 0),
		})

	alloc, err := svc.Allocate(context.Background(), productID, 10, mumbaiAddress())
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if alloc.WarehouseID != regional.ID {
		t.Fatalf("expected sufficient warehouse %s, got %s", regional.Name, alloc.Warehouse.Name)
	}
}

func TestAllocatePartialFallbackUsesZoneOrder(t *testing.T) {
	productID := uuid.New()
	near := warehouse("Mumbai Hub", "400001", "Maharashtra")
	far := warehouse("Delhi Hub", "110001", "Delhi")

	svc := newTestService(t,
		[]models.Warehouse{near, far},
		[]models.InventoryRecord{
			record(productID, near, 4, 0),
			record(productID, far, 4, 0),
		})

	// Neither warehouse can serve 6 alone, total 8 passes the precheck.
	alloc, err := svc.Allocate(context.Background(), productID, 6, mumbaiAddress())
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if alloc.WarehouseID != near.ID {
		t.Fatalf("expected closest partial warehouse %s, got %s", near.Name, alloc.Warehouse.Name)
	}
}

func TestAllocateCoveragePassWinsOverState(t *testing.T) {
	productID := uuid.New()
	covering := warehouse("Thane Hub", "421001", "Maharashtra", "400050")
	inState := warehouse("Mumbai Hub", "400001", "Maharashtra")

	svc := newTestService(t,
		[]models.Warehouse{covering, inState},
		[]models.InventoryRecord{
			record(productID, covering, 20, 0),
			record(productID, inState, 20, 0),
		})

	alloc, err := svc.Allocate(context.Background(), productID, 5, mumbaiAddress())
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if alloc.WarehouseID != covering.ID {
		t.Fatalf("expected coverage warehouse %s, got %s", covering.Name, alloc.Warehouse.Name)
	}
}

func TestAllocateInsufficientStock(t *testing.T) {
	productID := uuid.New()
	wh := warehouse("Mumbai Hub", "400001", "Maharashtra")

	svc := newTestService(t,
		[]models.Warehouse{wh},
		[]models.InventoryRecord{record(productID, wh, 5, 3)})

	_, err := svc.Allocate(context.Background(), productID, 3, mumbaiAddress())
	if !pkgerrors.Is(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
}

func TestAllocateMonotoneFailure(t *testing.T) {
	productID := uuid.New()
	wh := warehouse("Mumbai Hub", "400001", "Maharashtra")

	// Shrinking availability while holding quantity constant must never
	// turn a failure into a success.
	failed := false
	for available := 10; available >= 0; available-- {
		svc := newTestService(t,
			[]models.Warehouse{wh},
			[]models.InventoryRecord{record(productID, wh, available, 0)})

		_, err := svc.Allocate(context.Background(), productID, 5, mumbaiAddress())
		if err != nil {
			failed = true
		} else if failed {
			t.Fatalf("allocation succeeded at available=%d after failing at higher availability", available)
		}
	}
	if !failed {
		t.Fatalf("expected allocation to fail once availability dropped below 5")
	}
}

func TestAllocateIgnoresReservedStock(t *testing.T) {
	productID := uuid.New()
	wh := warehouse("Mumbai Hub", "400001", "Maharashtra")

	svc := newTestService(t,
		[]models.Warehouse{wh},
		[]models.InventoryRecord{record(productID, wh, 10, 10)})

	_, err := svc.Allocate(context.Background(), productID, 1, mumbaiAddress())
	if !pkgerrors.Is(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
}

func TestAllocateRejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestService(t, nil, nil)
	_, err := svc.Allocate(context.Background(), uuid.New(), 0, mumbaiAddress())
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAllocateStatePassPrefersInStateWarehouse(t *testing.T) {
	productID := uuid.New()
	sameState := warehouse("Nagpur Hub", "440001", "Maharashtra")
	otherState := warehouse("Chennai Hub", "600001", "Tamil Nadu")

	addr := mumbaiAddress()
	addr.Pincode = "999999" // no coverage match, no prefix match

	svc := newTestService(t,
		[]models.Warehouse{otherState, sameState},
		[]models.InventoryRecord{
			record(productID, sameState, 10, 0),
			record(productID, otherState, 10, 0),
		})

	alloc, err := svc.Allocate(context.Background(), productID, 5, addr)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if alloc.WarehouseID != sameState.ID {
		t.Fatalf("expected same-state warehouse %s, got %s", sameState.Name, alloc.Warehouse.Name)
	}
}
