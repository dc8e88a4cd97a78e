package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
)

type stubRules struct {
	rules map[string]*models.ShippingRule
}

func ruleKey(warehouseID uuid.UUID, category string) string {
	return warehouseID.String() + "/" + category
}

func (s *stubRules) FindRule(ctx context.Context, warehouseID uuid.UUID, category string) (*models.ShippingRule, error) {
	if rule, ok := s.rules[ruleKey(warehouseID, category)]; ok {
		return rule, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func halfKgUnits() WeightFn {
	return UnitWeightFn(decimal.NewFromFloat(0.5))
}

func TestCostUsesRuleWhenPresent(t *testing.T) {
	warehouseID := uuid.New()
	rules := &stubRules{rules: map[string]*models.ShippingRule{
		ruleKey(warehouseID, "electronics"): {
			StandardBaseCost:     decimal.NewFromInt(40),
			StandardPerKgCost:    decimal.NewFromInt(10),
			StandardEstimateDays: 4,
			ExpressBaseCost:      decimal.NewFromInt(120),
			ExpressPerKgCost:     decimal.NewFromInt(20),
			ExpressEstimateDays:  2,
		},
	}}
	calc, err := NewCalculator(rules, halfKgUnits())
	if err != nil {
		t.Fatalf("NewCalculator returned error: %v", err)
	}

	// 4 units at 0.5kg = 2kg; 40 + 10*2 = 60; zone 1 keeps 4 days.
	estimate, err := calc.Cost(context.Background(), warehouseID, uuid.New(), "electronics", 1, enums.ShippingModeStandard, 4)
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if !estimate.Cost.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected cost 60, got %s", estimate.Cost)
	}
	if estimate.EstimatedDays != 4 {
		t.Fatalf("expected 4 days, got %d", estimate.EstimatedDays)
	}
}

func TestCostFallsBackToDefaultsWithoutRule(t *testing.T) {
	calc, err := NewCalculator(&stubRules{}, halfKgUnits())
	if err != nil {
		t.Fatalf("NewCalculator returned error: %v", err)
	}

	standard, err := calc.Cost(context.Background(), uuid.New(), uuid.New(), "unknown", 1, enums.ShippingModeStandard, 2)
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if !standard.Cost.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected default standard base 50, got %s", standard.Cost)
	}
	if standard.EstimatedDays != 5 {
		t.Fatalf("expected default 5 days, got %d", standard.EstimatedDays)
	}

	express, err := calc.Cost(context.Background(), uuid.New(), uuid.New(), "unknown", 1, enums.ShippingModeExpress, 2)
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if !express.Cost.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected default express base 150, got %s", express.Cost)
	}
	if express.EstimatedDays != 2 {
		t.Fatalf("expected default 2 days, got %d", express.EstimatedDays)
	}
}

func TestCostScalesDaysByZone(t *testing.T) {
	warehouseID := uuid.New()
	rules := &stubRules{rules: map[string]*models.ShippingRule{
		ruleKey(warehouseID, "books"): {
			StandardBaseCost:     decimal.NewFromInt(30),
			StandardPerKgCost:    decimal.Zero,
			StandardEstimateDays: 3,
		},
	}}
	calc, err := NewCalculator(rules, halfKgUnits())
	if err != nil {
		t.Fatalf("NewCalculator returned error: %v", err)
	}

	cases := []struct {
		zone     int
		wantDays int
	}{
		{1, 3},
		{2, 5}, // ceil(3 * 1.4) = ceil(4.2)
		{3, 6},
	}
	for _, tc := range cases {
		estimate, err := calc.Cost(context.Background(), warehouseID, uuid.New(), "books", tc.zone, enums.ShippingModeStandard, 1)
		if err != nil {
			t.Fatalf("Cost returned error for zone %d: %v", tc.zone, err)
		}
		if estimate.EstimatedDays != tc.wantDays {
			t.Fatalf("zone %d: expected %d days, got %d", tc.zone, tc.wantDays, estimate.EstimatedDays)
		}
	}
}

func TestCostRejectsInvalidInput(t *testing.T) {
	calc, err := NewCalculator(&stubRules{}, halfKgUnits())
	if err != nil {
		t.Fatalf("NewCalculator returned error: %v", err)
	}

	if _, err := calc.Cost(context.Background(), uuid.New(), uuid.New(), "books", 1, enums.ShippingMode("drone"), 1); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad mode, got %v", err)
	}
	if _, err := calc.Cost(context.Background(), uuid.New(), uuid.New(), "books", 1, enums.ShippingModeStandard, 0); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
}
