package shipping

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/internal/zone"
	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
)

// Default tier pricing used when no (warehouse, category) rule exists, and
// for contexts with no warehouse at all such as pre-checkout browsing.
var (
	defaultStandardBase = decimal.NewFromInt(50)
	defaultExpressBase  = decimal.NewFromInt(150)
)

const (
	defaultStandardDays = 5
	defaultExpressDays  = 2
)

// WeightFn estimates the shipment weight in kg for a product and quantity.
// The default model is a flat per-unit constant; the catalog can supply a
// product-specific implementation.
type WeightFn func(productID uuid.UUID, quantity int) decimal.Decimal

// UnitWeightFn builds the flat per-unit weight model.
func UnitWeightFn(unitWeightKg decimal.Decimal) WeightFn {
	return func(_ uuid.UUID, quantity int) decimal.Decimal {
		if quantity < 0 {
			quantity = 0
		}
		return unitWeightKg.Mul(decimal.NewFromInt(int64(quantity)))
	}
}

// Estimate is the priced shipping decision for one line item.
type Estimate struct {
	Mode          enums.ShippingMode
	Cost          decimal.Decimal
	EstimatedDays int
}

// Calculator prices a shipment from a chosen warehouse.
type Calculator interface {
	Cost(ctx context.Context, warehouseID uuid.UUID, productID uuid.UUID, category string, shipZone int, mode enums.ShippingMode, quantity int) (*Estimate, error)
}

type ruleFinder interface {
	FindRule(ctx context.Context, warehouseID uuid.UUID, category string) (*models.ShippingRule, error)
}

type calculator struct {
	rules  ruleFinder
	weight WeightFn
}

// NewCalculator wires the calculator against the shipping rule directory.
func NewCalculator(rules ruleFinder, weight WeightFn) (Calculator, error) {
	if rules == nil {
		return nil, fmt.Errorf("rule finder is required")
	}
	if weight == nil {
		return nil, fmt.Errorf("weight function is required")
	}
	return &calculator{rules: rules, weight: weight}, nil
}

func (c *calculator) Cost(ctx context.Context, warehouseID uuid.UUID, productID uuid.UUID, category string, shipZone int, mode enums.ShippingMode, quantity int) (*Estimate, error) {
	if !mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown shipping mode %q", mode))
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	base, perKg, baseDays := defaultTier(mode)
	if warehouseID != uuid.Nil {
		rule, err := c.rules.FindRule(ctx, warehouseID, category)
		switch {
		case err == nil:
			base, perKg, baseDays = ruleTier(rule, mode)
		case errors.Is(err, gorm.ErrRecordNotFound):
			// keep defaults
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up shipping rule")
		}
	}

	cost := base.Add(perKg.Mul(c.weight(productID, quantity)))
	return &Estimate{
		Mode:          mode,
		Cost:          cost.Round(2),
		EstimatedDays: scaleDaysForZone(baseDays, shipZone),
	}, nil
}

func defaultTier(mode enums.ShippingMode) (base, perKg decimal.Decimal, days int) {
	if mode == enums.ShippingModeExpress {
		return defaultExpressBase, decimal.Zero, defaultExpressDays
	}
	return defaultStandardBase, decimal.Zero, defaultStandardDays
}

func ruleTier(rule *models.ShippingRule, mode enums.ShippingMode) (base, perKg decimal.Decimal, days int) {
	if mode == enums.ShippingModeExpress {
		return rule.ExpressBaseCost, rule.ExpressPerKgCost, rule.ExpressEstimateDays
	}
	return rule.StandardBaseCost, rule.StandardPerKgCost, rule.StandardEstimateDays
}

// scaleDaysForZone stretches the rule's zone-1 estimate for farther zones.
// The factors (1.0, 1.4, 2.0) are a pricing-team provisional model, not
// carrier data; revisit once real transit numbers exist.
func scaleDaysForZone(baseDays, shipZone int) int {
	var factor float64
	switch shipZone {
	case zone.Local:
		factor = 1.0
	case zone.Regional:
		factor = 1.4
	default:
		factor = 2.0
	}
	return int(math.Ceil(float64(baseDays) * factor))
}
