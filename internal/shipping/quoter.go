package shipping

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/arjunmehra/shopkart-backend/internal/allocator"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	"github.com/arjunmehra/shopkart-backend/pkg/types"
)

// ItemRequest is one line item to allocate and price.
type ItemRequest struct {
	ProductID uuid.UUID
	Category  string
	Quantity  int
	Mode      enums.ShippingMode
}

// ItemQuote is the allocation and price for one requested item.
type ItemQuote struct {
	ProductID     uuid.UUID
	WarehouseID   uuid.UUID
	Zone          int
	Mode          enums.ShippingMode
	Cost          decimal.Decimal
	EstimatedDays int
}

// Quoter allocates and prices a batch of items against one address.
type Quoter interface {
	QuoteItems(ctx context.Context, items []ItemRequest, address types.Address) (map[uuid.UUID]ItemQuote, error)
}

type quoter struct {
	allocator  allocator.Service
	calculator Calculator
}

// NewQuoter wires the batch quoter.
func NewQuoter(alloc allocator.Service, calc Calculator) (Quoter, error) {
	if alloc == nil {
		return nil, fmt.Errorf("allocator is required")
	}
	if calc == nil {
		return nil, fmt.Errorf("calculator is required")
	}
	return &quoter{allocator: alloc, calculator: calc}, nil
}

// QuoteItems fans out per item. Allocation and pricing are read-only, so the
// per-item work runs in parallel; the first error cancels the rest.
func (q *quoter) QuoteItems(ctx context.Context, items []ItemRequest, address types.Address) (map[uuid.UUID]ItemQuote, error) {
	if len(items) == 0 {
		return map[uuid.UUID]ItemQuote{}, nil
	}

	results := make([]ItemQuote, len(items))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		group.Go(func() error {
			alloc, err := q.allocator.Allocate(groupCtx, item.ProductID, item.Quantity, address)
			if err != nil {
				return err
			}
			estimate, err := q.calculator.Cost(groupCtx, alloc.WarehouseID, item.ProductID, item.Category, alloc.Zone, item.Mode, item.Quantity)
			if err != nil {
				return err
			}
			results[i] = ItemQuote{
				ProductID:     item.ProductID,
				WarehouseID:   alloc.WarehouseID,
				Zone:          alloc.Zone,
				Mode:          estimate.Mode,
				Cost:          estimate.Cost,
				EstimatedDays: estimate.EstimatedDays,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	quotes := make(map[uuid.UUID]ItemQuote, len(results))
	for _, quote := range results {
		quotes[quote.ProductID] = quote
	}
	return quotes, nil
}
