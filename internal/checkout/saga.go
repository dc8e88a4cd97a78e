package checkout

import (
	"context"

	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/metrics"
)

// compensation is the undo action for one committed saga step.
type compensation struct {
	step string
	undo func(ctx context.Context) error
}

// compensator collects undo actions as saga steps commit and runs them in
// strict reverse order when a later step fails. Undo failures are logged
// and counted but do not stop the remaining compensations.
type compensator struct {
	stack []compensation
	saga  *metrics.SagaMetrics
	logg  *logger.Logger
}

func newCompensator(saga *metrics.SagaMetrics, logg *logger.Logger) *compensator {
	return &compensator{saga: saga, logg: logg}
}

func (c *compensator) push(step string, undo func(ctx context.Context) error) {
	c.stack = append(c.stack, compensation{step: step, undo: undo})
}

func (c *compensator) run(ctx context.Context) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		entry := c.stack[i]
		if err := entry.undo(ctx); err != nil {
			c.logg.Error(c.logg.WithSagaStep(ctx, entry.step), "compensation failed", err)
			continue
		}
		c.saga.IncCompensation(entry.step)
	}
	c.stack = nil
}
