package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arjunmehra/shopkart-backend/internal/inventory"
	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/metrics"
)

const sweeperJobName = "attempt_sweeper"

// Sweeper reclaims stock held by checkout attempts that never reached the
// commit point. A buyer who abandons the gateway approval page would
// otherwise pin reservations forever.
type Sweeper struct {
	attempts  AttemptRepository
	inventory inventory.Repository
	jobs      *metrics.JobMetrics
	logg      *logger.Logger
	interval  time.Duration
	batchSize int
}

// NewSweeper builds the expiry worker.
func NewSweeper(attempts AttemptRepository, inv inventory.Repository, jobs *metrics.JobMetrics, logg *logger.Logger, interval time.Duration, batchSize int) (*Sweeper, error) {
	if attempts == nil {
		return nil, fmt.Errorf("attempt repository required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Sweeper{
		attempts:  attempts,
		inventory: inv,
		jobs:      jobs,
		logg:      logg,
		interval:  interval,
		batchSize: batchSize,
	}, nil
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logg.Info(ctx, fmt.Sprintf("attempt sweeper running every %s", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "attempt sweeper stopping")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logg.Error(ctx, "attempt sweep failed", err)
			}
		}
	}
}

// SweepOnce expires one batch of stale attempts and returns how many it
// reclaimed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	start := time.Now()

	expired, err := s.attempts.ListExpired(ctx, time.Now(), s.batchSize)
	if err != nil {
		s.jobs.IncFailure(sweeperJobName)
		return 0, fmt.Errorf("list expired attempts: %w", err)
	}

	swept := 0
	for _, attempt := range expired {
		if err := s.expireAttempt(ctx, &attempt); err != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, attempt.ID.String()), "expire attempt", err)
			continue
		}
		swept++
	}

	s.jobs.ObserveDuration(sweeperJobName, time.Since(start))
	s.jobs.IncSuccess(sweeperJobName)
	if swept > 0 {
		s.logg.Info(ctx, fmt.Sprintf("swept %d expired checkout attempts", swept))
	}
	return swept, nil
}

// expireAttempt releases every reservation the attempt froze and parks it
// in the failed state. The state update comes last: if the sweeper dies
// mid-release, the attempt stays listed and the next pass finishes the job.
// The update is conditional on the state this pass listed; a capture can
// commit between the listing and here, in which case the released holds are
// put back so the persisted order keeps its stock.
func (s *Sweeper) expireAttempt(ctx context.Context, attempt *models.CheckoutAttempt) error {
	for _, item := range attempt.LineItems {
		if err := s.inventory.Release(ctx, item.ProductID, item.WarehouseID, item.Quantity); err != nil {
			return fmt.Errorf("release %d units of %s: %w", item.Quantity, item.ProductID, err)
		}
	}

	err := s.attempts.TransitionState(ctx, attempt.ID, attempt.State, enums.CheckoutStateFailed)
	if errors.Is(err, ErrAttemptStateChanged) {
		s.restoreHolds(ctx, attempt)
		return nil
	}
	return err
}

func (s *Sweeper) restoreHolds(ctx context.Context, attempt *models.CheckoutAttempt) {
	for _, item := range attempt.LineItems {
		if err := s.inventory.Reserve(ctx, item.ProductID, item.WarehouseID, item.Quantity); err != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, attempt.ID.String()),
				"failed to restore hold released under a committed capture", err)
		}
	}
}
