package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
)

// ErrAttemptStateChanged signals that a conditional state transition found
// the attempt in a different state than expected.
var ErrAttemptStateChanged = errors.New("checkout attempt state changed")

// AttemptRepository persists checkout attempts, the durable record of a
// saga run. Gateway checkouts span two HTTP calls, so reserved allocations
// must survive between them.
type AttemptRepository interface {
	WithTx(tx *gorm.DB) AttemptRepository
	Create(ctx context.Context, attempt *models.CheckoutAttempt) (*models.CheckoutAttempt, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutAttempt, error)
	UpdateState(ctx context.Context, id uuid.UUID, state enums.CheckoutState) error
	TransitionState(ctx context.Context, id uuid.UUID, from, to enums.CheckoutState) error
	ListExpired(ctx context.Context, now time.Time, limit int) ([]models.CheckoutAttempt, error)
}
