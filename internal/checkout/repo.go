package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunmehra/shopkart-backend/pkg/db/models"
	"github.com/arjunmehra/shopkart-backend/pkg/enums"
)

type attemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository builds a checkout attempt repository bound to the
// provided DB.
func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) WithTx(tx *gorm.DB) AttemptRepository {
	if tx == nil {
		return r
	}
	return &attemptRepository{db: tx}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *models.CheckoutAttempt) (*models.CheckoutAttempt, error) {
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return nil, err
	}
	return attempt, nil
}

func (r *attemptRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutAttempt, error) {
	var attempt models.CheckoutAttempt
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) UpdateState(ctx context.Context, id uuid.UUID, state enums.CheckoutState) error {
	return r.db.WithContext(ctx).
		Model(&models.CheckoutAttempt{}).
		Where("id = ?", id).
		Update("state", state).Error
}

// TransitionState moves the attempt from one state to another in a single
// conditional UPDATE. Zero affected rows means another actor (a concurrent
// capture, the expiry sweeper) got there first.
func (r *attemptRepository) TransitionState(ctx context.Context, id uuid.UUID, from, to enums.CheckoutState) error {
	result := r.db.WithContext(ctx).
		Model(&models.CheckoutAttempt{}).
		Where("id = ? AND state = ?", id, from).
		Update("state", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttemptStateChanged
	}
	return nil
}

// ListExpired returns attempts still holding reservations past their
// deadline, oldest first, capped for batch processing.
func (r *attemptRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]models.CheckoutAttempt, error) {
	var attempts []models.CheckoutAttempt
	err := r.db.WithContext(ctx).
		Where("state IN ?", []enums.CheckoutState{enums.CheckoutStateStockReserved, enums.CheckoutStatePaymentPending}).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
