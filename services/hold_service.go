package services

import (
	"fmt"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HoldService manages the short-lived claims that protect a checkout
// session between quote and payment. A racing hold cannot cause a double
// booking (the authoritative block happens at booking commit), only a
// spurious temporary block that TTL expiry or an explicit release
// corrects.
type HoldService struct {
	DB     *gorm.DB
	Avail  *AvailabilityService
	TTL    time.Duration
	Logger *zap.Logger
}

func NewHoldService(db *gorm.DB, avail *AvailabilityService, ttl time.Duration, logger *zap.Logger) *HoldService {
	return &HoldService{DB: db, Avail: avail, TTL: ttl, Logger: logger}
}

// CreateHoldInput carries everything needed to open a checkout claim.
// ReferenceID must equal the idempotency key the eventual booking will be
// submitted with.
type CreateHoldInput struct {
	PropertyID  uint
	StartDate   time.Time
	EndDate     time.Time
	ReferenceID string
	Reason      string
}

// Create pre-validates the range against the availability snapshot and
// inserts the hold. The check is advisory (non-locking): a hold that
// slips past a concurrent writer is harmless, because the booking commit
// re-checks everything under row locks.
func (s *HoldService) Create(in CreateHoldInput) (*models.Hold, error) {
	if err := utils.ValidateRange(in.StartDate, in.EndDate); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if in.ReferenceID == "" {
		return nil, validationErrorf("reference_id is required")
	}

	source, blocked, err := s.Avail.FirstBlocked(in.PropertyID, in.StartDate, in.EndDate, in.ReferenceID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, &ConflictError{Source: source}
	}

	hold := models.Hold{
		PropertyID:  in.PropertyID,
		StartDate:   utils.Midnight(in.StartDate),
		EndDate:     utils.Midnight(in.EndDate),
		ReferenceID: in.ReferenceID,
		Reason:      in.Reason,
		ExpiresAt:   time.Now().UTC().Add(s.TTL),
	}
	if err := s.DB.Create(&hold).Error; err != nil {
		return nil, fmt.Errorf("failed to create hold: %w", err)
	}

	s.Logger.Info("hold created",
		zap.Uint("hold_id", hold.ID),
		zap.String("reference_id", hold.ReferenceID),
		zap.Time("expires_at", hold.ExpiresAt))
	return &hold, nil
}

// Release deletes a hold by id, e.g. when a guest abandons checkout.
func (s *HoldService) Release(id uint) error {
	res := s.DB.Delete(&models.Hold{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to release hold: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "hold", ID: id}
	}
	return nil
}

// PurgeExpired physically deletes holds whose TTL has passed. Expired
// holds are already inert in every overlap check; this just keeps the
// table small. Invoked on a schedule.
func (s *HoldService) PurgeExpired() (int64, error) {
	res := s.DB.Where("expires_at <= ?", time.Now().UTC()).Delete(&models.Hold{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge holds: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.Logger.Info("purged expired holds", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}
