package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-backend/events"
	"rental-backend/models"
	"rental-backend/utils"

	mysql "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const mysqlErrDuplicateEntry = 1062

// BookingService is the single authoritative write path for bookings.
// Every blocking source is re-read under row-level locks inside one
// transaction, so for any two concurrent attempts with overlapping ranges
// on the same property at most one can succeed; the database's lock
// manager serializes them and the loser fails the re-check.
type BookingService struct {
	DB        *gorm.DB
	Pricing   *PricingService
	Publisher events.Publisher
	Topic     string
	Logger    *zap.Logger
}

func NewBookingService(db *gorm.DB, pricing *PricingService, pub events.Publisher, topic string, logger *zap.Logger) *BookingService {
	return &BookingService{DB: db, Pricing: pricing, Publisher: pub, Topic: topic, Logger: logger}
}

type GuestInput struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsPrimary bool   `json:"is_primary"`
}

type CreateBookingInput struct {
	PropertyID       uint
	StartDate        time.Time
	EndDate          time.Time
	Adults           int
	Children         int
	CouponCode       string
	IdempotencyKey   string
	PaymentReference string
	Guests           []GuestInput
}

func (in *CreateBookingInput) validate() error {
	if err := utils.ValidateRange(in.StartDate, in.EndDate); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if in.Adults <= 0 {
		return validationErrorf("at least one adult is required")
	}
	if in.Children < 0 {
		return validationErrorf("children count cannot be negative")
	}
	if strings.TrimSpace(in.IdempotencyKey) == "" {
		return validationErrorf("idempotency_key is required")
	}
	return nil
}

// Create commits a booking or fails with a ConflictError naming the
// blocking source. Retrying with the same idempotency key after a success
// is a no-op that returns the existing booking.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	start := utils.Midnight(in.StartDate)
	end := utils.Midnight(in.EndDate)
	key := strings.TrimSpace(in.IdempotencyKey)

	// Fast path for replays: the unique index below is the real guard,
	// this read just avoids opening a locking transaction for nothing.
	if existing, err := s.findByIdempotencyKey(key); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	quote, err := s.Pricing.Quote(in.PropertyID, start, end, in.Adults+in.Children, in.CouponCode)
	if err != nil {
		return nil, err
	}
	breakdown, err := json.Marshal(quote)
	if err != nil {
		return nil, fmt.Errorf("failed to encode price breakdown: %w", err)
	}

	reference, err := utils.GenerateReferenceCode("BK", 8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	status := models.BookingStatusPending
	if strings.TrimSpace(in.PaymentReference) != "" {
		status = models.BookingStatusConfirmed
	}

	booking := models.Booking{
		PropertyID:       in.PropertyID,
		Reference:        reference,
		Status:           status,
		StartDate:        start,
		EndDate:          end,
		Nights:           quote.Nights,
		Adults:           in.Adults,
		Children:         in.Children,
		Subtotal:         quote.Subtotal,
		CleaningFee:      quote.CleaningFee,
		ServiceFee:       quote.ServiceFee,
		Taxes:            quote.TotalTaxes,
		Discount:         quote.Discount,
		Total:            quote.Total,
		Currency:         quote.Currency,
		CouponCode:       quote.CouponCode,
		PriceBreakdown:   breakdown,
		PaymentReference: strings.TrimSpace(in.PaymentReference),
		IdempotencyKey:   &key,
	}

	now := time.Now().UTC()

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// Each check locks the rows it reads (FOR UPDATE), so a concurrent
		// attempt on an overlapping range blocks here until this
		// transaction ends, then sees whatever it committed.
		if err := s.checkAllSources(tx, in.PropertyID, start, end, key, now, 0); err != nil {
			return err
		}

		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		for i, g := range in.Guests {
			guest := models.Guest{
				BookingID: booking.ID,
				FullName:  strings.TrimSpace(g.FullName),
				Email:     strings.TrimSpace(g.Email),
				Phone:     strings.TrimSpace(g.Phone),
				IsPrimary: g.IsPrimary || (i == 0 && !anyPrimary(in.Guests)),
			}
			if guest.FullName == "" {
				continue
			}
			if err := tx.Create(&guest).Error; err != nil {
				return fmt.Errorf("failed to create guest: %w", err)
			}
		}

		// Self-release: the hold protecting this checkout session is keyed
		// by the same idempotency key.
		if err := tx.Where("property_id = ? AND reference_id = ?", in.PropertyID, key).
			Delete(&models.Hold{}).Error; err != nil {
			return fmt.Errorf("failed to release hold: %w", err)
		}

		return nil
	})

	if txErr != nil {
		if asDuplicateKey(txErr) {
			// Lost the race against our own retry: the key is taken, so
			// the first attempt won. Return its row.
			existing, err := s.findByIdempotencyKey(key)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return existing, nil
			}
		}
		var conflict *ConflictError
		if errors.As(txErr, &conflict) {
			s.Logger.Info("booking rejected",
				zap.String("idempotency_key", key),
				zap.String("blocked_by", conflict.Source))
			return nil, conflict
		}
		return nil, fmt.Errorf("booking transaction failed: %w", txErr)
	}

	s.Logger.Info("booking committed",
		zap.Uint("booking_id", booking.ID),
		zap.String("reference", booking.Reference),
		zap.String("status", booking.Status))

	if booking.Status == models.BookingStatusConfirmed {
		s.publish(ctx, events.BookingConfirmed{
			BookingID:  booking.ID,
			PropertyID: booking.PropertyID,
			Reference:  booking.Reference,
			StartDate:  booking.StartDate,
			EndDate:    booking.EndDate,
			Total:      booking.Total,
			Currency:   booking.Currency,
			At:         time.Now().UTC(),
		})
	}

	if err := s.DB.Preload("Guests").First(&booking, booking.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}
	return &booking, nil
}

func anyPrimary(guests []GuestInput) bool {
	for _, g := range guests {
		if g.IsPrimary {
			return true
		}
	}
	return false
}

// checkAllSources runs the four locked conflict checks in precedence
// order. excludeID skips one booking row (the pending row being
// confirmed); key self-excludes the caller's own hold.
func (s *BookingService) checkAllSources(tx *gorm.DB, propertyID uint, start, end time.Time, key string, now time.Time, excludeID uint) error {
	if err := s.checkLocalBookings(tx, propertyID, start, end, excludeID); err != nil {
		return err
	}
	if err := s.checkExternalReservations(tx, propertyID, start, end); err != nil {
		return err
	}
	if err := s.checkForeignHolds(tx, propertyID, start, end, key, now); err != nil {
		return err
	}
	return s.checkBlackouts(tx, propertyID, start, end)
}

func (s *BookingService) checkLocalBookings(tx *gorm.DB, propertyID uint, start, end time.Time, excludeID uint) error {
	var count int64
	err := tx.Model(&models.Booking{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("property_id = ? AND status = ? AND id <> ? AND start_date < ? AND end_date > ?",
			propertyID, models.BookingStatusConfirmed, excludeID, end, start).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check bookings: %w", err)
	}
	if count > 0 {
		return &ConflictError{Source: SourceLocalBooking}
	}
	return nil
}

func (s *BookingService) checkExternalReservations(tx *gorm.DB, propertyID uint, start, end time.Time) error {
	var count int64
	err := tx.Model(&models.ExternalReservation{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Joins("JOIN external_calendars ON external_calendars.id = external_reservations.calendar_id").
		Where("external_calendars.property_id = ? AND external_calendars.active = ?", propertyID, true).
		Where("external_reservations.is_blocking = ?", true).
		Where("external_reservations.start_date < ? AND external_reservations.end_date > ?", end, start).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check external reservations: %w", err)
	}
	if count > 0 {
		return &ConflictError{Source: SourceExternalReservation}
	}
	return nil
}

func (s *BookingService) checkForeignHolds(tx *gorm.DB, propertyID uint, start, end time.Time, key string, now time.Time) error {
	var count int64
	err := tx.Model(&models.Hold{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("property_id = ? AND expires_at > ? AND reference_id <> ? AND start_date < ? AND end_date > ?",
			propertyID, now, key, end, start).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check holds: %w", err)
	}
	if count > 0 {
		return &ConflictError{Source: SourceHold}
	}
	return nil
}

func (s *BookingService) checkBlackouts(tx *gorm.DB, propertyID uint, start, end time.Time) error {
	var count int64
	err := tx.Model(&models.BlackoutDate{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("property_id = ? AND start_date < ? AND end_date > ?", propertyID, end, start).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check blackout dates: %w", err)
	}
	if count > 0 {
		return &ConflictError{Source: SourceBlackout}
	}
	return nil
}

func (s *BookingService) findByIdempotencyKey(key string) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Preload("Guests").
		Where("idempotency_key = ?", key).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return &booking, nil
}

func asDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDuplicateEntry
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}

// ConfirmPayment finalizes the pending→confirmed transition once the
// payment collaborator reports success for an idempotency key. Confirming
// an already-confirmed booking is a no-op. Pending rows do not block
// other bookings and their hold is already released, so the confirmation
// must re-run every locked conflict check before it counts: a range
// taken while the payment was in flight fails here with a ConflictError.
func (s *BookingService) ConfirmPayment(ctx context.Context, idempotencyKey, paymentReference string) (*models.Booking, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		return nil, validationErrorf("idempotency_key is required")
	}
	if strings.TrimSpace(paymentReference) == "" {
		return nil, validationErrorf("payment_reference is required")
	}

	now := time.Now().UTC()

	var booking models.Booking
	alreadyConfirmed := false
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("idempotency_key = ?", key).
			First(&booking).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "booking", ID: key}
		}
		if err != nil {
			return fmt.Errorf("failed to load booking: %w", err)
		}

		switch booking.Status {
		case models.BookingStatusConfirmed:
			alreadyConfirmed = true
			return nil
		case models.BookingStatusCanceled:
			return validationErrorf("booking %s is canceled", booking.Reference)
		}

		if err := s.checkAllSources(tx, booking.PropertyID, booking.StartDate, booking.EndDate,
			key, now, booking.ID); err != nil {
			return err
		}

		booking.Status = models.BookingStatusConfirmed
		booking.PaymentReference = strings.TrimSpace(paymentReference)
		return tx.Model(&booking).Updates(map[string]interface{}{
			"status":            booking.Status,
			"payment_reference": booking.PaymentReference,
		}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	if !alreadyConfirmed {
		s.publish(ctx, events.BookingConfirmed{
			BookingID:  booking.ID,
			PropertyID: booking.PropertyID,
			Reference:  booking.Reference,
			StartDate:  booking.StartDate,
			EndDate:    booking.EndDate,
			Total:      booking.Total,
			Currency:   booking.Currency,
			At:         time.Now().UTC(),
		})
	}
	return &booking, nil
}

// Cancel moves a booking to canceled; canceled rows no longer participate
// in any overlap check, freeing the dates immediately.
func (s *BookingService) Cancel(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	alreadyCanceled := false
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "booking", ID: id}
		}
		if err != nil {
			return fmt.Errorf("failed to load booking: %w", err)
		}
		if booking.Status == models.BookingStatusCanceled {
			alreadyCanceled = true
			return nil
		}

		now := time.Now().UTC()
		booking.Status = models.BookingStatusCanceled
		booking.CanceledAt = &now
		return tx.Model(&booking).Updates(map[string]interface{}{
			"status":      booking.Status,
			"canceled_at": now,
		}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	if !alreadyCanceled {
		s.publish(ctx, events.BookingCanceled{
			BookingID:  booking.ID,
			PropertyID: booking.PropertyID,
			Reference:  booking.Reference,
			At:         time.Now().UTC(),
		})
	}
	return &booking, nil
}

func (s *BookingService) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Preload("Guests").First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "booking", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

func (s *BookingService) List(propertyID uint) ([]models.Booking, error) {
	var list []models.Booking
	q := s.DB.Preload("Guests").Order("created_at DESC")
	if propertyID != 0 {
		q = q.Where("property_id = ?", propertyID)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

func (s *BookingService) publish(ctx context.Context, ev events.Event) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, s.Topic, ev); err != nil {
		s.Logger.Warn("event publish failed",
			zap.String("event", ev.EventName()),
			zap.Error(err))
	}
}
