package services

import (
	"fmt"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"gorm.io/gorm"
)

// AvailabilityService is the read-only preview path over the four blocking
// sources. It takes plain snapshots without locking, so its answers may be
// slightly stale; that is fine for rendering calendars and pre-validating
// a checkout, but it must never be the basis for committing a booking;
// BookingService re-reads everything under row locks at commit time.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// DateStatus classifies a single date in a queried window.
type DateStatus struct {
	Date      time.Time `json:"date"`
	Available bool      `json:"available"`
	// Source names the first blocking source in precedence order
	// (local_booking, external_reservation, blackout, hold). Empty when
	// the date is available. Precedence only affects the reported reason:
	// any single match already blocks the date.
	Source string `json:"source,omitempty"`
}

// blockingRows holds one snapshot of every source intersecting a window.
type blockingRows struct {
	bookings  []models.Booking
	external  []models.ExternalReservation
	blackouts []models.BlackoutDate
	holds     []models.Hold
}

func (s *AvailabilityService) fetchSources(propertyID uint, from, to, now time.Time) (blockingRows, error) {
	var rows blockingRows

	err := s.DB.
		Where("property_id = ? AND status = ? AND start_date < ? AND end_date > ?",
			propertyID, models.BookingStatusConfirmed, to, from).
		Find(&rows.bookings).Error
	if err != nil {
		return rows, fmt.Errorf("failed to read bookings: %w", err)
	}

	err = s.DB.
		Table("external_reservations").
		Select("external_reservations.*").
		Joins("JOIN external_calendars ON external_calendars.id = external_reservations.calendar_id").
		Where("external_calendars.property_id = ? AND external_calendars.active = ?", propertyID, true).
		Where("external_reservations.is_blocking = ?", true).
		Where("external_reservations.start_date < ? AND external_reservations.end_date > ?", to, from).
		Find(&rows.external).Error
	if err != nil {
		return rows, fmt.Errorf("failed to read external reservations: %w", err)
	}

	err = s.DB.
		Where("property_id = ? AND start_date < ? AND end_date > ?", propertyID, to, from).
		Find(&rows.blackouts).Error
	if err != nil {
		return rows, fmt.Errorf("failed to read blackout dates: %w", err)
	}

	err = s.DB.
		Where("property_id = ? AND expires_at > ? AND start_date < ? AND end_date > ?",
			propertyID, now, to, from).
		Find(&rows.holds).Error
	if err != nil {
		return rows, fmt.Errorf("failed to read holds: %w", err)
	}

	return rows, nil
}

// classifyDates is the pure merge step: each date in [from, to) is tested
// against the fetched sources in precedence order and tagged with its
// first match. Holds whose reference id equals excludeRef are invisible
// to that caller (its own checkout session must not block itself).
func classifyDates(from, to time.Time, rows blockingRows, excludeRef string, now time.Time) []DateStatus {
	dates := utils.EnumerateDates(from, to)
	out := make([]DateStatus, 0, len(dates))

	dayEnd := func(d time.Time) time.Time { return d.AddDate(0, 0, 1) }

	for _, d := range dates {
		status := DateStatus{Date: d, Available: true}

		for i := range rows.bookings {
			b := &rows.bookings[i]
			if utils.RangesOverlap(d, dayEnd(d), b.StartDate, b.EndDate) {
				status.Available, status.Source = false, SourceLocalBooking
				break
			}
		}
		if status.Available {
			for i := range rows.external {
				r := &rows.external[i]
				if utils.RangesOverlap(d, dayEnd(d), r.StartDate, r.EndDate) {
					status.Available, status.Source = false, SourceExternalReservation
					break
				}
			}
		}
		if status.Available {
			for i := range rows.blackouts {
				b := &rows.blackouts[i]
				if utils.RangesOverlap(d, dayEnd(d), b.StartDate, b.EndDate) {
					status.Available, status.Source = false, SourceBlackout
					break
				}
			}
		}
		if status.Available {
			for i := range rows.holds {
				h := &rows.holds[i]
				if h.Expired(now) {
					continue
				}
				if excludeRef != "" && h.ReferenceID == excludeRef {
					continue
				}
				if utils.RangesOverlap(d, dayEnd(d), h.StartDate, h.EndDate) {
					status.Available, status.Source = false, SourceHold
					break
				}
			}
		}

		out = append(out, status)
	}
	return out
}

// GetAvailability classifies every date in [from, to) for a property.
// excludeRef, when set, hides holds belonging to that checkout session.
func (s *AvailabilityService) GetAvailability(propertyID uint, from, to time.Time, excludeRef string) ([]DateStatus, error) {
	if err := utils.ValidateRange(from, to); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	var property models.Property
	if err := s.DB.First(&property, propertyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "property", ID: propertyID}
		}
		return nil, fmt.Errorf("failed to load property: %w", err)
	}

	now := time.Now().UTC()
	rows, err := s.fetchSources(propertyID, utils.Midnight(from), utils.Midnight(to), now)
	if err != nil {
		return nil, err
	}
	return classifyDates(utils.Midnight(from), utils.Midnight(to), rows, excludeRef, now), nil
}

// FirstBlocked returns the blocking source of the first unavailable date
// in the range, if any. Hold creation uses this as its advisory pre-check.
func (s *AvailabilityService) FirstBlocked(propertyID uint, from, to time.Time, excludeRef string) (string, bool, error) {
	statuses, err := s.GetAvailability(propertyID, from, to, excludeRef)
	if err != nil {
		return "", false, err
	}
	for _, st := range statuses {
		if !st.Available {
			return st.Source, true, nil
		}
	}
	return "", false, nil
}
