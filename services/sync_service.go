package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rental-backend/events"
	"rental-backend/models"
	"rental-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IncomingReservation is one reservation tuple from an external platform
// feed, already fetched and parsed.
type IncomingReservation struct {
	UID       string    `json:"uid"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	GuestName string    `json:"guest_name"`
	Title     string    `json:"title"`
}

// Blocking: everything an external platform publishes blocks the calendar
// unless the platform has already canceled it.
func (r *IncomingReservation) Blocking() bool {
	return r.Status != "canceled" && r.Status != "cancelled"
}

// FeedFetcher retrieves the full reservation list for a calendar. The
// fetch always completes before any write transaction opens; no lock is
// ever held across the network call.
type FeedFetcher interface {
	Fetch(ctx context.Context, cal *models.ExternalCalendar) ([]IncomingReservation, error)
}

// SyncResult is what one reconciliation run reports.
type SyncResult struct {
	CalendarID uint `json:"calendar_id"`
	Imported   int  `json:"imported"`
	Updated    int  `json:"updated"`
	Deleted    int  `json:"deleted"`
}

// SyncService mirrors external reservation feeds into the
// external_reservations table. It writes nothing else: the booking path
// reads the mirror under its own locks, so a race between a sync and a
// booking commit resolves at commit time, not here.
type SyncService struct {
	DB        *gorm.DB
	Fetcher   FeedFetcher
	Publisher events.Publisher
	Topic     string
	Logger    *zap.Logger
}

func NewSyncService(db *gorm.DB, fetcher FeedFetcher, pub events.Publisher, topic string, logger *zap.Logger) *SyncService {
	return &SyncService{DB: db, Fetcher: fetcher, Publisher: pub, Topic: topic, Logger: logger}
}

// syncPlan is the computed difference between the mirror and the feed.
type syncPlan struct {
	inserts   []models.ExternalReservation
	updates   []models.ExternalReservation
	deleteIDs []uint
}

// planReconciliation diffs existing rows (keyed by external uid) against
// the incoming list. Unchanged rows produce no writes, which is what
// makes a repeated run converge to zero counters.
func planReconciliation(calendarID uint, existing []models.ExternalReservation, incoming []IncomingReservation) syncPlan {
	byUID := make(map[string]*models.ExternalReservation, len(existing))
	for i := range existing {
		byUID[existing[i].ExternalUID] = &existing[i]
	}

	var plan syncPlan
	seen := make(map[string]bool, len(incoming))

	for _, in := range incoming {
		if in.UID == "" || seen[in.UID] {
			continue
		}
		seen[in.UID] = true

		start := utils.Midnight(in.StartDate)
		end := utils.Midnight(in.EndDate)

		row, ok := byUID[in.UID]
		if !ok {
			plan.inserts = append(plan.inserts, models.ExternalReservation{
				CalendarID:  calendarID,
				ExternalUID: in.UID,
				StartDate:   start,
				EndDate:     end,
				Status:      in.Status,
				Blocking:    in.Blocking(),
				GuestName:   in.GuestName,
				Title:       in.Title,
			})
			continue
		}

		if row.StartDate.Equal(start) && row.EndDate.Equal(end) &&
			row.Status == in.Status && row.GuestName == in.GuestName &&
			row.Title == in.Title {
			continue
		}

		updated := *row
		updated.StartDate = start
		updated.EndDate = end
		updated.Status = in.Status
		updated.Blocking = in.Blocking()
		updated.GuestName = in.GuestName
		updated.Title = in.Title
		plan.updates = append(plan.updates, updated)
	}

	// Anything upstream no longer lists has been removed or expired there.
	for i := range existing {
		if !seen[existing[i].ExternalUID] {
			plan.deleteIDs = append(plan.deleteIDs, existing[i].ID)
		}
	}
	return plan
}

// Reconcile upserts/deletes the mirror for one calendar in a single
// transaction and records a SyncRun either way. Partial writes from a
// failed run are rolled back as a whole.
func (s *SyncService) Reconcile(calendarID uint, incoming []IncomingReservation) (*SyncResult, error) {
	var cal models.ExternalCalendar
	if err := s.DB.First(&cal, calendarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "calendar", ID: calendarID}
		}
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}

	run := models.SyncRun{
		CalendarID: calendarID,
		Status:     models.SyncStatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	if err := s.DB.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}

	result, syncErr := s.applyIncoming(calendarID, incoming)

	now := time.Now().UTC()
	finish := map[string]interface{}{"finished_at": now}
	if syncErr != nil {
		finish["status"] = models.SyncStatusFailed
		finish["error"] = syncErr.Error()
	} else {
		finish["status"] = models.SyncStatusSuccess
		finish["imported"] = result.Imported
		finish["updated"] = result.Updated
		finish["deleted"] = result.Deleted
	}
	if err := s.DB.Model(&run).Updates(finish).Error; err != nil {
		s.Logger.Error("failed to finalize sync run",
			zap.Uint("sync_run_id", run.ID), zap.Error(err))
	}

	if syncErr != nil {
		return nil, &SyncError{CalendarID: calendarID, Err: syncErr}
	}

	if err := s.DB.Model(&cal).Update("last_synced_at", now).Error; err != nil {
		s.Logger.Warn("failed to stamp calendar sync time",
			zap.Uint("calendar_id", calendarID), zap.Error(err))
	}

	s.Logger.Info("calendar reconciled",
		zap.Uint("calendar_id", calendarID),
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted))

	if s.Publisher != nil {
		ev := events.CalendarSynced{
			CalendarID: calendarID,
			Platform:   cal.Platform,
			Imported:   result.Imported,
			Updated:    result.Updated,
			Deleted:    result.Deleted,
			At:         now,
		}
		if err := s.Publisher.Publish(context.Background(), s.Topic, ev); err != nil {
			s.Logger.Warn("event publish failed", zap.String("event", ev.EventName()), zap.Error(err))
		}
	}

	return result, nil
}

func (s *SyncService) applyIncoming(calendarID uint, incoming []IncomingReservation) (*SyncResult, error) {
	result := &SyncResult{CalendarID: calendarID}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing []models.ExternalReservation
		if err := tx.Where("calendar_id = ?", calendarID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load mirror: %w", err)
		}

		plan := planReconciliation(calendarID, existing, incoming)

		for i := range plan.inserts {
			if err := tx.Create(&plan.inserts[i]).Error; err != nil {
				return fmt.Errorf("failed to insert reservation %s: %w", plan.inserts[i].ExternalUID, err)
			}
		}
		for i := range plan.updates {
			if err := tx.Save(&plan.updates[i]).Error; err != nil {
				return fmt.Errorf("failed to update reservation %s: %w", plan.updates[i].ExternalUID, err)
			}
		}
		if len(plan.deleteIDs) > 0 {
			if err := tx.Delete(&models.ExternalReservation{}, plan.deleteIDs).Error; err != nil {
				return fmt.Errorf("failed to delete removed reservations: %w", err)
			}
		}

		result.Imported = len(plan.inserts)
		result.Updated = len(plan.updates)
		result.Deleted = len(plan.deleteIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SyncCalendar fetches a calendar's feed and reconciles it. The fetch
// happens entirely before the write transaction.
func (s *SyncService) SyncCalendar(ctx context.Context, calendarID uint) (*SyncResult, error) {
	var cal models.ExternalCalendar
	if err := s.DB.First(&cal, calendarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "calendar", ID: calendarID}
		}
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}

	incoming, err := s.Fetcher.Fetch(ctx, &cal)
	if err != nil {
		// Record the failed run so the audit trail covers fetch errors too.
		now := time.Now().UTC()
		run := models.SyncRun{
			CalendarID: cal.ID,
			Status:     models.SyncStatusFailed,
			StartedAt:  now,
			FinishedAt: &now,
			Error:      err.Error(),
		}
		if recErr := s.DB.Create(&run).Error; recErr != nil {
			s.Logger.Error("failed to record failed sync run", zap.Error(recErr))
		}
		return nil, &SyncError{CalendarID: cal.ID, Err: err}
	}

	return s.Reconcile(cal.ID, incoming)
}

// SyncAllActive reconciles every active calendar; invoked on a schedule.
// One calendar's failure does not stop the others.
func (s *SyncService) SyncAllActive(ctx context.Context) {
	var calendars []models.ExternalCalendar
	if err := s.DB.Where("active = ?", true).Find(&calendars).Error; err != nil {
		s.Logger.Error("failed to list active calendars", zap.Error(err))
		return
	}
	for _, cal := range calendars {
		if _, err := s.SyncCalendar(ctx, cal.ID); err != nil {
			s.Logger.Warn("calendar sync failed",
				zap.Uint("calendar_id", cal.ID),
				zap.String("platform", cal.Platform),
				zap.Error(err))
		}
	}
}

// HTTPFeedFetcher reads a JSON reservation feed over HTTP. Dates are
// YYYY-MM-DD strings in the feed.
type HTTPFeedFetcher struct {
	Client *http.Client
}

func NewHTTPFeedFetcher(timeout time.Duration) *HTTPFeedFetcher {
	return &HTTPFeedFetcher{Client: &http.Client{Timeout: timeout}}
}

type feedItem struct {
	UID       string `json:"uid"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	GuestName string `json:"guest_name"`
	Title     string `json:"title"`
}

func (f *HTTPFeedFetcher) Fetch(ctx context.Context, cal *models.ExternalCalendar) ([]IncomingReservation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cal.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid feed url: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var items []feedItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("feed parse failed: %w", err)
	}

	out := make([]IncomingReservation, 0, len(items))
	for _, it := range items {
		start, err := utils.ParseDate(it.StartDate)
		if err != nil {
			return nil, fmt.Errorf("feed item %s: bad start date %q", it.UID, it.StartDate)
		}
		end, err := utils.ParseDate(it.EndDate)
		if err != nil {
			return nil, fmt.Errorf("feed item %s: bad end date %q", it.UID, it.EndDate)
		}
		out = append(out, IncomingReservation{
			UID:       it.UID,
			StartDate: start,
			EndDate:   end,
			Status:    it.Status,
			GuestName: it.GuestName,
			Title:     it.Title,
		})
	}
	return out, nil
}
