package models

import "time"

const (
	SyncStatusRunning = "running"
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// ExternalCalendar is a configured reservation source on another platform
// (Airbnb, VRBO, ...) whose bookings must block the local calendar.
type ExternalCalendar struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PropertyID uint   `gorm:"index;column:property_id" json:"property_id"`
	Platform   string `gorm:"size:64" json:"platform"`
	Name       string `gorm:"size:255" json:"name"`
	FeedURL    string `gorm:"column:feed_url;size:1024" json:"feed_url"`
	Active     bool   `gorm:"default:true" json:"active"`

	LastSyncedAt *time.Time `gorm:"column:last_synced_at" json:"last_synced_at,omitempty"`

	Reservations []ExternalReservation `gorm:"foreignKey:CalendarID;constraint:OnDelete:CASCADE" json:"-"`
	SyncRuns     []SyncRun             `gorm:"foreignKey:CalendarID;constraint:OnDelete:CASCADE" json:"-"`
}

// ExternalReservation mirrors one reservation from an external feed.
// (CalendarID, ExternalUID) is the natural key reconciliation converges on.
// Rows are written only by the sync service, never by guest-facing flows.
type ExternalReservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CalendarID  uint   `gorm:"index:idx_calendar_uid,unique;column:calendar_id" json:"calendar_id"`
	ExternalUID string `gorm:"index:idx_calendar_uid,unique;column:external_uid;size:255" json:"external_uid"`

	StartDate time.Time `gorm:"column:start_date;index" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date;index" json:"end_date"`
	Status    string    `gorm:"size:32" json:"status"`
	Blocking  bool      `gorm:"column:is_blocking;default:true" json:"is_blocking"`
	GuestName string    `gorm:"column:guest_name;size:255" json:"guest_name,omitempty"`
	Title     string    `gorm:"size:255" json:"title,omitempty"`
}

// SyncRun is the audit record of one reconciliation execution. Appended
// and finalized by the sync service, never deleted by the engine.
type SyncRun struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CalendarID uint   `gorm:"index;column:calendar_id" json:"calendar_id"`
	Status     string `gorm:"size:16" json:"status"`

	StartedAt  time.Time  `gorm:"column:started_at" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`

	Imported int    `json:"imported"`
	Updated  int    `json:"updated"`
	Deleted  int    `json:"deleted"`
	Error    string `gorm:"type:text" json:"error,omitempty"`
}
