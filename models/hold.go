package models

import "time"

// Hold is a transient claim on a date range protecting an in-progress
// checkout. ReferenceID equals the idempotency key the eventual booking
// will be submitted with, which lets that booking pass through the hold
// check and release the row on commit. Holds are never updated in place:
// they are deleted on booking commit, explicit release, or TTL purge.
type Hold struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`

	PropertyID  uint      `gorm:"index;column:property_id" json:"property_id"`
	StartDate   time.Time `gorm:"column:start_date;index" json:"start_date"`
	EndDate     time.Time `gorm:"column:end_date;index" json:"end_date"`
	ReferenceID string    `gorm:"column:reference_id;size:128;index" json:"reference_id"`
	Reason      string    `gorm:"size:255" json:"reason,omitempty"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index" json:"expires_at"`
}

// Expired reports whether the hold is past its TTL. Expired holds are
// inert in every overlap check even before the purge job deletes them.
func (h *Hold) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}
