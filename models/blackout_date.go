package models

import "time"

// BlackoutDate is an owner-declared unavailable range (maintenance,
// personal use). Always blocking; managed only through the admin surface.
type BlackoutDate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PropertyID uint      `gorm:"index;column:property_id" json:"property_id"`
	StartDate  time.Time `gorm:"column:start_date;index" json:"start_date"`
	EndDate    time.Time `gorm:"column:end_date;index" json:"end_date"`
	Reason     string    `gorm:"size:255" json:"reason"`
}
