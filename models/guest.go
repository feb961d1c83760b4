package models

import "time"

// Guest is a person attached to a booking. Guests are owned by their
// booking and removed with it; exactly one guest per booking is primary.
type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BookingID uint `gorm:"index;column:booking_id" json:"booking_id"`

	FullName  string `gorm:"size:255" json:"full_name"`
	Email     string `gorm:"size:255" json:"email,omitempty"`
	Phone     string `gorm:"size:64" json:"phone,omitempty"`
	IsPrimary bool   `gorm:"column:is_primary;default:false" json:"is_primary"`
}
