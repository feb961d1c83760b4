package models

import "time"

// Property is the rentable unit. The engine currently serves a single
// property, but every row in the schema carries a property_id so a second
// unit does not require a migration.
type Property struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string `gorm:"size:255" json:"name"`
	Slug      string `gorm:"size:128;uniqueIndex" json:"slug"`
	MaxGuests int    `gorm:"column:max_guests;default:8" json:"max_guests"`
	Currency  string `gorm:"size:8;default:USD" json:"currency"`
	Timezone  string `gorm:"size:64;default:Pacific/Honolulu" json:"timezone"`
	Active    bool   `gorm:"default:true" json:"active"`
}
