package models

import "time"

// PropertySetting is a single named configuration value. Read it through
// services.SettingsService, which exposes typed accessors; nothing else
// should interpret the raw Value column.
type PropertySetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PropertyID uint   `gorm:"index:idx_property_key,unique;column:property_id" json:"property_id"`
	Key        string `gorm:"index:idx_property_key,unique;size:64" json:"key"`
	Value      string `gorm:"size:255" json:"value"`
}
