package services

import (
	"errors"
	"fmt"
	"strconv"

	"rental-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Setting keys understood by the engine. Keeping the accessors typed here
// means no other package interprets the raw key/value rows.
const (
	SettingCheckInTime  = "check_in_time"
	SettingCheckOutTime = "check_out_time"
	SettingContactEmail = "contact_email"
	SettingMinLeadDays  = "min_lead_days"
)

// SettingsService exposes per-property configuration through typed
// accessors backed by the property_settings table.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

func (s *SettingsService) get(propertyID uint, key string) (string, bool, error) {
	var row models.PropertySetting
	err := s.DB.Where("property_id = ? AND `key` = ?", propertyID, key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return row.Value, true, nil
}

// String returns the setting value or the given default.
func (s *SettingsService) String(propertyID uint, key, def string) (string, error) {
	v, ok, err := s.get(propertyID, key)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return def, nil
	}
	return v, nil
}

// Int returns the setting parsed as an integer or the given default.
func (s *SettingsService) Int(propertyID uint, key string, def int) (int, error) {
	v, ok, err := s.get(propertyID, key)
	if err != nil {
		return 0, err
	}
	if !ok || v == "" {
		return def, nil
	}
	n, convErr := strconv.Atoi(v)
	if convErr != nil {
		return 0, fmt.Errorf("setting %s is not an integer: %w", key, convErr)
	}
	return n, nil
}

// Set upserts one setting row.
func (s *SettingsService) Set(propertyID uint, key, value string) error {
	row := models.PropertySetting{PropertyID: propertyID, Key: key, Value: value}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "property_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// All lists every setting for a property.
func (s *SettingsService) All(propertyID uint) ([]models.PropertySetting, error) {
	var rows []models.PropertySetting
	if err := s.DB.Where("property_id = ?", propertyID).Order("`key`").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return rows, nil
}
