package config

import (
	"log"
	"os"
	"time"

	"rental-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDatabase() error {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(AppConfig.MySQLDSN()), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}
	DB = db

	// AutoMigrate in parent->child order.
	if err := DB.AutoMigrate(
		&models.Property{},
		&models.PropertySetting{},
		&models.PricingRule{},
		&models.Coupon{},
		&models.Booking{},
		&models.Guest{},
		&models.Hold{},
		&models.BlackoutDate{},
		&models.ExternalCalendar{},
		&models.ExternalReservation{},
		&models.SyncRun{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

// SeedDatabase ensures the single property, its tax rates and a usable
// rate card exist on first boot. Every block is guarded by a count so
// restarting never duplicates rows.
func SeedDatabase() {
	var propertyCount int64
	DB.Model(&models.Property{}).Count(&propertyCount)
	if propertyCount == 0 {
		property := models.Property{
			Name:      "Hale Makai Beach Cottage",
			Slug:      "hale-makai",
			MaxGuests: 6,
			Currency:  "USD",
			Timezone:  "Pacific/Honolulu",
			Active:    true,
		}
		if err := DB.Create(&property).Error; err != nil {
			log.Printf("warning: failed to seed property: %v", err)
		} else {
			log.Println("Property seeded")
		}
	}

	var ruleCount int64
	DB.Model(&models.PricingRule{}).Count(&ruleCount)
	if ruleCount == 0 {
		rules := []models.PricingRule{
			{PropertyID: 1, RuleType: models.RuleBaseRate, Name: "Base nightly rate", Value: 250, Active: true},
			{PropertyID: 1, RuleType: models.RuleWeekendRate, Name: "Weekend rate", Value: 295, Active: true},
			{PropertyID: 1, RuleType: models.RuleMinimumNights, Name: "Minimum stay", MinNights: 2, Active: true},
			{PropertyID: 1, RuleType: models.RuleLongStayDiscount, Name: "Weekly discount", Value: 10, IsPercent: true, MinNights: 7, Active: true},
			{PropertyID: 1, RuleType: models.RuleCleaningFee, Name: "Cleaning fee", Value: 150, Active: true},
			{PropertyID: 1, RuleType: models.RuleServiceFee, Name: "Service fee", Value: 0, Active: true},
			// Hawaii lodging taxes. TAT and the county surcharge apply to
			// gross receipts; GET applies on top of both.
			{PropertyID: 1, RuleType: models.RuleTATRate, Name: "Transient accommodations tax", Value: 0.1025, Active: true},
			{PropertyID: 1, RuleType: models.RuleCountyRate, Name: "County TAT surcharge", Value: 0.03, Active: true},
			{PropertyID: 1, RuleType: models.RuleGETRate, Name: "General excise tax", Value: 0.045, Active: true},
		}
		if err := DB.Create(&rules).Error; err != nil {
			log.Printf("warning: failed to seed pricing rules: %v", err)
		} else {
			log.Println("Pricing rules seeded")
		}
	}

	var settingCount int64
	DB.Model(&models.PropertySetting{}).Count(&settingCount)
	if settingCount == 0 {
		settings := []models.PropertySetting{
			{PropertyID: 1, Key: "check_in_time", Value: "15:00"},
			{PropertyID: 1, Key: "check_out_time", Value: "10:00"},
			{PropertyID: 1, Key: "contact_email", Value: "host@halemakai.example"},
			{PropertyID: 1, Key: "min_lead_days", Value: "0"},
		}
		if err := DB.Create(&settings).Error; err != nil {
			log.Printf("warning: failed to seed settings: %v", err)
		} else {
			log.Println("Settings seeded")
		}
	}
}
