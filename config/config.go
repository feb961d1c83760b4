package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	Env     string `mapstructure:"ENV"`

	DBUser string `mapstructure:"DB_USER"`
	DBPass string `mapstructure:"DB_PASS"`
	DBHost string `mapstructure:"DB_HOST"`
	DBPort string `mapstructure:"DB_PORT"`
	DBName string `mapstructure:"DB_NAME"`

	// HoldTTLMinutes is the checkout-session length: how long a hold
	// protects a range before payment must have completed.
	HoldTTLMinutes int `mapstructure:"HOLD_TTL_MINUTES"`

	// Cron expressions for the background jobs.
	HoldPurgeSchedule    string `mapstructure:"HOLD_PURGE_SCHEDULE"`
	CalendarSyncSchedule string `mapstructure:"CALENDAR_SYNC_SCHEDULE"`

	FeedTimeoutSeconds int `mapstructure:"FEED_TIMEOUT_SECONDS"`

	// Comma-separated Kafka brokers; empty disables event publication.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
}

var AppConfig Config

func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DB_USER", "root")
	viper.SetDefault("DB_PASS", "")
	viper.SetDefault("DB_HOST", "127.0.0.1")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_NAME", "rental_db")
	viper.SetDefault("HOLD_TTL_MINUTES", 15)
	viper.SetDefault("HOLD_PURGE_SCHEDULE", "*/5 * * * *")
	viper.SetDefault("CALENDAR_SYNC_SCHEDULE", "*/30 * * * *")
	viper.SetDefault("FEED_TIMEOUT_SECONDS", 30)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "rental.events")
	viper.SetDefault("CORS_ORIGINS", "*")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// MySQLDSN assembles the gorm MySQL connection string.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// CORSOriginList splits the configured origins, defaulting to "*".
func (c *Config) CORSOriginList() []string {
	raw := strings.TrimSpace(c.CORSOrigins)
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// BrokerList splits the configured Kafka brokers; empty means disabled.
func (c *Config) BrokerList() []string {
	raw := strings.TrimSpace(c.KafkaBrokers)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if b := strings.TrimSpace(part); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
