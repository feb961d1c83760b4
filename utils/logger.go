package utils

import (
	"log"

	"go.uber.org/zap"
)

var logger *zap.Logger

// InitLogger builds the global zap logger. env "production" gets JSON
// output at info level, anything else the development console encoder.
func InitLogger(env string) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	logger = l
}

// Logger returns the global logger, initializing a development one if
// InitLogger has not run (tests).
func Logger() *zap.Logger {
	if logger == nil {
		logger, _ = zap.NewDevelopment()
	}
	return logger
}
