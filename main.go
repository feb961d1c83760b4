package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"rental-backend/config"
	"rental-backend/controllers"
	"rental-backend/cron"
	"rental-backend/events"
	"rental-backend/routes"
	"rental-backend/services"
	"rental-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	config.LoadConfig()
	utils.InitLogger(config.AppConfig.Env)
	logger := utils.Logger()
	defer logger.Sync()

	if err := config.ConnectDatabase(); err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	db := config.DB

	// Event publisher: Kafka when brokers are configured, no-op otherwise.
	var publisher events.Publisher = events.NoopPublisher{}
	if brokers := config.AppConfig.BrokerList(); len(brokers) > 0 {
		kafkaPub, err := events.NewKafkaPublisher(brokers, logger)
		if err != nil {
			logger.Fatal("kafka connect failed", zap.Error(err))
		}
		publisher = kafkaPub
		defer publisher.Close()
		logger.Info("kafka publisher connected", zap.Strings("brokers", brokers))
	}

	topic := config.AppConfig.KafkaTopic
	holdTTL := time.Duration(config.AppConfig.HoldTTLMinutes) * time.Minute
	feedTimeout := time.Duration(config.AppConfig.FeedTimeoutSeconds) * time.Second

	// Services
	availabilitySvc := services.NewAvailabilityService(db)
	holdSvc := services.NewHoldService(db, availabilitySvc, holdTTL, logger)
	pricingSvc := services.NewPricingService(db)
	bookingSvc := services.NewBookingService(db, pricingSvc, publisher, topic, logger)
	syncSvc := services.NewSyncService(db, services.NewHTTPFeedFetcher(feedTimeout), publisher, topic, logger)
	settingsSvc := services.NewSettingsService(db)

	// Controllers
	availabilityCtl := controllers.NewAvailabilityController(availabilitySvc)
	holdCtl := controllers.NewHoldController(holdSvc)
	bookingCtl := controllers.NewBookingController(bookingSvc)
	pricingCtl := controllers.NewPricingController(pricingSvc, db)
	calendarCtl := controllers.NewCalendarController(syncSvc, db)
	blackoutCtl := controllers.NewBlackoutController(db)
	settingsCtl := controllers.NewSettingsController(settingsSvc)

	router := routes.SetupRouter(
		availabilityCtl, holdCtl, bookingCtl, pricingCtl,
		calendarCtl, blackoutCtl, settingsCtl,
		config.AppConfig.CORSOriginList(),
	)

	// Background jobs: hold purge + calendar sync.
	scheduler := cron.NewScheduler(holdSvc, syncSvc, logger)
	if err := scheduler.Start(
		config.AppConfig.HoldPurgeSchedule,
		config.AppConfig.CalendarSyncSchedule,
	); err != nil {
		logger.Fatal("scheduler start failed", zap.Error(err))
	}

	addr := ":" + config.AppConfig.AppPort
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt, then drain gracefully.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
