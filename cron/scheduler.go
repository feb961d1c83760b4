package cron

import (
	"context"
	"time"

	"rental-backend/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler owns the engine's two background jobs: purging expired holds
// and reconciling active external calendars. Both are safe to run
// concurrently with request traffic; neither takes booking-commit locks.
type Scheduler struct {
	cron   *cron.Cron
	holds  *services.HoldService
	sync   *services.SyncService
	logger *zap.Logger
}

func NewScheduler(holds *services.HoldService, sync *services.SyncService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		holds:  holds,
		sync:   sync,
		logger: logger,
	}
}

// Start registers the jobs and launches the cron loop in the background.
func (s *Scheduler) Start(holdPurgeSpec, calendarSyncSpec string) error {
	if _, err := s.cron.AddFunc(holdPurgeSpec, func() {
		if _, err := s.holds.PurgeExpired(); err != nil {
			s.logger.Error("hold purge failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(calendarSyncSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.sync.SyncAllActive(ctx)
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("hold_purge", holdPurgeSpec),
		zap.String("calendar_sync", calendarSyncSpec))
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
