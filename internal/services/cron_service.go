package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/config"
)

// CronService manages scheduled background jobs: the fleet status sweep and
// the daily booking completion pass.
type CronService struct {
	cron       *cron.Cron
	fleetSvc   *FleetStatusService
	bookingSvc *BookingService
	cfg        config.JobsConfig
	logger     *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(fleetSvc *FleetStatusService, bookingSvc *BookingService, cfg config.JobsConfig, logger *logrus.Logger) *CronService {
	// Seconds precision matches the configured cron specs.
	c := cron.New(cron.WithSeconds())

	return &CronService{
		cron:       c,
		fleetSvc:   fleetSvc,
		bookingSvc: bookingSvc,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers and starts all cron jobs
func (s *CronService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.StatusSweepSpec, s.statusSweepJob)
	if err != nil {
		return fmt.Errorf("failed to schedule status sweep job: %w", err)
	}
	s.logger.Infof("Scheduled: fleet status sweep (%s)", s.cfg.StatusSweepSpec)

	_, err = s.cron.AddFunc(s.cfg.CompletionSpec, s.completeBookingsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule booking completion job: %w", err)
	}
	s.logger.Infof("Scheduled: booking completion (%s)", s.cfg.CompletionSpec)

	s.cron.Start()
	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// RunStatusSweepNow runs the fleet status sweep immediately (admin trigger)
func (s *CronService) RunStatusSweepNow() {
	s.statusSweepJob()
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}

func (s *CronService) statusSweepJob() {
	start := time.Now()
	if err := s.fleetSvc.Sweep(start); err != nil {
		s.logger.WithError(err).Error("[CRON] Fleet status sweep failed")
		return
	}
	s.logger.WithField("duration", time.Since(start).String()).Debug("[CRON] Fleet status sweep done")
}

func (s *CronService) completeBookingsJob() {
	count, err := s.bookingSvc.CompletePastBookings(time.Now())
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Booking completion failed")
		return
	}
	if count > 0 {
		s.logger.WithField("completed", count).Info("[CRON] Past bookings marked completed")
	}
}
