// Package scheduler runs the periodic alert evaluation
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/smartgestion/backend-go/internal/config"
	"github.com/andresuchdata/smartgestion/backend-go/internal/service"
)

// AlertRefresher is implemented by service.InsightService
type AlertRefresher interface {
	RefreshAlerts(ctx context.Context) (*service.RefreshResult, error)
}

type AlertRefreshScheduler struct {
	scheduler *gocron.Scheduler
	refresher AlertRefresher
	config    config.SchedulerConfig
	timeout   time.Duration

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResult          *service.RefreshResult
	lastErr             error
}

func NewAlertRefreshScheduler(refresher AlertRefresher, cfg config.SchedulerConfig) *AlertRefreshScheduler {
	log.Info().Str("cron", cfg.AlertCron).Bool("enabled", cfg.Enabled).Msg("alert refresh scheduler configured")

	return &AlertRefreshScheduler{
		scheduler: gocron.NewScheduler(time.Local),
		refresher: refresher,
		config:    cfg,
		timeout:   2 * time.Minute,
	}
}

// Start schedules the refresh job and stops it when ctx is cancelled
func (s *AlertRefreshScheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.Info().Msg("alert refresh scheduler disabled by configuration")
		return nil
	}

	_, err := s.scheduler.Cron(s.config.AlertCron).Do(func() {
		if err := s.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled alert refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("could not schedule alert refresh %q: %w", s.config.AlertCron, err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.Info().Msg("stopping alert refresh scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// RunOnce refreshes alerts unless a refresh is already running
func (s *AlertRefreshScheduler) RunOnce(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.Warn().Msg("alert refresh already running, skipping")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.refresher.RefreshAlerts(runCtx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastResult = result
	s.lastErr = err
	s.syncMutex.Unlock()

	if err != nil {
		return err
	}

	log.Info().
		Int("alerts", len(result.Alerts)).
		Bool("changed", result.Changed).
		Int("notified", result.Notified).
		Msg("scheduled alert refresh completed")
	return nil
}

// GetStatus returns the current scheduler state
func (s *AlertRefreshScheduler) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"enabled":                s.config.Enabled,
		"cron":                   s.config.AlertCron,
		"running":                s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
	if s.lastResult != nil {
		status["last_alert_count"] = len(s.lastResult.Alerts)
		status["last_notified"] = s.lastResult.Notified
	}
	if s.lastErr != nil {
		status["last_error"] = s.lastErr.Error()
	}
	return status
}
