// Package scheduler runs periodic configuration reloads. Each successful reload
// swaps a new ensemble and analyzer snapshot into the running service.
package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/logger"
	"github.com/yourusername/goal-edge/internal/metrics"
)

// Reload outcomes recorded in metrics
const (
	ReloadSuccess  = "success"
	ReloadRejected = "rejected"
)

// Loader reads and validates a fresh configuration
type Loader func() (*config.Config, error)

// Applier installs a validated configuration. It must either apply the whole
// configuration or leave the previous one in place.
type Applier interface {
	Apply(cfg *config.Config) error
}

// Scheduler manages scheduled configuration reloads
type Scheduler struct {
	cron            *cron.Cron
	load            Loader
	applier         Applier
	audit           *logger.AuditLogger
	logger          *logrus.Logger
	mu              sync.RWMutex
	reloadMu        sync.Mutex
	isRunning       bool
	jobIDs          []cron.EntryID
	lastReload      time.Time
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(load Loader, applier Applier, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		load:            load,
		applier:         applier,
		audit:           logger.NewAuditLogger(log),
		logger:          log,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleConfigReload schedules a reload with a standard cron expression
func (s *Scheduler) ScheduleConfigReload(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		if err := s.Reload(); err != nil {
			s.logger.WithError(err).Warn("Scheduled configuration reload failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled configuration reload")
	return nil
}

// Reload loads the configuration and applies it. A rejected configuration
// leaves the active snapshot untouched.
func (s *Scheduler) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	cfg, err := s.load()
	if err == nil && cfg == nil {
		err = errors.New("loader returned no configuration")
	}
	if err == nil {
		err = s.applier.Apply(cfg)
	}
	if err != nil {
		metrics.RecordConfigReload(ReloadRejected)
		s.audit.LogConfigReloadFailed(err.Error())
		return fmt.Errorf("reload configuration: %w", err)
	}

	metrics.RecordConfigReload(ReloadSuccess)
	s.audit.LogConfigReload(cfg.Ensemble.Strategy, cfg.Ensemble.Weights, cfg.Value.MinEV)

	s.mu.Lock()
	s.lastReload = time.Now().UTC()
	s.mu.Unlock()
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running reload to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	select {
	case <-s.cron.Stop().Done():
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler did not stop within %s", s.gracefulTimeout)
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastReload returns when a configuration was last applied
func (s *Scheduler) LastReload() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReload
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
