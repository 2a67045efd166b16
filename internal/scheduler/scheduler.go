// Package scheduler runs the engine's background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/paddock/internal/logger"
	"github.com/yourusername/paddock/internal/ml"
)

const defaultProbeTimeout = 5 * time.Second

// CacheFlusher is implemented by oracles that keep a probability cache.
type CacheFlusher interface {
	ClearCache()
}

// Scheduler manages scheduled oracle maintenance jobs
type Scheduler struct {
	cron         *cron.Cron
	logger       *logrus.Logger
	mlLogger     *logger.MLLogger
	mu           sync.RWMutex
	isRunning    bool
	jobIDs       []cron.EntryID
	probeTimeout time.Duration
	now          func() time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		logger:       log,
		mlLogger:     logger.NewMLLogger(log),
		jobIDs:       make([]cron.EntryID, 0),
		probeTimeout: defaultProbeTimeout,
		now:          time.Now,
	}
}

// ScheduleOracleProbe schedules a health probe of the ML oracle. Each run
// updates the oracle availability gauge.
func (s *Scheduler) ScheduleOracleProbe(cronExpression string, prober ml.Prober) error {
	if prober == nil {
		return fmt.Errorf("oracle prober is required")
	}
	return s.addJob(cronExpression, "oracle probe", func() {
		s.ProbeOracle(context.Background(), prober)
	})
}

// ScheduleCacheFlush schedules a full flush of the oracle's probability cache.
func (s *Scheduler) ScheduleCacheFlush(cronExpression string, flusher CacheFlusher) error {
	if flusher == nil {
		return fmt.Errorf("cache flusher is required")
	}
	return s.addJob(cronExpression, "cache flush", func() {
		flusher.ClearCache()
		s.logger.Debug("Oracle probability cache flushed")
	})
}

// ProbeOracle runs one probe and reports whether the oracle answered.
func (s *Scheduler) ProbeOracle(ctx context.Context, prober ml.Prober) bool {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	start := s.now()
	err := prober.HealthCheck(ctx)
	latency := float64(s.now().Sub(start).Milliseconds())

	up := err == nil
	if up {
		ml.OracleUp.Set(1)
	} else {
		ml.OracleUp.Set(0)
		s.logger.WithError(err).Warn("ML oracle probe failed")
	}
	s.mlLogger.LogOracleProbe(prober.BaseURL(), up, latency)
	return up
}

func (s *Scheduler) addJob(cronExpression, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, job)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"spec": cronExpression,
	}).Info("Scheduled job")

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

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
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

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	for i, id := range s.jobIDs {
		if id == jobID {
			s.jobIDs = append(s.jobIDs[:i], s.jobIDs[i+1:]...)
			break
		}
	}
	s.logger.WithField("job_id", jobID).Info("Removed job")

	return nil
}
