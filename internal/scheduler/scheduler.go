// Package scheduler runs the periodic maintenance jobs of watch mode: the
// accuracy snapshot and the history resave.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/racing-predictor/internal/accuracy"
	"github.com/yourusername/racing-predictor/internal/history"
	"github.com/yourusername/racing-predictor/internal/metrics"
	"github.com/yourusername/racing-predictor/internal/models"
)

// Scheduler manages the periodic snapshot job
type Scheduler struct {
	cron      *cron.Cron
	session   *history.Session
	evaluator *accuracy.Evaluator
	logger    *logrus.Logger

	mu        sync.Mutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a scheduler bound to a session and evaluator
func NewScheduler(session *history.Session, evaluator *accuracy.Evaluator, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		session:   session,
		evaluator: evaluator,
		logger:    logger,
	}
}

// ScheduleSnapshot registers the periodic accuracy snapshot + resave job.
// The spec string uses cron syntax or descriptors like "@every 5m".
func (s *Scheduler) ScheduleSnapshot(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	id, err := s.cron.AddFunc(schedule, s.runSnapshot)
	if err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}
	s.jobIDs = append(s.jobIDs, id)
	return nil
}

func (s *Scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	records := s.session.Records()
	metrics.HistorySize.Set(float64(len(records)))

	report, err := s.evaluator.EvaluateSaved(records)
	switch {
	case errors.Is(err, models.ErrInsufficientHistory):
		s.logger.WithField("records", len(records)).Debug("Skipping accuracy snapshot, not enough history")
	case err != nil:
		s.logger.WithError(err).Warn("Accuracy snapshot failed")
	default:
		metrics.OverallAccuracy.Set(report.Overall)
		s.logger.WithFields(logrus.Fields{
			"records": report.TotalRecords,
			"overall": report.Overall,
		}).Info("Accuracy snapshot completed")
	}

	if err := s.session.Save(ctx); err != nil {
		metrics.HistorySavesTotal.WithLabelValues("failure").Inc()
		s.logger.WithError(err).Warn("Periodic history save failed")
		return
	}
	metrics.HistorySavesTotal.WithLabelValues("success").Inc()
}

// Start launches the cron loop
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.cron.Start()
	s.isRunning = true
}

// Stop halts scheduling and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
}
