// Package jobs holds background tasks run by the server process.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/metrics"
)

// Purger is the part of the trash service the scheduler drives
type Purger interface {
	Purge(ctx context.Context, now time.Time) (*driveSvc.PurgeReport, error)
}

// PurgeScheduler runs the trash purge on a fixed interval.
// It assumes a single active instance across the deployment: there is no
// distributed lock, and two overlapping sweeps only repeat idempotent deletes.
type PurgeScheduler struct {
	purger   Purger
	interval time.Duration
	now      func() time.Time
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewPurgeScheduler creates a scheduler. It does nothing until Start.
func NewPurgeScheduler(purger Purger, interval time.Duration, m *metrics.Metrics, logger *slog.Logger) *PurgeScheduler {
	return &PurgeScheduler{
		purger:   purger,
		interval: interval,
		now:      time.Now,
		metrics:  m,
		logger:   logger,
	}
}

// Start runs one sweep immediately, then one per interval, until ctx is done
// or Stop is called. Starting a running scheduler is a no-op.
func (s *PurgeScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})

	go s.loop(ctx, s.stopped)

	s.logger.Info("purge scheduler started", "interval", s.interval)
}

func (s *PurgeScheduler) loop(ctx context.Context, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *PurgeScheduler) runLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx, s.now()); err != nil && ctx.Err() == nil {
		s.logger.Error("purge sweep failed", "error", err)
	}
}

// Stop cancels the loop and waits for an in-flight sweep to return
func (s *PurgeScheduler) Stop() {
	s.mu.Lock()
	cancel, stopped := s.cancel, s.stopped
	s.cancel, s.stopped = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
	s.logger.Info("purge scheduler stopped")
}

// RunOnce performs a single sweep as of now
func (s *PurgeScheduler) RunOnce(ctx context.Context, now time.Time) (*driveSvc.PurgeReport, error) {
	start := time.Now()
	report, err := s.purger.Purge(ctx, now)
	s.metrics.RecordPurgeRun(err)
	if err != nil {
		return report, err
	}

	s.logger.Info("purge sweep finished",
		"cutoff", report.Cutoff,
		"folders_purged", report.FoldersPurged,
		"files_purged", report.FilesPurged,
		"blob_failures", report.BlobFailures,
		"duration", time.Since(start),
	)
	return report, nil
}
