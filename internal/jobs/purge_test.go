package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	driveSvc "drive/internal/domain/services/drive"
)

type fakePurger struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (p *fakePurger) Purge(_ context.Context, now time.Time) (*driveSvc.PurgeReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, now)
	if p.err != nil {
		return nil, p.err
	}
	return &driveSvc.PurgeReport{Cutoff: now.Add(-30 * 24 * time.Hour), FilesPurged: 1}, nil
}

func (p *fakePurger) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce(t *testing.T) {
	purger := &fakePurger{}
	s := NewPurgeScheduler(purger, time.Hour, nil, testLogger())

	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	report, err := s.RunOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesPurged)
	assert.Equal(t, []time.Time{now}, purger.calls)
}

func TestRunOnce_Error(t *testing.T) {
	purger := &fakePurger{err: errors.New("db down")}
	s := NewPurgeScheduler(purger, time.Hour, nil, testLogger())

	_, err := s.RunOnce(context.Background(), time.Now())
	assert.EqualError(t, err, "db down")
}

func TestStartStop(t *testing.T) {
	purger := &fakePurger{}
	s := NewPurgeScheduler(purger, 10*time.Millisecond, nil, testLogger())

	s.Start(context.Background())
	s.Start(context.Background())
	assert.Eventually(t, func() bool { return purger.count() >= 3 }, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	after := purger.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, purger.count(), "no sweeps after Stop")

	s.Stop()
}

func TestStart_StopsWithContext(t *testing.T) {
	purger := &fakePurger{}
	s := NewPurgeScheduler(purger, time.Hour, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return purger.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Stop()
}
