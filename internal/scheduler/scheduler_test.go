package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/nguyentranbao-ct/price-tracker/internal/usecase"
	"github.com/stretchr/testify/assert"
)

type stubTracker struct {
	usecase.TrackerUsecase
	calls atomic.Int32
	fn    func(n int32) (*models.FetchResult, error)
}

func (s *stubTracker) Refresh(context.Context) (*models.FetchResult, error) {
	n := s.calls.Add(1)
	return s.fn(n)
}

func newTestScheduler(enabled, runOnStart bool, tracker usecase.TrackerUsecase) Scheduler {
	return NewScheduler(&config.Config{Scheduler: config.SchedulerConfig{
		Enabled:    enabled,
		Interval:   10 * time.Millisecond,
		RunOnStart: runOnStart,
	}}, tracker)
}

func TestSchedulerTicksUntilStopped(t *testing.T) {
	t.Parallel()

	tracker := &stubTracker{fn: func(n int32) (*models.FetchResult, error) {
		switch n {
		case 1:
			return nil, errors.New("source down")
		case 2:
			panic("unexpected")
		}
		return &models.FetchResult{Updated: true}, nil
	}}
	s := newTestScheduler(true, true, tracker)
	assert.Equal(t, 10*time.Millisecond, s.Interval())

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		return tracker.calls.Load() >= 4
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := tracker.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, tracker.calls.Load())
}

func TestSchedulerRunOnStart(t *testing.T) {
	t.Parallel()

	tracker := &stubTracker{fn: func(int32) (*models.FetchResult, error) {
		return &models.FetchResult{}, nil
	}}
	s := NewScheduler(&config.Config{Scheduler: config.SchedulerConfig{
		Enabled:    true,
		Interval:   time.Hour,
		RunOnStart: true,
	}}, tracker)

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		return tracker.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestSchedulerDisabled(t *testing.T) {
	t.Parallel()

	tracker := &stubTracker{fn: func(int32) (*models.FetchResult, error) {
		return &models.FetchResult{}, nil
	}}
	s := newTestScheduler(false, true, tracker)

	s.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	s.Stop()
	assert.Equal(t, int32(0), tracker.calls.Load())
}
