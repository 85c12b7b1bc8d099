// Package scheduler triggers fetch cycles on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	"github.com/nguyentranbao-ct/price-tracker/internal/usecase"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
	log "github.com/nguyentranbao-ct/price-tracker/pkg/logger/log"
	"go.uber.org/fx"
)

type Scheduler interface {
	Start(ctx context.Context)
	Stop()
	Interval() time.Duration
}

type scheduler struct {
	tracker    usecase.TrackerUsecase
	interval   time.Duration
	runOnStart bool
	enabled    bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(conf *config.Config, tracker usecase.TrackerUsecase) Scheduler {
	return &scheduler{
		tracker:    tracker,
		interval:   conf.Scheduler.Interval,
		runOnStart: conf.Scheduler.RunOnStart,
		enabled:    conf.Scheduler.Enabled,
	}
}

func (s *scheduler) Interval() time.Duration {
	return s.interval
}

// Start launches the tick loop in the background. It is a no-op when the
// scheduler is disabled.
func (s *scheduler) Start(ctx context.Context) {
	if !s.enabled {
		log.Warnf(ctx, "Scheduler is disabled in configuration")
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
}

func (s *scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *scheduler) loop(ctx context.Context) {
	log.Infow(ctx, "scheduler started", "interval", s.interval.String(), "run_on_start", s.runOnStart)
	if s.runOnStart {
		s.tick(ctx)
	}

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Infow(ctx, "scheduler stopped")
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

// tick runs one cycle. A panic or error never stops the loop.
func (s *scheduler) tick(ctx context.Context) {
	ctx = logger.WithFields(ctx, "trigger", "scheduler")
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			length := runtime.Stack(stack, false)
			log.Errorw(ctx, "PANIC RECOVER", "error", fmt.Sprint(r), "stack", string(stack[:length]))
		}
	}()

	res, err := s.tracker.Refresh(ctx)
	if err != nil {
		log.Errorw(ctx, "scheduled refresh failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	log.Infow(ctx, "scheduled refresh done",
		"updated", res.Updated,
		"stale", res.Stale,
		"products", len(res.Products),
		"changes", len(res.Changes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// StartScheduler ties the scheduler to the app lifecycle.
func StartScheduler(lc fx.Lifecycle, s Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start(context.Background())
			return nil
		},
		OnStop: func(context.Context) error {
			s.Stop()
			return nil
		},
	})
}
