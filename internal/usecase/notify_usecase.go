package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
	log "github.com/nguyentranbao-ct/price-tracker/pkg/logger/log"
	"github.com/nguyentranbao-ct/price-tracker/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

type notifyUsecase struct {
	sinks   []Sink
	metrics *prometheus.HistogramVec
}

// NewNotifyUsecase fans a change log out to every sink. A failing sink does
// not stop the others.
func NewNotifyUsecase(sinks []Sink) (NotifyUsecase, error) {
	metrics, err := util.GetHistogramVec("notify_sink_duration_seconds", "sink", "code")
	if err != nil {
		return nil, err
	}
	return &notifyUsecase{
		sinks:   sinks,
		metrics: metrics,
	}, nil
}

func (uc *notifyUsecase) Notify(ctx context.Context, changeLog models.ChangeLog) error {
	ctx = logger.WithFields(ctx, "change_log_id", changeLog.ID)

	var g errgroup.Group
	for _, sink := range uc.sinks {
		g.Go(func() error {
			start := time.Now()
			err := sink.Publish(ctx, changeLog)
			code := "ok"
			if err != nil {
				code = "error"
			}
			uc.metrics.WithLabelValues(sink.Name(), code).Observe(time.Since(start).Seconds())
			if err != nil {
				log.Errorw(ctx, "publish change log", "sink", sink.Name(), "error", err)
				return fmt.Errorf("%s: %w", sink.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
