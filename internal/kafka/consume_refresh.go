package kafka

import (
	"context"

	log "github.com/nguyentranbao-ct/price-tracker/pkg/logger/log"
	"go.uber.org/fx"
)

// StartConsumeRefresh runs the refresh consumer for the lifetime of the app.
// A consumer that exits with an error shuts the app down.
func StartConsumeRefresh(lc fx.Lifecycle, sd fx.Shutdowner, consumer Consumer) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := consumer.Start(ctx); err != nil {
					log.Errorw(ctx, "Kafka consumer stopped", "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return consumer.Stop(stopCtx)
		},
	})
}

// ClosePublisherOnStop flushes the change publisher when the app stops.
func ClosePublisherOnStop(lc fx.Lifecycle, publisher Publisher) {
	lc.Append(fx.StopHook(publisher.Close))
}
