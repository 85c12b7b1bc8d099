package app

import (
	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	"github.com/nguyentranbao-ct/price-tracker/internal/kafka"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/memory"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/source"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/telegram"
	"github.com/nguyentranbao-ct/price-tracker/internal/scheduler"
	"github.com/nguyentranbao-ct/price-tracker/internal/server"
	"github.com/nguyentranbao-ct/price-tracker/internal/usecase"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

// Module provides every component of the tracker. Entry points add their own
// invokes on top of it.
var Module = fx.Options(
	fx.Provide(
		newParser,
		newChangeHistory,
		newMongoDB,
		newSinks,

		source.NewClient,
		memory.NewSnapshotStore,
		telegram.NewClient,
		mongodb.NewChangeLogRepository,

		usecase.NewNotifyUsecase,
		usecase.NewTrackerUsecase,
		usecase.NewCatalogUsecase,

		kafka.NewPublisher,
		kafka.NewConsumer,
		kafka.NewRefreshHandler,

		scheduler.NewScheduler,
		server.NewHandler,
		server.NewEcho,
	),
	fx.Invoke(ensureIndexes),
)

// New builds the app from the environment configuration.
func New(opts ...fx.Option) *fx.App {
	conf := config.MustLoad()
	if err := logger.Init(logger.Config{
		Level:       conf.Log.Level,
		Development: conf.Log.Development,
	}); err != nil {
		panic(err)
	}

	log := logger.MustNamed("app")
	log.Debugw("config loaded",
		"source_url", conf.Source.URL,
		"scheduler_interval", conf.Scheduler.Interval.String(),
		"telegram_enabled", conf.Telegram.Enabled,
		"kafka_enabled", conf.Kafka.Enabled,
		"database_enabled", conf.Database.Enabled,
	)

	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Supply(conf),
		Module,
		fx.Options(opts...),
	)
}

// Invoke builds the app with funcs registered as invokes.
func Invoke(funcs ...any) *fx.App {
	return New(fx.Invoke(funcs...))
}
