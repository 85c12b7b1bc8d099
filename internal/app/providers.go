package app

import (
	"context"
	"time"

	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	"github.com/nguyentranbao-ct/price-tracker/internal/kafka"
	"github.com/nguyentranbao-ct/price-tracker/internal/parser"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/memory"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/telegram"
	"github.com/nguyentranbao-ct/price-tracker/internal/usecase"
	"go.uber.org/fx"
)

func newParser(conf *config.Config) parser.Parser {
	return parser.New(parser.WithMaxPrice(conf.Source.MaxPrice))
}

func newChangeHistory(conf *config.Config) memory.ChangeHistory {
	return memory.NewChangeHistory(conf.History.Capacity)
}

// newMongoDB returns a nil DB when the archive is disabled.
func newMongoDB(lc fx.Lifecycle, conf *config.Config) (*mongodb.DB, error) {
	if !conf.Database.Enabled {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := mongodb.NewConnection(ctx, conf.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: db.Ping,
		OnStop:  db.Close,
	})
	return db, nil
}

func newSinks(
	tg telegram.Client,
	publisher kafka.Publisher,
	archive mongodb.ChangeLogRepository,
) []usecase.Sink {
	return []usecase.Sink{tg, publisher, archive}
}

func ensureIndexes(lc fx.Lifecycle, archive mongodb.ChangeLogRepository) {
	lc.Append(fx.StartHook(archive.EnsureIndexes))
}
