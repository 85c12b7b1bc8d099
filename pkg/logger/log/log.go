// Package log writes through the root logger, adding the fields attached to
// the context with logger.WithFields.
package log

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
	"go.uber.org/zap"
)

func sugar(ctx context.Context) *zap.SugaredLogger {
	l := logger.Root().WithOptions(zap.AddCallerSkip(1)).Sugar()
	if kv := logger.Fields(ctx); len(kv) > 0 {
		l = l.With(kv...)
	}
	return l
}

func Logw(ctx context.Context, level logger.Level, msg string, kv ...any) {
	sugar(ctx).Logw(level, msg, kv...)
}

func Debugw(ctx context.Context, msg string, kv ...any) {
	sugar(ctx).Debugw(msg, kv...)
}

func Infow(ctx context.Context, msg string, kv ...any) {
	sugar(ctx).Infow(msg, kv...)
}

func Warnw(ctx context.Context, msg string, kv ...any) {
	sugar(ctx).Warnw(msg, kv...)
}

func Errorw(ctx context.Context, msg string, kv ...any) {
	sugar(ctx).Errorw(msg, kv...)
}

func Infof(ctx context.Context, template string, args ...any) {
	sugar(ctx).Info(fmt.Sprintf(template, args...))
}

func Warnf(ctx context.Context, template string, args ...any) {
	sugar(ctx).Warn(fmt.Sprintf(template, args...))
}

func Errorf(ctx context.Context, template string, args ...any) {
	sugar(ctx).Error(fmt.Sprintf(template, args...))
}
