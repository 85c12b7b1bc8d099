// Package logger holds the process wide zap logger and hands out named
// sugared children of it.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

type Config struct {
	Level       string
	Development bool
}

var (
	mu    sync.RWMutex
	root  = zap.NewNop()
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	if l, err := build(Config{Level: "info"}); err == nil {
		root = l
	}
}

// Init replaces the root logger. Loggers returned by Named before the call
// keep the previous configuration.
func Init(cfg Config) error {
	l, err := build(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	root = l
	return nil
}

func build(cfg Config) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	level.SetLevel(lvl)

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

// Root returns the unnamed root logger.
func Root() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

func Named(name string) (*zap.SugaredLogger, error) {
	if name == "" {
		return nil, fmt.Errorf("logger name is required")
	}
	return Root().Named(name).Sugar(), nil
}

func MustNamed(name string) *zap.SugaredLogger {
	l, err := Named(name)
	if err != nil {
		panic(err)
	}
	return l
}

// Replace swaps the root logger and returns a func restoring the previous
// one. Intended for tests.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	defer mu.Unlock()
	prev := root
	root = l
	return func() {
		mu.Lock()
		defer mu.Unlock()
		root = prev
	}
}
