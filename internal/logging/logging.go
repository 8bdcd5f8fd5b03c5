// Package logging holds the process-wide structured logger. Operations in
// this module log through it; the default is a no-op logger so library use
// stays silent unless the caller opts in.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/monner/black-jack/internal/config"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init builds the global logger from configuration. VerboseLogging enables
// a development console logger at debug level; otherwise logging stays off.
func Init(cfg config.Config) error {
	if !cfg.VerboseLogging {
		SetLogger(zap.NewNop())
		return nil
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	l, err := zcfg.Build()
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// SetLogger replaces the global logger. Passing nil restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Op returns a logger scoped to one operation name.
func Op(name string) *zap.Logger {
	return Logger().With(zap.String("op", name))
}

// Sync flushes buffered log entries.
func Sync() error {
	return Logger().Sync()
}
