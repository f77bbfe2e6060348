// Package logger holds the process-wide zap logger.
// Until Setup or SetLogger is called, everything logged is discarded.
package logger

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop().Sugar()
)

// Logger returns the process-wide logger.
func Logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// SetLogger replaces the process-wide logger. A nil logger discards everything.
func SetLogger(log *zap.SugaredLogger) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	mu.Lock()
	global = log
	mu.Unlock()
}

// New creates a console logger writing to w which logs everything at or above level.
// Valid levels are debug, info, warn and error.
func New(level string, w io.Writer) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(w)), lvl)
	return zap.New(core).Sugar(), nil
}

// Setup creates a logger with New and installs it as the process-wide logger.
func Setup(level string, w io.Writer) error {
	log, err := New(level, w)
	if err != nil {
		return err
	}

	SetLogger(log)
	return nil
}
