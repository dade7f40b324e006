package logger

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base = zap.NewNop()

var serviceName = "marketsignal"

// Init builds the process-wide logger at the given level (debug|info|warn|error).
func Init(level string) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	base = l.With(zap.String("service", serviceName))
	return nil
}

// Use replaces the process-wide logger, mainly for tests.
func Use(l *zap.Logger) { base = l }

// Sync flushes buffered entries.
func Sync() { _ = base.Sync() }

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(format string, args ...interface{}) { base.Debug(fmt.Sprintf(format, args...)) }
func Info(format string, args ...interface{})  { base.Info(fmt.Sprintf(format, args...)) }
func Warn(format string, args ...interface{})  { base.Warn(fmt.Sprintf(format, args...)) }
func Error(format string, args ...interface{}) { base.Error(fmt.Sprintf(format, args...)) }
func Fatal(format string, args ...interface{}) { base.Fatal(fmt.Sprintf(format, args...)) }
