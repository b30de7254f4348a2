// Package logging contains the structured loggers used by the renderer.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// Logger is the logger type passed through the renderer
type Logger = *zap.SugaredLogger

// NewLoggerConfig returns the default console logger config: Info+ to stderr
// with colored levels and no stacktraces.
func NewLoggerConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger returns a named logger that outputs Info+ logs
func NewLogger(name string) Logger {
	return NewLevelLogger(name, zap.InfoLevel)
}

// NewDebugLogger returns a named logger that outputs Debug+ logs
func NewDebugLogger(name string) Logger {
	return NewLevelLogger(name, zap.DebugLevel)
}

// NewLevelLogger returns a named logger that outputs logs at level and above
func NewLevelLogger(name string, level zapcore.Level) Logger {
	config := NewLoggerConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	logger, err := config.Build()
	if err != nil {
		// Only fails on unopenable output paths, and stderr always opens
		panic(err)
	}
	return logger.Sugar().Named(name)
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() Logger {
	return zap.NewNop().Sugar()
}

// NewTestLogger directs Debug+ logs to the go test logger
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also saves logs to an in memory observer
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	logger := zaptest.NewLogger(tb, zaptest.Level(zap.DebugLevel))
	observerCore, observedLogs := observer.New(zap.LevelEnablerFunc(zapcore.DebugLevel.Enabled))
	logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, observerCore)
	}))
	return logger.Sugar(), observedLogs
}
