package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// -----------------------------------------------------------------------------

// Logger provides named, printf-style logging on top of zap.
type Logger struct {
	name  string
	sugar *zap.SugaredLogger
	base  *zap.Logger
}

type levelSource interface {
	LogLevelName() string
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance. config may be nil, in which case INFO is used.
func NewLogger(config interface{}, name string) *Logger {
	level := "INFO"
	if src, ok := config.(levelSource); ok && src.LogLevelName() != "" {
		level = src.LogLevelName()
	}
	return newWithZap(buildZap(level), name)
}

// -----------------------------------------------------------------------------

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger(name string) *Logger {
	return newWithZap(zap.NewNop(), name)
}

// -----------------------------------------------------------------------------

func newWithZap(z *zap.Logger, name string) *Logger {
	named := z.Named(name)
	return &Logger{
		name:  name,
		sugar: named.Sugar(),
		base:  named,
	}
}

// -----------------------------------------------------------------------------

func buildZap(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.DisableStacktrace = true

	z, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return z
}

// -----------------------------------------------------------------------------

// ParseLevel maps config level names (DEBUG, INFO, WARNING, ERROR) onto zap levels.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARNING", "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "CRITICAL", "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// -----------------------------------------------------------------------------

// Name returns the component name the logger was created with
func (l *Logger) Name() string {
	return l.name
}

// -----------------------------------------------------------------------------

// Zap exposes the underlying structured logger for libraries that want one.
func (l *Logger) Zap() *zap.Logger {
	return l.base
}

// -----------------------------------------------------------------------------

// Debug logs debugging messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// -----------------------------------------------------------------------------

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
