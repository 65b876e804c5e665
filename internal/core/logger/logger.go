package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the development console logger used by CLI commands that run
// before the configuration is loaded.
func NewLogger() *zap.Logger {
	logger, err := New("debug", "console")
	if err != nil {
		panic(err)
	}
	return logger
}

// New builds a logger for level ("debug", "info", ...) and format ("console" or
// "json").
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var loggerConfig zap.Config
	switch format {
	case "json":
		loggerConfig = zap.NewProductionConfig()
	case "console", "":
		loggerConfig = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	loggerConfig.Level = zap.NewAtomicLevelAt(lvl)
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return loggerConfig.Build()
}
