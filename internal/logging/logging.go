// Package logging builds the zap loggers used by the command line tool and
// turns configuration diagnostics into log entries.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/rtdcconfig/internal/config"
)

// Config configures a logger.
type Config struct {
	// Level is one of debug, info, warn or error.
	Level string

	// Development selects a human readable console encoder instead of JSON.
	Development bool

	// OutputPath is an additional file to write to. Logs always go to stderr.
	OutputPath string
}

// DefaultConfig returns the configuration used by the command line tool.
func DefaultConfig() Config {
	return Config{Level: "warn", Development: true}
}

// ParseLevel converts a level name.
func ParseLevel(name string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q", name)
	}
	return lvl, nil
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.DisableCaller = true

	outputs := []string{"stderr"}
	if cfg.OutputPath != "" {
		outputs = append(outputs, cfg.OutputPath)
	}
	zapConfig.OutputPaths = outputs
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapConfig.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// DiagnosticHandler returns a handler logging every diagnostic at warn
// level. Wrong type diagnostics are advisory and logged at info level.
func DiagnosticHandler(logger *zap.Logger) config.DiagnosticHandler {
	return func(d config.Diagnostic) {
		fields := DiagnosticFields(d)
		if d.Code.Blocking() {
			logger.Warn(d.Message, fields...)
			return
		}
		logger.Info(d.Message, fields...)
	}
}

// DiagnosticFields returns the structured fields describing d.
func DiagnosticFields(d config.Diagnostic) []zap.Field {
	fields := []zap.Field{
		zap.String("code", d.Code.String()),
		zap.String("section", d.Section),
		zap.String("key", d.Key),
	}
	if !d.Value.IsNone() {
		fields = append(fields, zap.Stringer("value", d.Value))
	}
	if d.Suggestion != "" {
		fields = append(fields, zap.String("suggestion", d.Suggestion))
	}
	return fields
}
