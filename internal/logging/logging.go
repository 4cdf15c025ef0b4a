// Package logging builds the zap logger used by the command line tool.
// Logs go to stderr so that mapped traces can be written to stdout.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Encodings.
const (
	JSON    = "json"
	Console = "console"
)

// Config configures the logger.
type Config struct {
	Level       string
	Format      string
	ServiceName string
	// OutputPaths defaults to stderr.
	OutputPaths []string
}

// ParseLevel maps a level name to a zap level. "warn" is accepted for
// warning.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case Debug:
		return zap.DebugLevel, nil
	case Info, "":
		return zap.InfoLevel, nil
	case Warning, "warn":
		return zap.WarnLevel, nil
	case Error:
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("unknown log level %q (expected %s, %s, %s or %s)", level, Debug, Info, Warning, Error)
	}
}

// New builds a logger from cfg.
//
// The logger is configured with:
//   - JSON or console encoding
//   - ISO8601 timestamps under "timestamp"
//   - capital level names, colored on the console
//   - the service name as an initial field
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	encoding := strings.ToLower(cfg.Format)

	switch encoding {
	case "", JSON:
		encoding = JSON
	case Console:
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q (expected %s or %s)", cfg.Format, JSON, Console)
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	if cfg.ServiceName != "" {
		config.InitialFields = map[string]any{"service": cfg.ServiceName}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return logger, nil
}
