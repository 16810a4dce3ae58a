// Package logging builds the zap loggers used by projassist commands.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewServer returns the logger for the gateway server. Production JSON on
// stderr by default, a development console encoder when verbose.
func NewServer(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	return zap.NewProduction()
}

// NewTUI returns a logger that never writes to the terminal. When verbose
// and path are both set, entries go to path as JSON; otherwise logging is
// disabled.
func NewTUI(verbose bool, path string) (*zap.Logger, error) {
	if !verbose || path == "" {
		return zap.NewNop(), nil
	}
	return NewFile(path, zapcore.DebugLevel)
}

// NewFile returns a JSON logger appending to path at the given level.
func NewFile(path string, level zapcore.Level) (*zap.Logger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logger, nil
}

// NewCLI returns the logger for one-shot commands: development output on
// stderr when verbose, otherwise nothing.
func NewCLI(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
