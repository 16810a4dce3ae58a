package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewTUI_DisabledWithoutVerbose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tui.log")

	logger, err := NewTUI(false, path)
	if err != nil {
		t.Fatalf("NewTUI() error = %v", err)
	}
	logger.Info("hidden")
	_ = logger.Sync()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("log file should not be created, stat err = %v", err)
	}
}

func TestNewTUI_NoPath(t *testing.T) {
	logger, err := NewTUI(true, "")
	if err != nil {
		t.Fatalf("NewTUI() error = %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without a path should be a no-op")
	}
}

func TestNewTUI_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tui.log")

	logger, err := NewTUI(true, path)
	if err != nil {
		t.Fatalf("NewTUI() error = %v", err)
	}
	logger.Debug("turn settled", zap.Int("turn", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "turn settled") {
		t.Errorf("log file = %q, want entry", data)
	}
}

func TestNewServer(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		logger, err := NewServer(verbose)
		if err != nil {
			t.Fatalf("NewServer(%v) error = %v", verbose, err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != verbose {
			t.Errorf("NewServer(%v) debug enabled = %v", verbose, got)
		}
	}
}

func TestNewCLI(t *testing.T) {
	if NewCLI(false).Core().Enabled(zapcore.ErrorLevel) {
		t.Error("quiet CLI logger should be a no-op")
	}
	if !NewCLI(true).Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose CLI logger should log debug")
	}
}
