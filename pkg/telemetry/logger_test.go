package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galley.log")
	logger, err := NewLogger(LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: path,
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	logger.WithRunID("run-1").WithPhase("libraries").Info("phase started")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"run_id":"run-1"`) {
		t.Errorf("Expected run_id field, got %q", out)
	}
	if !strings.Contains(out, `"phase":"libraries"`) {
		t.Errorf("Expected phase field, got %q", out)
	}
	if !strings.Contains(out, "phase started") {
		t.Errorf("Expected message, got %q", out)
	}
}

func TestNewLogger_LevelFiltersOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galley.log")
	logger, err := NewLogger(LoggingConfig{
		Level:  "warn",
		Format: "json",
		Output: path,
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	logger.Debug("quiet")
	logger.Info("also quiet")
	logger.Warn("loud")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "quiet") {
		t.Errorf("Expected sub-warn messages filtered, got %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("Expected warn message, got %q", out)
	}
}

func TestNewComponentLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galley.log")
	logger, err := NewLogger(LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: path,
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	logger.NewComponentLogger("compile").Info("hello")

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"component":"compile"`) {
		t.Errorf("Expected component field, got %q", string(data))
	}
}

func TestLogger_ContextRoundTrip(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "info", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	ctx := logger.WithContext(context.Background())
	if got := FromContext(ctx); got != logger {
		t.Error("Expected the stored logger back from context")
	}

	// A bare context yields a usable default logger.
	if got := FromContext(context.Background()); got == nil {
		t.Error("Expected a fallback logger, got nil")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServiceVersion = "1.0.0"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got: %v", err)
	}

	bad := DefaultConfig()
	bad.Logging.Level = "shout"
	if err := bad.Validate(); err == nil {
		t.Error("Expected invalid log level to fail validation")
	}

	noAddr := DefaultConfig()
	noAddr.Metrics.ListenAddress = ""
	if err := noAddr.Validate(); err == nil {
		t.Error("Expected enabled metrics without address to fail validation")
	}
}
