package telemetry

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/caolo-go/sim/internal/config"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	log, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !log.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected error level enabled at warn threshold")
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level disabled at warn threshold")
	}
}

func TestNewLoggerConsoleFormatDefaultsOnBadLevel(t *testing.T) {
	log, err := NewLogger(config.LoggingConfig{Level: "not-a-level", Format: "console"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected fallback to info level")
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level disabled under info fallback")
	}
}
