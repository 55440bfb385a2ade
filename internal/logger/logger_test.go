package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/aliskhannn/memorise-bot/internal/config"
)

// TestNewLevels verifies production logs from info and development from debug.
func TestNewLevels(t *testing.T) {
	prod, err := New(&config.Config{Env: "production"})
	if err != nil {
		t.Fatalf("production logger: %v", err)
	}
	if prod.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("production logger must not log debug")
	}

	dev, err := New(&config.Config{Env: "local"})
	if err != nil {
		t.Fatalf("development logger: %v", err)
	}
	if !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("development logger must log debug")
	}
}
