package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"sectors-server/internal/shared/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelDebug},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		New(config.LoggingConfig{Level: "info", JSONFormat: true}, &buf).Info("Sector generated", "sector_id", "s1")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not JSON: %q", buf.String())
		}
		if entry["sector_id"] != "s1" {
			t.Errorf("entry = %v", entry)
		}
	})

	t.Run("text filters by level", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.LoggingConfig{Level: "warn"}, &buf)
		log.Info("hidden")
		log.Warn("shown")

		if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "msg=shown") {
			t.Errorf("output = %q", buf.String())
		}
	})
}
