package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewStructuredLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("cfstep-helm", "v1.0.0", Options{JSON: true, Writer: &buf})
	logger.Info("hello", "key", "value")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if rec["module"] != "cfstep-helm" || rec["version"] != "v1.0.0" || rec["key"] != "value" {
		t.Fatalf("unexpected record: %#v", rec)
	}
}

func TestNewStructuredLogger_DebugFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("cfstep-helm", "dev", Options{Writer: &buf})
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %q", buf.String())
	}

	buf.Reset()
	logger = NewStructuredLogger("cfstep-helm", "dev", Options{Debug: true, Writer: &buf})
	logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug record missing: %q", buf.String())
	}
}
