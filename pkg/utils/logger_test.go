package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLogLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := logLevelFromString(tt.input); got != tt.expected {
			t.Errorf("logLevelFromString(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, LoggerConfig{LogLevel: "warn"})

	logger.Info("hidden")
	logger.Warn("shown", slog.String("studyKey", "s1"))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "shown" || entry["studyKey"] != "s1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestLoadBuildInfoAsSlogAttrs(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "build-info.yaml")
	if err := os.WriteFile(filename, []byte("version: v1.2.0\ncommit: abc\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	attrs, err := loadBuildInfoAsSlogAttrs(filename, "build.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values := map[string]string{}
	for _, a := range attrs {
		values[a.Key] = a.Value.String()
	}
	if values["build.version"] != "v1.2.0" || values["build.commit"] != "abc" {
		t.Errorf("unexpected attrs: %v", values)
	}

	if _, err := loadBuildInfoAsSlogAttrs(filepath.Join(t.TempDir(), "missing.yaml"), "build."); err == nil {
		t.Error("expected error for missing file")
	}
}
