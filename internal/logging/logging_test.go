package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/cinescope/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{" info+2 ", slog.LevelInfo + 2},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "WARN")

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal(lines[0], &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "kept" || rec["key"] != "value" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestSetupLogger_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cinescope.log")
	logger, err := SetupLogger(&config.LoggingConfig{File: path, Level: "DEBUG"})
	if err != nil {
		t.Fatalf("SetupLogger() error = %v", err)
	}
	logger.Debug("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !bytes.Contains(data, []byte("hello")) {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestNewLogger_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "DEBUG")
	logger.Info("login", "user", "alice", "password", "hunter2", "API_KEY", "abc123")

	if bytes.Contains(buf.Bytes(), []byte("hunter2")) || bytes.Contains(buf.Bytes(), []byte("abc123")) {
		t.Fatalf("secret written to log: %s", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["user"] != "alice" || rec["password"] != Redacted || rec["API_KEY"] != Redacted {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestSetupLogger_EmptyFileDiscards(t *testing.T) {
	logger, err := SetupLogger(&config.LoggingConfig{Level: "DEBUG"})
	if err != nil {
		t.Fatalf("SetupLogger() error = %v", err)
	}
	if logger == nil {
		t.Fatal("SetupLogger() returned nil logger")
	}
	logger.Info("nowhere")
}
