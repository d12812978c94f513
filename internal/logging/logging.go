package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/cinescope/internal/config"
)

// Redacted replaces the value of sensitive attributes
const Redacted = "[redacted]"

// sensitiveKeys are attribute keys whose values never reach the log file
var sensitiveKeys = map[string]bool{
	"password": true,
	"pass":     true,
	"api_key":  true,
	"apikey":   true,
	"token":    true,
}

// SetupLogger opens the configured log file and returns a JSON logger
// writing to it. An empty file name discards all output.
func SetupLogger(cfg *config.LoggingConfig) (*slog.Logger, error) {
	logPath := config.ExpandHome(cfg.File)
	if logPath == "" {
		return NullLogger(), nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewLogger(logFile, cfg.Level), nil
}

// NewLogger creates a JSON logger writing to w at the given level.
// Credentials passed as attributes are masked.
func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: redact,
	})
	return slog.New(handler)
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Redacted)
	}
	return a
}

// ParseLevel converts a level name such as "debug", "WARNING" or "INFO+2"
// to a slog.Level. Unknown names give INFO.
func ParseLevel(level string) slog.Level {
	level = strings.ToUpper(strings.TrimSpace(level))
	if level == "WARNING" {
		level = "WARN"
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
