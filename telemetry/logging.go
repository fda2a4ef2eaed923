package telemetry

import (
	"github.com/go-chi/httplog/v2"
	"log/slog"
	"os"
	"strings"
)

type LogConfig struct {
	Level string
	JSON  bool
}

// NewLogger builds the process logger. Output goes to stderr so stdout carries only query results.
func NewLogger(service string, config LogConfig) *httplog.Logger {
	return httplog.NewLogger(service, httplog.Options{
		LogLevel:         ParseLevel(config.Level),
		MessageFieldName: "msg",
		JSON:             config.JSON,
		Concise:          true,
		RequestHeaders:   false,
		ResponseHeaders:  false,
		Writer:           os.Stderr,
	})
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
