package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	defaultLogger *slog.Logger
	loggerMu      sync.RWMutex
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// Init configures the global logger. Level is one of debug, info, warn
// or error; anything else falls back to warn so normal runs stay quiet.
func Init(level string) {
	lvl := parseLevel(level)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	})

	loggerMu.Lock()
	defaultLogger = slog.New(handler)
	loggerMu.Unlock()

	slog.SetDefault(defaultLogger)
}

// Suppress redirects all logging to io.Discard. The review viewer uses
// this so log lines cannot corrupt the terminal layout.
func Suppress() {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	loggerMu.Lock()
	defaultLogger = discard
	loggerMu.Unlock()

	slog.SetDefault(discard)
}

// Get returns the current global logger
func Get() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// WithComponent returns a logger tagged with the originating component
func WithComponent(component string) *slog.Logger {
	return Get().With("component", component)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
