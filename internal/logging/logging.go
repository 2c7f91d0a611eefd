// Package logging holds the process-wide slog logger used by the build.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

const (
	envLevel = "SVGASSET_LOG_LEVEL"
	envJSON  = "SVGASSET_LOG_JSON"
)

type Options struct {
	Level  string
	JSON   bool
	Output io.Writer // defaults to stderr
}

var current atomic.Pointer[slog.Logger]

func init() {
	Configure(Options{})
}

// New builds a logger from opts without installing it.
func New(opts Options) *slog.Logger {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func Configure(opts Options) { current.Store(New(opts)) }

// Set swaps the process logger, mostly for tests that capture output.
func Set(l *slog.Logger) {
	if l != nil {
		current.Store(l)
	}
}

func L() *slog.Logger { return current.Load() }

// For returns L() tagged with the component name.
func For(component string) *slog.Logger { return L().With("component", component) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// InitFromEnv reads SVGASSET_LOG_LEVEL and SVGASSET_LOG_JSON.
func InitFromEnv() {
	json, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(envJSON)))
	Configure(Options{Level: os.Getenv(envLevel), JSON: json})
}
