package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger settings, usually parsed from the environment.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// Format is json or text.
	Format string       `env:"LOG_FORMAT" envDefault:"json"`
	Sentry SentryConfig `envPrefix:""`
}

// New creates a logger writing to stdout, optionally mirrored to Sentry.
// Context extractors are applied to every destination.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg, extractors...)
}

// NewWithWriter is New with an explicit output writer.
func NewWithWriter(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	handler := base
	if sh, err := newSentryHandler(cfg.Sentry); err != nil {
		// Sentry is optional; keep logging locally.
		slog.New(base).Error("failed to initialize Sentry", slog.String("error", err.Error()))
	} else if sh != nil {
		handler = newMultiHandler(base, sh)
	}

	return slog.New(NewLogHandlerDecorator(handler, extractors...))
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to slog.Level. Unknown names yield Info.
func ParseLevel(s string) slog.Level {
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
