package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"hotelbooking/internal/config"

	"github.com/rs/zerolog"
)

// New constructs the root zerolog logger from config.
// Defaults to JSON, info level, stdout when fields are empty.
func New(cfg config.LoggingConfig, app config.AppConfig) (*zerolog.Logger, io.Closer, error) {
	output := io.Writer(os.Stdout)
	var closer io.Closer

	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "", "stdout":
	case "stderr":
		output = os.Stderr
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logging.output=file requires logging.file_path")
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
		closer = file
	default:
		return nil, nil, fmt.Errorf("unknown logging.output %q", cfg.Output)
	}

	logger := NewWithWriter(output, cfg, app)
	return logger, closer, nil
}

// NewWithWriter builds the logger on an explicit writer.
func NewWithWriter(w io.Writer, cfg config.LoggingConfig, app config.AppConfig) *zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && cfg.Level != "" {
		level = parsed
	}

	if strings.ToLower(strings.TrimSpace(cfg.Format)) == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	base := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Logger()

	return &base
}

// Component derives a child logger tagged with the component name.
// A nil parent yields a disabled logger.
func Component(parent *zerolog.Logger, name string) *zerolog.Logger {
	if parent == nil {
		nop := zerolog.Nop()
		return &nop
	}
	child := parent.With().Str("component", name).Logger()
	return &child
}

// Ctx returns the request-scoped logger stored in ctx, or fallback when none is attached.
func Ctx(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	if fallback == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return fallback
}
