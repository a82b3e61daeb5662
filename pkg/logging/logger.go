// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for CampusGraph components.
//
// The package is a thin layer over the standard library slog package:
//
//   - Default: human-readable text on stderr (CLI usage)
//   - Services: JSON on stdout, tagged with a "service" attribute
//
// # Basic Usage
//
//	logger := logging.Default()
//	logger.Info("sync run started", "stages", 9)
//	logger.Error("report failed", "error", err)
//
// # Service Usage
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelDebug,
//	    Service: "gateway",
//	    JSON:    true,
//	})
//
// Logger is safe for concurrent use.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Level represents log severity. Levels follow the slog convention and
// are ordered Debug < Info < Warn < Error; setting a minimum level
// filters out everything below it.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a LOG_LEVEL-style string to a Level. Unknown values
// fall back to LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Config configures Logger behavior. The zero value creates a logger
// that writes Info+ messages to stderr in text format.
type Config struct {
	// Level sets the minimum log level. Default: LevelInfo.
	Level Level

	// Service identifies the component generating logs. When set it is
	// included in every entry as the "service" attribute.
	Service string

	// JSON enables machine-parseable JSON output on stdout instead of
	// text on stderr.
	JSON bool

	// Writer overrides the output destination. Used in tests.
	Writer io.Writer
}

// Logger is a structured logger. It embeds *slog.Logger, so all the
// usual Info/Warn/Error/Debug key-value methods are available.
type Logger struct {
	*slog.Logger
}

// New creates a Logger from the given Config.
func New(cfg Config) *Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level.toSlogLevel()}

	var handler slog.Handler
	if cfg.JSON {
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		handler = slog.NewJSONHandler(w, opts)
	} else {
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	if cfg.Service != "" {
		l = l.With("service", cfg.Service)
	}
	return &Logger{Logger: l}
}

// Default returns a text logger on stderr at Info level.
func Default() *Logger {
	return New(Config{})
}

// With returns a Logger that includes the given attributes in every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}
