// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config selects how the process logger writes.
type Config struct {
	// Level is trace, debug, info, warn, error or disabled. Blank or unknown
	// names log at info.
	Level string

	// Format is json, or console for a human reading a terminal.
	Format string

	// Caller adds file:line to every entry.
	Caller bool

	// Timestamp adds the time field.
	// Default: true
	Timestamp bool

	// Version, when set, is stamped on every entry.
	Version string

	// Output receives log entries. Query results go to stdout, so the
	// default is os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the configuration used before Init is called.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// current is swapped whole by Init, so readers never see a half-built logger.
var current atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // package-level helpers must log before main calls Init
func init() {
	Init(DefaultConfig())
}

// Init builds the process logger from cfg and installs it. The level is
// applied through zerolog's global level, so component loggers created
// earlier follow it too.
func Init(cfg Config) {
	l := build(cfg)
	current.Store(&l)
}

func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.SetGlobalLevel(levelOf(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"

	lc := zerolog.New(out).With()
	if cfg.Timestamp {
		lc = lc.Timestamp()
	}
	if cfg.Caller {
		lc = lc.Caller()
	}
	if cfg.Version != "" {
		lc = lc.Str("version", cfg.Version)
	}
	return lc.Logger()
}

// levelOf maps a configured level name onto zerolog's. "warning" is
// accepted for warn.
func levelOf(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Logger returns the process logger. Components receive it (or a child of
// it) through their constructors instead of reaching for package state.
func Logger() zerolog.Logger {
	return *current.Load()
}

// WithComponent returns a child of the process logger tagged with the
// component that owns it.
//
//	rec, err := recommend.New(cfg, logging.WithComponent("recommend"))
func WithComponent(component string) zerolog.Logger {
	return current.Load().With().Str("component", component).Logger()
}

// Info starts an info entry on the process logger.
func Info() *zerolog.Event { return current.Load().Info() }

// Warn starts a warn entry on the process logger.
func Warn() *zerolog.Event { return current.Load().Warn() }

// Error starts an error entry on the process logger.
func Error() *zerolog.Event { return current.Load().Error() }

// NewTestLogger returns a logger writing JSON to w, for asserting on log
// output in tests.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
