package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a zerolog.Logger that knows the run's context fields
type Logger struct {
	zerolog.Logger
}

// LoggerOptions configures NewLogger
type LoggerOptions struct {
	Level   string    // zerolog level name; unknown names mean info
	Format  string    // "pretty" for console output, anything else is JSON
	Output  io.Writer // os.Stderr when nil
	Verbose bool      // forces debug
}

// NewLogger creates a timestamped logger
func NewLogger(opts LoggerOptions) *Logger {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	if opts.Format == "pretty" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	level := levelFromName(opts.Level)
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	return &Logger{Logger: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

func levelFromName(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func (l *Logger) with(key, value string) *Logger {
	return &Logger{Logger: l.Logger.With().Str(key, value).Logger()}
}

// WithComponent tags events with the emitting package
func (l *Logger) WithComponent(component string) *Logger { return l.with("component", component) }

// WithRepo tags events with owner/repo
func (l *Logger) WithRepo(owner, repo string) *Logger { return l.with("repo", owner+"/"+repo) }

// WithRunID tags events with the run identifier
func (l *Logger) WithRunID(id string) *Logger { return l.with("run_id", id) }
