// Package logging builds the zerolog logger shared by the daemon and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type options struct {
	level   zerolog.Level
	console io.Writer
	file    string
}

type Option func(*options)

// WithLevel sets the minimum level.
func WithLevel(level zerolog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithConsole writes human-readable output to w.
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithFile appends uncolored output to the file at path.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// ParseLevel maps config level names to zerolog levels. "warning" is
// accepted as an alias of "warn".
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "warning":
		return zerolog.WarnLevel, nil
	case "":
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// New builds a logger. The returned close function releases the log file
// and is safe to call when no file was opened.
func New(opts ...Option) (zerolog.Logger, func() error, error) {
	o := options{level: zerolog.InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}

	var writers []io.Writer
	if o.console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        o.console,
			TimeFormat: time.RFC3339,
		})
	}

	closeFn := func() error { return nil }
	if o.file != "" {
		if err := os.MkdirAll(filepath.Dir(o.file), 0755); err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(o.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
		closeFn = f.Close
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closeFn, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(o.level).
		With().
		Timestamp().
		Logger()
	return logger, closeFn, nil
}
