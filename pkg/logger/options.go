package logger

import (
	"io"
	"log/slog"
)

// Format selects the handler New builds.
type Format int

const (
	// FormatText is slog's logfmt-style text handler.
	FormatText Format = iota

	// FormatPretty is the charmbracelet/log handler for terminals.
	FormatPretty

	// FormatJSON is slog's JSON handler, used for --log-json and log files.
	FormatJSON
)

// ConsoleFormat picks the stderr format for the CLI: JSON when asked for,
// pretty on a terminal, plain text otherwise.
func ConsoleFormat(asJSON, terminal bool) Format {
	switch {
	case asJSON:
		return FormatJSON
	case terminal:
		return FormatPretty
	default:
		return FormatText
	}
}

// Option configures a Logger created with New.
type Option func(*config)

// WithDebug lowers the level to Debug and reports the caller's source
// location on every record. --debug turns both on together.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		c.source = debug
		if debug {
			c.level = slog.LevelDebug
		}
	}
}

// WithFormat selects the handler. Defaults to FormatText.
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithWriter overrides the output writer. Defaults to os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.writer = w
		}
	}
}

// WithAttrs binds attributes to every record, e.g. the running command.
func WithAttrs(args ...any) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, args...)
	}
}
