// Package logging builds the slog loggers used by the commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/golang-cz/devslog"
)

// New returns a logger writing to w. Verbose loggers print everything at
// debug level in a human-friendly layout; otherwise records below level are
// dropped and the rest use slog's text format.
func New(w io.Writer, verbose bool, level string) (*slog.Logger, error) {
	if verbose {
		return slog.New(devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{Level: slog.LevelDebug},
		})), nil
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// ParseLevel parses "debug", "info", "warn" or "error". Empty means warn.
func ParseLevel(level string) (slog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return slog.LevelWarn, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
