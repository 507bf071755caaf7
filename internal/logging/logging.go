// Package logging builds the diagnostic logger. Report lines never go
// through it; they are written straight to the report writer.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// DefaultLevel keeps the terminal quiet unless something goes wrong.
const DefaultLevel = "warn"

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a terminal logger writing to w at the named level.
func New(w io.Writer, level string, useColor bool) (log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(w, lvl, useColor)), nil
}

// Discard returns a logger that drops everything.
func Discard() log.Logger {
	return log.NewLogger(log.DiscardHandler())
}
