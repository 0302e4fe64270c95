// Package logging builds the slog logger used for diagnostics.
//
// Diagnostics go to stderr as text so they never mix with the tree on
// stdout. Debug output is enabled with --debug or PSTREE_DEBUG.
package logging

import (
	"io"
	"log/slog"
	"strconv"
)

// EnvDebug is the environment variable that turns on debug logging.
const EnvDebug = "PSTREE_DEBUG"

// New returns a text logger writing to w at INFO, or DEBUG when debug is set.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// DebugEnabled reports whether val, the value of EnvDebug, asks for debug
// output. Any non-empty value other than a false boolean counts.
func DebugEnabled(val string) bool {
	if val == "" {
		return false
	}
	on, err := strconv.ParseBool(val)
	return err != nil || on
}
