// Package detect decides how much color the output terminal can show.
package detect

import (
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// Mode is the user's color preference.
type Mode string

const (
	Auto   Mode = "auto"   // color on terminals, honoring NO_COLOR and CLICOLOR_FORCE
	Always Mode = "always" // color even when piped
	Never  Mode = "never"
)

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = zerr.New("unknown color mode")

// ParseMode validates a --color value. The empty string means Auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Auto, nil
	case Auto, Always, Never:
		return m, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownMode, "color mode "+s), "mode", s)
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorProfile returns the profile to render with for w. A nil env reads
// the process environment.
func ColorProfile(w io.Writer, mode Mode, env termenv.Environ) termenv.Profile {
	if mode == Never {
		return termenv.Ascii
	}

	var opts []termenv.OutputOption
	if env != nil {
		opts = append(opts, termenv.WithEnvironment(env))
	}

	if mode == Always {
		opts = append(opts, termenv.WithTTY(true))
		if p := termenv.NewOutput(w, opts...).ColorProfile(); p != termenv.Ascii {
			return p
		}
		return termenv.ANSI
	}

	opts = append(opts, termenv.WithTTY(IsTerminal(w)))
	return termenv.NewOutput(w, opts...).EnvColorProfile()
}

// Renderer returns a lipgloss renderer for w fixed to the detected profile.
func Renderer(w io.Writer, mode Mode, env termenv.Environ) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(ColorProfile(w, mode, env))
	return r
}

// Env is a fixed environment.
type Env map[string]string

// Environ implements termenv.Environ.
func (e Env) Environ() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Getenv implements termenv.Environ.
func (e Env) Getenv(key string) string {
	return e[key]
}
