// Package color resolves user-supplied color specifications into terminal colors.
//
// Two spellings are accepted:
//
//	magenta, Bright-Red, grey    palette names, case-insensitive
//	255,128,0                    red,green,blue components in 0-255
package color

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/zerr"
	"golang.org/x/text/cases"
)

// ErrInvalidSpec is returned when a color specification is neither a palette
// name nor a valid r,g,b triple.
var ErrInvalidSpec = zerr.New("invalid color spec")

// Kind distinguishes palette colors from explicit RGB triples.
type Kind int

const (
	KindANSI Kind = iota // one of the 16 standard terminal colors
	KindRGB              // 24-bit color
)

// Color is a resolved, displayable color.
type Color struct {
	Kind Kind
	ANSI uint8 // palette index 0-15, valid when Kind == KindANSI
	R    uint8
	G    uint8
	B    uint8
}

// ANSI returns the palette color with the given index.
func ANSI(index uint8) Color {
	return Color{Kind: KindANSI, ANSI: index}
}

// RGB returns an explicit 24-bit color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: KindRGB, R: r, G: g, B: b}
}

// palette maps folded names to the standard 16-color indexes.
var palette = map[string]uint8{
	"black":          0,
	"red":            1,
	"green":          2,
	"yellow":         3,
	"blue":           4,
	"magenta":        5,
	"purple":         5,
	"cyan":           6,
	"white":          7,
	"gray":           8,
	"grey":           8,
	"bright-black":   8,
	"bright-red":     9,
	"bright-green":   10,
	"bright-yellow":  11,
	"bright-blue":    12,
	"bright-magenta": 13,
	"bright-purple":  13,
	"bright-cyan":    14,
	"bright-white":   15,
}

var folder = cases.Fold()

// Names returns the recognized palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(palette))
	for name := range palette {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve parses spec into a Color. It accepts a palette name (see Names) or
// three comma-separated integers in 0-255.
func Resolve(spec string) (Color, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return Color{}, invalid(spec, "empty")
	}

	if idx, ok := palette[folder.String(trimmed)]; ok {
		return ANSI(idx), nil
	}

	if !strings.Contains(trimmed, ",") {
		return Color{}, invalid(spec, "unknown color name")
	}

	parts := strings.Split(trimmed, ",")
	if len(parts) != 3 {
		return Color{}, invalid(spec, "expected three components")
	}

	var rgb [3]uint8
	for i, part := range parts {
		v, reason := component(part)
		if reason != "" {
			return Color{}, invalid(spec, reason)
		}
		rgb[i] = v
	}
	return RGB(rgb[0], rgb[1], rgb[2]), nil
}

// component parses one r, g or b value. A non-empty reason means failure.
func component(s string) (uint8, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "empty component"
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Sprintf("component %q is not an integer", s)
		}
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n > 255 {
		return 0, fmt.Sprintf("component %q out of range 0-255", s)
	}
	return uint8(n), ""
}

func invalid(spec, reason string) error {
	err := zerr.Wrap(ErrInvalidSpec, fmt.Sprintf("color %q", spec))
	err = zerr.With(err, "spec", spec)
	return zerr.With(err, "reason", reason)
}

// String returns the canonical spelling: the palette name for ANSI colors,
// r,g,b otherwise.
func (c Color) String() string {
	if c.Kind == KindRGB {
		return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
	}
	for _, name := range Names() {
		if palette[name] == c.ANSI && !strings.Contains(name, "purple") && name != "grey" && name != "bright-black" {
			return name
		}
	}
	return strconv.Itoa(int(c.ANSI))
}

// Terminal converts c to a lipgloss color. The active renderer's color
// profile decides how it is downsampled.
func (c Color) Terminal() lipgloss.TerminalColor {
	if c.Kind == KindRGB {
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	return lipgloss.ANSIColor(c.ANSI)
}
