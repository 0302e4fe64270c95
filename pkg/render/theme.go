package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.trai.ch/zerr"

	"github.com/dkoosis/pstree/pkg/color"
)

// ErrInvalidGlyph is returned by GlyphSet.Validate.
var ErrInvalidGlyph = zerr.New("invalid glyph")

// GlyphSet holds the characters used to draw branches. Every glyph must
// occupy exactly one terminal column.
type GlyphSet struct {
	Name       string `yaml:"-" mapstructure:"-"`
	Tee        string `yaml:"tee" mapstructure:"tee"`
	Corner     string `yaml:"corner" mapstructure:"corner"`
	Vertical   string `yaml:"vertical" mapstructure:"vertical"`
	Horizontal string `yaml:"horizontal" mapstructure:"horizontal"`
	Ellipsis   string `yaml:"ellipsis" mapstructure:"ellipsis"`
}

// UnicodeGlyphs returns the box-drawing set.
func UnicodeGlyphs() GlyphSet {
	return GlyphSet{
		Name:       "unicode",
		Tee:        "├",
		Corner:     "└",
		Vertical:   "│",
		Horizontal: "─",
		Ellipsis:   "…",
	}
}

// ASCIIGlyphs returns a set that is safe on any terminal.
func ASCIIGlyphs() GlyphSet {
	return GlyphSet{
		Name:       "ascii",
		Tee:        "|",
		Corner:     "`",
		Vertical:   "|",
		Horizontal: "-",
		Ellipsis:   "+",
	}
}

// Merge returns g with every non-empty glyph of o applied on top.
func (g GlyphSet) Merge(o GlyphSet) GlyphSet {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&g.Tee, o.Tee},
		{&g.Corner, o.Corner},
		{&g.Vertical, o.Vertical},
		{&g.Horizontal, o.Horizontal},
		{&g.Ellipsis, o.Ellipsis},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	if o.Name != "" {
		g.Name = o.Name
	}
	return g
}

// Validate checks that every glyph is a single column wide.
func (g GlyphSet) Validate() error {
	for _, f := range []struct{ role, glyph string }{
		{"tee", g.Tee},
		{"corner", g.Corner},
		{"vertical", g.Vertical},
		{"horizontal", g.Horizontal},
		{"ellipsis", g.Ellipsis},
	} {
		if w := glyphWidth.StringWidth(f.glyph); w != 1 {
			err := zerr.Wrap(ErrInvalidGlyph, "glyph "+f.role+" must be one column wide")
			err = zerr.With(err, "glyph", f.glyph)
			return zerr.With(err, "width", w)
		}
	}
	return nil
}

// glyphWidth measures with ambiguous-width runes as narrow, which is how
// box-drawing characters are shown outside CJK locales.
var glyphWidth = &runewidth.Condition{EastAsianWidth: false}

// Theme is the set of styles applied to one render pass.
type Theme struct {
	Branch lipgloss.Style
	Label  lipgloss.Style
	Glyphs GlyphSet
}

// NewTheme builds the styles for cfg on renderer r.
func NewTheme(cfg Config, r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	th := Theme{
		Branch: r.NewStyle(),
		Label:  r.NewStyle(),
		Glyphs: cfg.glyphs(),
	}
	if cfg.BranchColor != nil {
		th.Branch = th.Branch.Foreground(cfg.BranchColor.Terminal())
	}
	if cfg.NodeColor != nil {
		th.Label = th.Label.Foreground(cfg.NodeColor.Terminal())
	}
	if cfg.BackgroundColor != nil {
		th.Label = th.Label.Background(cfg.BackgroundColor.Terminal())
	}
	return th
}

// labelStyle returns the label style with a per-node override applied.
func (th Theme) labelStyle(override *color.Color) lipgloss.Style {
	if override == nil {
		return th.Label
	}
	return th.Label.Foreground(override.Terminal())
}
