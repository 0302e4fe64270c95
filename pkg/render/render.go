// Package render turns a process tree into text: branch art for terminals,
// or nested JSON and YAML documents for tooling.
package render

import (
	"github.com/dkoosis/pstree/pkg/color"
	"github.com/dkoosis/pstree/pkg/proctree"
)

// Unlimited disables the depth cutoff.
const Unlimited = -1

// Renderer converts a tree to its output form.
type Renderer interface {
	Render(t *proctree.Tree) string
}

// Config controls one render pass.
type Config struct {
	ASCII    bool
	Indent   int // columns per tree level
	Padding  int // blank columns between the branch and the label
	MaxDepth int // deepest level shown, roots are level 0; Unlimited shows all
	ShowPID  bool

	BranchColor     *color.Color
	NodeColor       *color.Color
	BackgroundColor *color.Color

	// Glyphs, when set, overrides the set selected by ASCII.
	Glyphs *GlyphSet
}

// DefaultConfig returns the stock layout.
func DefaultConfig() Config {
	return Config{
		Indent:   3,
		Padding:  1,
		MaxDepth: Unlimited,
	}
}

func (c Config) glyphs() GlyphSet {
	if c.Glyphs != nil {
		return *c.Glyphs
	}
	if c.ASCII {
		return ASCIIGlyphs()
	}
	return UnicodeGlyphs()
}

// levelWidth is the number of columns one tree level occupies.
func (c Config) levelWidth() int {
	pad := max(c.Padding, 0)
	return max(c.Indent, pad+1)
}

// truncated reports whether children at depth+1 are cut off.
func (c Config) truncated(depth int) bool {
	return c.MaxDepth >= 0 && depth+1 > c.MaxDepth
}
