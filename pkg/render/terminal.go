package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/pstree/pkg/proctree"
)

// Terminal renders a tree as branch art styled via lipgloss.
type Terminal struct {
	cfg   Config
	theme Theme
}

// NewTerminal creates a terminal renderer. The color profile of r decides
// whether any escape sequences are written; a nil r uses lipgloss's default.
func NewTerminal(cfg Config, r *lipgloss.Renderer) *Terminal {
	return &Terminal{cfg: cfg, theme: NewTheme(cfg, r)}
}

// Render draws one line per visible node. Roots start at column zero.
func (t *Terminal) Render(tree *proctree.Tree) string {
	if tree == nil || len(tree.Roots) == 0 {
		return ""
	}

	type item struct {
		node   *proctree.Node
		depth  int
		indent string // continuation columns inherited from ancestors
		last   bool
	}

	stack := make([]item, 0, len(tree.Roots))
	for i := len(tree.Roots) - 1; i >= 0; i-- {
		stack = append(stack, item{node: tree.Roots[i]})
	}

	var sb strings.Builder
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		prefix, childIndent := it.indent, it.indent
		if it.depth > 0 {
			prefix += t.connector(it.last)
			childIndent += t.continuation(it.last)
		}

		n := it.node
		cut := len(n.Children) > 0 && t.cfg.truncated(it.depth)
		t.writeLine(&sb, prefix, n, cut)
		if cut {
			continue
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{
				node:   n.Children[i],
				depth:  it.depth + 1,
				indent: childIndent,
				last:   i == len(n.Children)-1,
			})
		}
	}
	return sb.String()
}

func (t *Terminal) writeLine(sb *strings.Builder, prefix string, n *proctree.Node, cut bool) {
	if prefix != "" {
		sb.WriteString(t.theme.Branch.Render(prefix))
	}
	sb.WriteString(t.theme.labelStyle(n.Color).Render(Label(n, t.cfg.ShowPID)))
	if cut {
		sb.WriteByte(' ')
		sb.WriteString(t.theme.Branch.Render(t.theme.Glyphs.Ellipsis))
	}
	sb.WriteByte('\n')
}

// connector is the branch drawn in front of a node's label.
func (t *Terminal) connector(last bool) string {
	g := t.theme.Glyphs
	w := t.cfg.levelWidth()
	pad := max(t.cfg.Padding, 0)

	head := g.Tee
	if last {
		head = g.Corner
	}
	return head + strings.Repeat(g.Horizontal, w-1-pad) + strings.Repeat(" ", pad)
}

// continuation is the column segment drawn for an ancestor level.
func (t *Terminal) continuation(last bool) string {
	w := t.cfg.levelWidth()
	if last {
		return strings.Repeat(" ", w)
	}
	return t.theme.Glyphs.Vertical + strings.Repeat(" ", w-1)
}

// Label is the text shown for a node: its sanitized name, a repeat count
// for duplicate groups and, when showPID is set, the pid of a single process.
func Label(n *proctree.Node, showPID bool) string {
	label := Sanitize(n.Name)
	if n.IsGroup() {
		return label + " ×" + strconv.Itoa(n.Count)
	}
	if showPID {
		label += " (" + strconv.Itoa(n.PID) + ")"
	}
	return label
}
