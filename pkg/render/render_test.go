package render

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/pstree/pkg/color"
	"github.com/dkoosis/pstree/pkg/proctree"
)

// stripANSICodes removes ANSI escape sequences from a string to calculate visual width.
func stripANSICodes(s string) string {
	var result strings.Builder
	inEscape := false
	for i := range len(s) {
		switch {
		case s[i] == '\033':
			inEscape = true
		case inEscape && s[i] == 'm':
			inEscape = false
		case !inEscape:
			result.WriteByte(s[i])
		}
	}
	return result.String()
}

func plainRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return r
}

func colorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return r
}

func sampleTree() *proctree.Tree {
	return proctree.Build([]proctree.Record{
		{PID: 1, PPID: 0, Name: "init"},
		{PID: 2, PPID: 1, Name: "sshd"},
		{PID: 3, PPID: 2, Name: "bash"},
		{PID: 4, PPID: 2, Name: "bash"},
		{PID: 5, PPID: 1, Name: "cron"},
		{PID: 6, PPID: 5, Name: "job"},
	}, 0)
}

func TestTerminal_RendersUnicodeBranches(t *testing.T) {
	t.Parallel()

	out := NewTerminal(DefaultConfig(), plainRenderer()).Render(sampleTree())

	want := "" +
		"init\n" +
		"├─ sshd\n" +
		"│  ├─ bash\n" +
		"│  └─ bash\n" +
		"└─ cron\n" +
		"   └─ job\n"
	assert.Equal(t, want, out)
}

func TestTerminal_RendersASCIIBranches(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ASCII = true
	out := NewTerminal(cfg, plainRenderer()).Render(sampleTree())

	want := "" +
		"init\n" +
		"|- sshd\n" +
		"|  |- bash\n" +
		"|  `- bash\n" +
		"`- cron\n" +
		"   `- job\n"
	assert.Equal(t, want, out)
}

func TestTerminal_DedupedLeavesShowCount(t *testing.T) {
	t.Parallel()

	tree := proctree.Build([]proctree.Record{
		{PID: 1, PPID: 0, Name: "init"},
		{PID: 2, PPID: 1, Name: "sshd"},
		{PID: 3, PPID: 2, Name: "bash"},
		{PID: 4, PPID: 2, Name: "bash"},
	}, 0)
	proctree.Dedupe(tree)

	cfg := DefaultConfig()
	cfg.ASCII = true
	cfg.ShowPID = true
	out := NewTerminal(cfg, plainRenderer()).Render(tree)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "init (1)", lines[0])
	assert.Equal(t, "`- sshd (2)", lines[1])
	assert.Equal(t, "   `- bash ×2", lines[2])
	assert.Equal(t, 1, strings.Count(out, "bash"))
}

func TestTerminal_DepthCutoffMarksTruncatedNodes(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	out := NewTerminal(cfg, plainRenderer()).Render(sampleTree())

	want := "" +
		"init\n" +
		"├─ sshd …\n" +
		"└─ cron …\n"
	assert.Equal(t, want, out)

	cfg.ASCII = true
	out = NewTerminal(cfg, plainRenderer()).Render(sampleTree())
	assert.Contains(t, out, "|- sshd +\n")
}

func TestTerminal_DepthZeroShowsOnlyRoots(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxDepth = 0
	out := NewTerminal(cfg, plainRenderer()).Render(sampleTree())
	assert.Equal(t, "init …\n", out)
}

func TestTerminal_LeafAtCutoffIsNotMarked(t *testing.T) {
	t.Parallel()

	tree := proctree.Build([]proctree.Record{{PID: 1, Name: "solo"}}, 0)
	cfg := DefaultConfig()
	cfg.MaxDepth = 0
	assert.Equal(t, "solo\n", NewTerminal(cfg, plainRenderer()).Render(tree))
}

func TestTerminal_IndentAndPadding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		indent  int
		padding int
		want    string
	}{
		{name: "wide indent", indent: 5, padding: 1, want: "init\n└─── sshd\n     └─── bash\n"},
		{name: "wide padding", indent: 3, padding: 2, want: "init\n└  sshd\n   └  bash\n"},
		{name: "padding beyond indent", indent: 1, padding: 3, want: "init\n└   sshd\n    └   bash\n"},
		{name: "no padding", indent: 2, padding: 0, want: "init\n└─sshd\n  └─bash\n"},
		{name: "zero indent", indent: 0, padding: 0, want: "init\n└sshd\n └bash\n"},
	}

	tree := proctree.Build([]proctree.Record{
		{PID: 1, Name: "init"},
		{PID: 2, PPID: 1, Name: "sshd"},
		{PID: 3, PPID: 2, Name: "bash"},
	}, 0)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			cfg.Indent = tt.indent
			cfg.Padding = tt.padding
			assert.Equal(t, tt.want, NewTerminal(cfg, plainRenderer()).Render(tree))
		})
	}
}

func TestTerminal_ASCIIAndUnicodeShareColumns(t *testing.T) {
	t.Parallel()

	cond := &runewidth.Condition{EastAsianWidth: false}
	for _, indent := range []int{1, 3, 6} {
		cfg := DefaultConfig()
		cfg.Indent = indent
		cfg.MaxDepth = 2
		uni := NewTerminal(cfg, plainRenderer()).Render(sampleTree())
		cfg.ASCII = true
		ascii := NewTerminal(cfg, plainRenderer()).Render(sampleTree())

		uniLines := strings.Split(uni, "\n")
		asciiLines := strings.Split(ascii, "\n")
		require.Len(t, asciiLines, len(uniLines))
		for i := range uniLines {
			assert.Equal(t, cond.StringWidth(uniLines[i]), cond.StringWidth(asciiLines[i]),
				"indent %d line %d: %q vs %q", indent, i, uniLines[i], asciiLines[i])
			labelCol := func(s string) int {
				name := strings.TrimLeft(s, "|`-├└│─ ")
				return cond.StringWidth(s) - cond.StringWidth(name)
			}
			assert.Equal(t, labelCol(uniLines[i]), labelCol(asciiLines[i]))
		}
	}
}

func TestTerminal_ForestRootsStartAtColumnZero(t *testing.T) {
	t.Parallel()

	tree := proctree.Build([]proctree.Record{
		{PID: 1, PPID: 0, Name: "init"},
		{PID: 2, PPID: 0, Name: "kthreadd"},
		{PID: 3, PPID: 2, Name: "kworker"},
	}, 0)
	out := NewTerminal(DefaultConfig(), plainRenderer()).Render(tree)
	assert.Equal(t, "init\nkthreadd\n└─ kworker\n", out)
}

func TestTerminal_EmptyTreeRendersNothing(t *testing.T) {
	t.Parallel()

	r := NewTerminal(DefaultConfig(), plainRenderer())
	assert.Empty(t, r.Render(nil))
	assert.Empty(t, r.Render(&proctree.Tree{}))
}

func TestTerminal_IsDeterministic(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ShowPID = true
	first := NewTerminal(cfg, colorRenderer()).Render(sampleTree())
	for range 5 {
		assert.Equal(t, first, NewTerminal(cfg, colorRenderer()).Render(sampleTree()))
	}
}

func TestTerminal_AppliesColors(t *testing.T) {
	t.Parallel()

	red, blue := color.ANSI(1), color.ANSI(4)
	cfg := DefaultConfig()
	cfg.BranchColor = &red
	cfg.NodeColor = &blue

	tree := sampleTree()
	out := NewTerminal(cfg, colorRenderer()).Render(tree)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	assert.Equal(t, "\x1b[34minit\x1b[0m", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "\x1b[31m├─ \x1b[0m"), "got %q", lines[1])
	assert.Contains(t, lines[1], "\x1b[34msshd\x1b[0m")

	// Colors never change what the terminal shows.
	plain := NewTerminal(cfg, plainRenderer()).Render(tree)
	assert.Equal(t, plain, stripANSICodes(out))
}

func TestTerminal_NodeOverrideWinsOverNodeColor(t *testing.T) {
	t.Parallel()

	blue := color.ANSI(4)
	cfg := DefaultConfig()
	cfg.NodeColor = &blue

	tree := sampleTree()
	require.True(t, proctree.Highlight(tree, 6, color.ANSI(3)))
	out := NewTerminal(cfg, colorRenderer()).Render(tree)

	assert.Contains(t, out, "\x1b[33mjob\x1b[0m")
	assert.Contains(t, out, "\x1b[33mcron\x1b[0m")
	assert.Contains(t, out, "\x1b[34msshd\x1b[0m")
}

func TestTerminal_BackgroundColor(t *testing.T) {
	t.Parallel()

	bg := color.RGB(0, 0, 128)
	cfg := DefaultConfig()
	cfg.BackgroundColor = &bg

	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	out := NewTerminal(cfg, r).Render(sampleTree())
	assert.Contains(t, out, "48;2;")
	assert.NotContains(t, out, "38;2;")
}

func TestTerminal_AsciiProfileEmitsNoEscapes(t *testing.T) {
	t.Parallel()

	red := color.ANSI(1)
	cfg := DefaultConfig()
	cfg.BranchColor = &red
	cfg.NodeColor = &red
	cfg.BackgroundColor = &red

	out := NewTerminal(cfg, plainRenderer()).Render(sampleTree())
	assert.NotContains(t, out, "\x1b")
}

func TestTerminal_CustomGlyphs(t *testing.T) {
	t.Parallel()

	g := ASCIIGlyphs().Merge(GlyphSet{Tee: "+", Corner: "\\", Horizontal: "="})
	cfg := DefaultConfig()
	cfg.Glyphs = &g
	out := NewTerminal(cfg, plainRenderer()).Render(sampleTree())

	assert.Contains(t, out, "+= sshd\n")
	assert.Contains(t, out, "|  \\= bash\n")
}

func TestTerminal_SanitizesNames(t *testing.T) {
	t.Parallel()

	tree := proctree.Build([]proctree.Record{{PID: 1, Name: "evil\x1b[2Jname\n"}}, 0)
	out := NewTerminal(DefaultConfig(), plainRenderer()).Render(tree)
	assert.Equal(t, `evil\x1b[2Jname\x0a`+"\n", out)
}

func TestLabel(t *testing.T) {
	t.Parallel()

	single := &proctree.Node{PID: 42, Name: "sshd"}
	group := &proctree.Node{Name: "bash", Count: 3, PIDs: []int{1, 2, 3}}

	assert.Equal(t, "sshd", Label(single, false))
	assert.Equal(t, "sshd (42)", Label(single, true))
	assert.Equal(t, "bash ×3", Label(group, false))
	assert.Equal(t, "bash ×3", Label(group, true))
}
