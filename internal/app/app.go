// Package app runs one pstree invocation: snapshot, build, transform, render.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/zerr"

	"github.com/dkoosis/pstree/internal/config"
	"github.com/dkoosis/pstree/internal/logging"
	"github.com/dkoosis/pstree/internal/procsource"
	"github.com/dkoosis/pstree/pkg/proctree"
	"github.com/dkoosis/pstree/pkg/render"
)

// App holds the collaborators of a run.
type App struct {
	source procsource.Source
	logger *slog.Logger
	out    io.Writer
	styles *lipgloss.Renderer
}

// New creates an App. styles decides the color profile of text output; a
// nil logger discards diagnostics.
func New(source procsource.Source, out io.Writer, styles *lipgloss.Renderer, logger *slog.Logger) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{source: source, logger: logger, out: out, styles: styles}
}

// Run takes one snapshot and writes the tree described by opts.
// Option errors are reported before the process table is read.
func (a *App) Run(ctx context.Context, opts *config.Options) error {
	renderer, err := a.renderer(opts)
	if err != nil {
		return err
	}

	var highlight func(*proctree.Tree)
	if opts.Highlight != 0 {
		c, err := opts.HighlightSpec()
		if err != nil {
			return err
		}
		highlight = func(t *proctree.Tree) {
			if !proctree.Highlight(t, opts.Highlight, c) {
				a.logger.Debug("highlight pid not in tree", "pid", opts.Highlight)
			}
		}
	}

	records, err := a.source.Snapshot(ctx)
	if err != nil {
		return err
	}
	a.logger.Debug("snapshot taken", "records", len(records))

	tree := proctree.Build(records, opts.RootPID)
	d := tree.Diagnostics
	a.logger.Debug("tree built",
		"roots", len(tree.Roots),
		"nodes", tree.Len(),
		"duplicates", d.Duplicates,
		"cycle_edges", d.CycleEdges,
		"unreachable", d.Unreachable,
	)
	if opts.RootPID != 0 && len(tree.Roots) == 0 {
		a.logger.Debug("root pid not found", "pid", opts.RootPID)
	}

	if opts.Unique {
		proctree.Dedupe(tree)
	}
	if highlight != nil {
		highlight(tree)
	}

	if _, err := io.WriteString(a.out, renderer.Render(tree)); err != nil {
		return zerr.Wrap(err, "write output")
	}
	return nil
}

func (a *App) renderer(opts *config.Options) (render.Renderer, error) {
	cfg, err := opts.RenderConfig()
	if err != nil {
		return nil, err
	}
	switch opts.Format {
	case config.FormatJSON:
		return render.NewJSON(cfg), nil
	case config.FormatYAML:
		return render.NewYAML(cfg), nil
	default:
		return render.NewTerminal(cfg, a.styles), nil
	}
}
