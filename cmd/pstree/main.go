// pstree shows the running processes as a tree.
//
// Usage:
//
//	pstree                 every top-level process and its descendants
//	pstree -r 1234 -p      the subtree under pid 1234, with pids
//	pstree -u -A -d 2      collapsed duplicates, ASCII branches, two levels
//	pstree -H $$           highlight the current shell and its ancestors
//	pstree -f json         nested JSON for scripts
//
// Exit codes: 0 on success, 1 when the process table cannot be read, 2 on
// usage errors such as an unknown flag or an invalid color.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/dkoosis/pstree/internal/app"
	"github.com/dkoosis/pstree/internal/config"
	"github.com/dkoosis/pstree/internal/detect"
	"github.com/dkoosis/pstree/internal/logging"
	"github.com/dkoosis/pstree/internal/procsource"
	"github.com/dkoosis/pstree/internal/version"
	"github.com/dkoosis/pstree/pkg/color"
)

// errUsage marks command line mistakes.
var errUsage = zerr.New("invalid usage")

// env is what a run needs from the outside world.
type env struct {
	stdout, stderr io.Writer
	source         procsource.Source
	loader         config.Loader
	getenv         func(string) string
	termEnv        termenv.Environ // nil reads the process environment
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], env{
		stdout: os.Stdout,
		stderr: os.Stderr,
		source: procsource.Default(),
		loader: config.Loader{SearchPaths: config.DefaultSearchPaths()},
		getenv: os.Getenv,
	}))
}

func run(ctx context.Context, args []string, e env) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(e)
	cmd.SetArgs(args)
	return exitCode(cmd.ExecuteContext(ctx), e.stderr)
}

func newRootCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pstree [flags]",
		Short:         "Show running processes as a tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.String(),
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return zerr.With(zerr.Wrap(errUsage, fmt.Sprintf("unexpected argument %q", args[0])), "args", args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := e.loader.Load(cmd.Flags())
			if err != nil {
				return err
			}

			debug := opts.Debug || logging.DebugEnabled(e.getenv(logging.EnvDebug))
			logger := logging.New(e.stderr, debug)
			logger.Debug("options resolved",
				"config_file", opts.ConfigFile,
				"format", opts.Format,
				"color", opts.ColorMode,
				"root_pid", opts.RootPID,
				"depth", opts.Depth,
				"unique", opts.Unique,
			)

			styles := detect.Renderer(e.stdout, opts.ColorMode, e.termEnv)
			return app.New(e.source, e.stdout, styles, logger).Run(cmd.Context(), opts)
		},
	}

	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)
	cmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return zerr.Wrap(errUsage, err.Error())
	})

	flags := cmd.Flags()
	flags.SortFlags = false
	config.RegisterFlags(flags)
	flags.BoolP("version", "V", false, "print version information")
	flags.BoolP("help", "h", false, "show this help")
	return cmd
}

// exitCode reports err on stderr and maps it to the process exit status.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	_, _ = fmt.Fprintf(stderr, "pstree: %s\n", err.Error())

	switch {
	case errors.Is(err, errUsage),
		errors.Is(err, config.ErrInvalid),
		errors.Is(err, color.ErrInvalidSpec):
		return 2
	default:
		return 1
	}
}
