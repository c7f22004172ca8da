// Package cli implements the label-mockup command-line interface.
//
// The CLI renders label artwork onto a procedural bottle, inspects the
// derived container layout and manages the configuration file. All commands
// support --verbose (-v) for debug-level logging; loggers travel through
// context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version. The main
// package calls this with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the label-mockup CLI. A logger selected by the --verbose flag
// is attached to the command context before any command runs.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:           "label-mockup",
		Short:         "Render label artwork onto a procedural bottle mockup",
		Long:          `label-mockup draws a parametric bottle, bends flat label artwork around it and composites a finished product shot. Everything is rendered from parameters, so no template assets are needed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("label-mockup %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newConfigCmd())

	return root.ExecuteContext(ctx)
}
