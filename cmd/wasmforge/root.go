// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// newRootCmd returns the wasmforge root command. Flag parsing is left to
// the app, so every token reaches it untouched.
func newRootCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:                "wasmforge [global options] <task> [task options]",
		Short:              "Build, test and deploy WebAssembly smart contracts",
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), args)
		},
	}
}

// Execute runs wasmforge with the process arguments and exits with its
// exit code.
func Execute() {
	os.Exit(execute(context.Background(), NewApp(getVersionString()), os.Args[1:]))
}

func execute(ctx context.Context, app *App, args []string) int {
	root := newRootCmd(app)
	root.SetArgs(args)
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)

	err := fang.Execute(
		ctx,
		root,
		fang.WithoutVersion(),
		fang.WithoutManpage(),
		fang.WithoutCompletions(),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			app.ReportError(w, err)
		}),
	)
	return exitCode(err)
}
