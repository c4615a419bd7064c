// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/argparse"
	"github.com/wasmforge/wasmforge/internal/builtin"
	"github.com/wasmforge/wasmforge/internal/casing"
	"github.com/wasmforge/wasmforge/internal/config"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/logging"
	"github.com/wasmforge/wasmforge/internal/plugin"
	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

// App runs one wasmforge invocation.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// Fs and WorkDir locate the project config.
	Fs        afero.Fs
	WorkDir   string
	EnvLookup argparse.EnvLookup
	Config    config.Provider
	Plugins   *plugin.Catalog
	Deps      builtin.Deps
	// MarkdownStyle is the glamour style used for --verbose error help.
	MarkdownStyle string

	runtimeArgs runtime.RuntimeArgs
}

// NewApp returns an App wired to the process environment.
func NewApp(version string) *App {
	deps := builtin.DefaultDeps(version)
	return &App{
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Fs:            deps.Fs,
		WorkDir:       deps.WorkDir,
		EnvLookup:     os.LookupEnv,
		Config:        config.NewProvider(),
		Plugins:       plugin.Default(),
		Deps:          deps,
		MarkdownStyle: "auto",
	}
}

// Run parses tokens and runs the selected task. Failures are returned as
// *ExitError so the caller can report them with ReportError. A panic raised
// by a task or plugin is returned as an unexpected error.
func (a *App) Run(ctx context.Context, tokens []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExitError{Code: 1, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := a.run(ctx, tokens); err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

func (a *App) run(ctx context.Context, tokens []string) error {
	parser := argparse.NewParser(argparse.WithEnvLookup(a.EnvLookup))
	rtArgs, taskName, taskTokens, err := parser.ParseRuntimeArgs(tokens)
	if err != nil {
		// The report flags still apply when parsing fails.
		a.runtimeArgs.ShowStackTraces = hasRawFlag(tokens, runtime.ParamShowStackTraces)
		a.runtimeArgs.Verbose = hasRawFlag(tokens, runtime.ParamVerbose)
		return err
	}
	a.runtimeArgs = rtArgs

	if rtArgs.Version {
		fmt.Fprintln(a.Stdout, a.Deps.Version)
		return nil
	}

	if rtArgs.LogLevel != "" && !logging.IsValidLevel(rtArgs.LogLevel) {
		return issue.New(issue.InvalidValueForType, map[string]any{
			"value": rtArgs.LogLevel, "name": runtime.ParamLogLevel, "type": paramtype.String.Name(),
		})
	}

	session, err := runtime.CreateContext()
	if err != nil {
		return err
	}
	defer runtime.ResetContext()

	logger := logging.New(logging.Options{Output: a.Stderr, Level: rtArgs.EffectiveLogLevel()})

	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: rtArgs.Config,
		WorkDir:        a.WorkDir,
		Fs:             a.Fs,
	})
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "path", cfg.Path, "root", cfg.Root)

	// Built-in tasks come first so plugins can override them.
	if err := builtin.Register(session, a.Deps); err != nil {
		return err
	}
	if err := a.Plugins.Load(session, cfg.Plugins); err != nil {
		return err
	}

	env, err := session.NewEnvironment(ctx, cfg, rtArgs, runtime.WithLogger(logger), runtime.WithStdout(a.Stdout))
	if err != nil {
		return err
	}

	if rtArgs.Help || taskName == "" {
		helpArgs := runtime.Arguments{}
		if taskName != "" {
			helpArgs["task"] = taskName
		}
		_, err := env.Run(ctx, builtin.TaskHelp, helpArgs)
		return err
	}

	def, ok := env.TaskDefinition(taskName)
	if !ok {
		return issue.New(issue.UnrecognizedTask, map[string]any{"task": taskName})
	}
	if builtin.RequiresProject(def) && !cfg.InProject() {
		return issue.New(issue.NotInsideProject, nil)
	}

	taskArgs, err := parser.ParseTaskArgs(def, taskTokens)
	if err != nil {
		return err
	}
	_, err = env.Run(ctx, taskName, taskArgs)
	return err
}

// hasRawFlag reports whether the long form of param appears before any "--"
// separator in tokens.
func hasRawFlag(tokens []string, param string) bool {
	if i := slices.Index(tokens, "--"); i >= 0 {
		tokens = tokens[:i]
	}
	return slices.Contains(tokens, "--"+casing.ToCLI(param))
}
