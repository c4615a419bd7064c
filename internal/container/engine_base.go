// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os/exec"
	"slices"
)

type (
	// ExecCommandFunc creates the exec.Cmd for an engine invocation. Tests
	// replace it to avoid running a real engine.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// VolumeFormatFunc formats a volume mount for the -v flag.
	VolumeFormatFunc func(v VolumeMount) string

	// RunArgsTransformer modifies run arguments after they are built.
	RunArgsTransformer func(args []string) []string

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine implements the parts shared by the docker and podman CLIs.
	BaseCLIEngine struct {
		name               string
		binaryPath         string
		execCommand        ExecCommandFunc
		volumeFormatter    VolumeFormatFunc
		runArgsTransformer RunArgsTransformer
	}
)

// WithExecCommand sets a custom exec command function.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.execCommand = fn
	}
}

// WithBinaryPath overrides the engine binary found in PATH.
func WithBinaryPath(path string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.binaryPath = path
	}
}

// WithVolumeFormatter sets a custom volume formatter.
func WithVolumeFormatter(fn VolumeFormatFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.volumeFormatter = fn
	}
}

// WithRunArgsTransformer sets a custom run args transformer.
func WithRunArgsTransformer(fn RunArgsTransformer) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.runArgsTransformer = fn
	}
}

// NewBaseCLIEngine creates a base engine for the named binary.
func NewBaseCLIEngine(name, binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		name:               name,
		binaryPath:         binaryPath,
		execCommand:        exec.CommandContext,
		volumeFormatter:    VolumeMount.String,
		runArgsTransformer: func(args []string) []string { return args },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the engine name.
func (e *BaseCLIEngine) Name() string { return e.name }

// BinaryPath returns the path of the engine binary, empty when not found.
func (e *BaseCLIEngine) BinaryPath() string { return e.binaryPath }

// Available runs "<engine> version" and reports whether it succeeded.
func (e *BaseCLIEngine) Available(ctx context.Context) bool {
	if e.binaryPath == "" {
		return false
	}
	return e.CreateCommand(ctx, "version").Run() == nil
}

// RunArgs builds the arguments of a run command:
//
//	run [--rm] [-w dir] [-e K=V]... [-v host:ctr]... <image> [command...]
//
// Environment variables are emitted in key order.
func (e *BaseCLIEngine) RunArgs(opts RunOptions) []string {
	args := []string{"run"}

	if opts.Remove {
		args = append(args, "--rm")
	}
	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}
	for _, k := range slices.Sorted(maps.Keys(opts.Env)) {
		args = append(args, "-e", k+"="+opts.Env[k])
	}
	for _, v := range opts.Volumes {
		args = append(args, "-v", e.volumeFormatter(v))
	}

	args = append(args, opts.Image)
	args = append(args, opts.Command...)
	return e.runArgsTransformer(args)
}

// CreateCommand creates an exec.Cmd for the engine binary.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, e.binaryPath, args...)
}

// Run runs the container and waits for it. A non-zero exit status is
// reported in the result, not as an error.
func (e *BaseCLIEngine) Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	for _, v := range opts.Volumes {
		if err := v.Validate(); err != nil {
			return RunResult{}, err
		}
	}

	cmd := e.CreateCommand(ctx, e.RunArgs(opts)...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	err := cmd.Run()
	if err == nil {
		return RunResult{}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return RunResult{ExitCode: exitErr.ExitCode()}, nil
	}
	return RunResult{ExitCode: 1}, fmt.Errorf("%s run %s: %w", e.name, opts.Image, err)
}
