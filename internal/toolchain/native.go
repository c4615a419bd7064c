// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/wasmforge/wasmforge/internal/issue"
)

type (
	// ExecCommandFunc creates an exec.Cmd. Tests replace it.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// LookPathFunc resolves an executable name.
	LookPathFunc func(file string) (string, error)

	// NativeOption configures a Native runner.
	NativeOption func(*Native)

	// Native runs programs as host subprocesses.
	Native struct {
		execCommand ExecCommandFunc
		lookPath    LookPathFunc
	}

	// Command is a subprocess invocation.
	Command struct {
		Name string
		Args []string
		// Dir is the working directory; empty means the current one.
		Dir string
		// Env is added to the inherited process environment.
		Env    map[string]string
		Stdout io.Writer
		Stderr io.Writer
	}
)

// WithExecCommand replaces exec.CommandContext.
func WithExecCommand(fn ExecCommandFunc) NativeOption {
	return func(n *Native) {
		n.execCommand = fn
	}
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn LookPathFunc) NativeOption {
	return func(n *Native) {
		n.lookPath = fn
	}
}

// NewNative returns a runner backed by os/exec.
func NewNative(opts ...NativeOption) *Native {
	n := &Native{execCommand: exec.CommandContext, lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// LookPath resolves name in PATH, failing with COMPILER_NOT_FOUND.
func (n *Native) LookPath(name string) (string, error) {
	path, err := n.lookPath(name)
	if err != nil {
		return "", issue.Wrap(issue.CompilerNotFound, map[string]any{"compiler": name}, err)
	}
	return path, nil
}

// Run runs c and waits for it. A non-zero exit status is returned as the
// exit code with a nil error; errors mean the process could not run.
func (n *Native) Run(ctx context.Context, c Command) (ExitCode, error) {
	path, err := n.LookPath(c.Name)
	if err != nil {
		return 1, err
	}

	cmd := n.execCommand(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	if cmd.Env == nil {
		cmd.Env = processEnviron(c.Env)
	} else {
		cmd.Env = mergeEnviron(cmd.Env, c.Env)
	}
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err = cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExitCode(exitErr.ExitCode()), nil
	}
	return 1, fmt.Errorf("run %s: %w", c.Name, err)
}
