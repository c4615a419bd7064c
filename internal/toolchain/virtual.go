// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// Virtual runs shell scripts with the embedded mvdan.cc/sh interpreter,
	// so scripts behave the same on every platform.
	Virtual struct {
		environ func(overrides map[string]string) []string
	}

	// Script is a shell script invocation.
	Script struct {
		// Name is used in parse errors and as $0.
		Name   string
		Source io.Reader
		Args   []string
		Dir    string
		// Env is added to the inherited process environment.
		Env    map[string]string
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewVirtual returns an interpreter that inherits the process environment.
func NewVirtual() *Virtual {
	return &Virtual{environ: processEnviron}
}

// Validate parses source without running it.
func (v *Virtual) Validate(name, source string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(source), name); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Run interprets s. The script's exit status is returned as the exit code;
// errors mean it could not be parsed or started.
func (v *Virtual) Run(ctx context.Context, s Script) (ExitCode, error) {
	prog, err := syntax.NewParser().Parse(s.Source, s.Name)
	if err != nil {
		return 1, fmt.Errorf("parse %s: %w", s.Name, err)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(v.environ(s.Env)...)),
		interp.StdIO(s.Stdin, s.Stdout, s.Stderr),
	}
	if s.Dir != "" {
		opts = append(opts, interp.Dir(s.Dir))
	}
	// "--" keeps arguments like -v from being read as shell options.
	if len(s.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, s.Args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return 1, fmt.Errorf("create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return ExitCode(status), nil
		}
		return 1, fmt.Errorf("run %s: %w", s.Name, err)
	}
	return 0, nil
}
