// SPDX-License-Identifier: MPL-2.0

package argparse

import (
	"reflect"
	"testing"

	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/internal/testutil"
)

func envLookup(env map[string]string) Option {
	return WithEnvLookup(testutil.MapLookup(env))
}

func TestParseRuntimeArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tokens   []string
		env      map[string]string
		want     runtime.RuntimeArgs
		task     string
		residual []string
	}{
		{
			name:     "globals before the task name",
			tokens:   []string{"--show-stack-traces", "--network", "local", "compile", "--task-param"},
			want:     runtime.RuntimeArgs{ShowStackTraces: true, Network: "local", LogLevel: "warn"},
			task:     "compile",
			residual: []string{"--task-param"},
		},
		{
			name:     "globals after the task name",
			tokens:   []string{"compile", "--quiet", "--show-stack-traces", "counter", "--network=testnet"},
			want:     runtime.RuntimeArgs{ShowStackTraces: true, Network: "testnet", LogLevel: "warn"},
			task:     "compile",
			residual: []string{"--quiet", "counter"},
		},
		{
			name:   "short names",
			tokens: []string{"-v"},
			want:   runtime.RuntimeArgs{Version: true, LogLevel: "warn"},
		},
		{
			name:     "help for a task",
			tokens:   []string{"-h", "compile"},
			want:     runtime.RuntimeArgs{Help: true, LogLevel: "warn"},
			task:     "compile",
			residual: nil,
		},
		{
			name:   "environment defaults",
			tokens: []string{"check"},
			env:    map[string]string{"WASMFORGE_NETWORK": "testnet", "WASMFORGE_SHOW_STACK_TRACES": "true"},
			want:   runtime.RuntimeArgs{Network: "testnet", ShowStackTraces: true, LogLevel: "warn"},
			task:   "check",
		},
		{
			name:   "command line wins over the environment",
			tokens: []string{"--network", "local", "--log-level", "debug", "check"},
			env:    map[string]string{"WASMFORGE_NETWORK": "testnet", "WASMFORGE_LOG_LEVEL": "error"},
			want:   runtime.RuntimeArgs{Network: "local", LogLevel: "debug"},
			task:   "check",
		},
		{
			name:     "separator keeps global-looking tokens for the task",
			tokens:   []string{"run", "deploy.sh", "--", "--verbose"},
			want:     runtime.RuntimeArgs{LogLevel: "warn"},
			task:     "run",
			residual: []string{"deploy.sh", "--", "--verbose"},
		},
		{
			name:   "no task",
			tokens: nil,
			want:   runtime.RuntimeArgs{LogLevel: "warn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewParser(envLookup(tt.env))
			args, task, residual, err := p.ParseRuntimeArgs(tt.tokens)
			if err != nil {
				t.Fatalf("ParseRuntimeArgs() error = %v", err)
			}
			if args != tt.want {
				t.Errorf("args = %+v, want %+v", args, tt.want)
			}
			if task != tt.task {
				t.Errorf("task = %q, want %q", task, tt.task)
			}
			if !reflect.DeepEqual(residual, tt.residual) {
				t.Errorf("residual = %#v, want %#v", residual, tt.residual)
			}
		})
	}
}

func TestParseRuntimeArgsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		env    map[string]string
		want   *issue.Descriptor
	}{
		{"unknown global before task", []string{"--bogus", "compile"}, nil, issue.UnrecognizedCommandLineArg},
		{"unknown short before task", []string{"-x", "compile"}, nil, issue.UnrecognizedCommandLineArg},
		{"bad casing before task", []string{"--showStackTraces", "compile"}, nil, issue.InvalidParamNameCasingCLI},
		{"repeated global", []string{"--verbose", "compile", "--verbose"}, nil, issue.RepeatedParam},
		{"missing value", []string{"--network"}, nil, issue.MissingTaskArgument},
		{"invalid env value", []string{"compile"}, map[string]string{"WASMFORGE_VERBOSE": "yes"}, issue.InvalidEnvVarValue},
		{"invalid inline flag value", []string{"--verbose=maybe", "compile"}, nil, issue.InvalidValueForType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, _, err := NewParser(envLookup(tt.env)).ParseRuntimeArgs(tt.tokens)
			if !issue.Is(err, tt.want) {
				t.Fatalf("ParseRuntimeArgs() error = %v, want %s", err, tt.want.Code())
			}
		})
	}
}
