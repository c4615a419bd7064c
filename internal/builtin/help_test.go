// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
)

func TestHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    runtime.Arguments
		want    []string
		notWant []string
	}{
		{
			name:    "global",
			args:    nil,
			want:    []string{"wasmforge version 1.2.3", "--show-stack-traces", "-v, --version", "compile", "network-status", "help [task]"},
			notWant: []string{"init "},
		},
		{
			name: "compile",
			args: runtime.Arguments{"task": TaskCompile},
			want: []string{"Usage: wasmforge [GLOBAL OPTIONS] compile", "-q, --quiet", "--optimize", "[...contracts]", "POSITIONAL ARGUMENTS"},
		},
		{
			name: "run",
			args: runtime.Arguments{"task": TaskRun},
			want: []string{"run script [...scriptArgs]"},
		},
		{
			name: "internal tasks still have help",
			args: runtime.Arguments{"task": TaskInit},
			want: []string{"[--name <STRING>]", "--no-git"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, out := newTestEnv(t, testDeps(afero.NewMemMapFs()), nil)
			got, err := env.Run(context.Background(), TaskHelp, tt.args)
			if err != nil {
				t.Fatalf("Run(help) error = %v", err)
			}
			if got.(string) != out.String() {
				t.Errorf("returned text differs from printed text")
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("help output missing %q:\n%s", w, out.String())
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out.String(), w) {
					t.Errorf("help output contains %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestHelpUnknownTask(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, testDeps(afero.NewMemMapFs()), nil)
	_, err := env.Run(context.Background(), TaskHelp, runtime.Arguments{"task": "deploy"})
	if !issue.Is(err, issue.UnrecognizedTask) {
		t.Fatalf("Run(help deploy) error = %v", err)
	}
}
