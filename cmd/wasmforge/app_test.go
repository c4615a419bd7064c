// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/builtin"
	"github.com/wasmforge/wasmforge/internal/config"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/plugin"
	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/internal/testutil"
	"github.com/wasmforge/wasmforge/internal/toolchain"
)

const projectDir = "/work/project"

type testApp struct {
	*App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestApp returns an App over an in-memory filesystem. Tests using it
// must not run in parallel: every run creates the process context.
func newTestApp(t *testing.T, fsys afero.Fs, workDir string) testApp {
	t.Helper()
	t.Cleanup(runtime.ResetContext)

	var stdout, stderr bytes.Buffer
	app := &App{
		Stdout:    &stdout,
		Stderr:    &stderr,
		Fs:        fsys,
		WorkDir:   workDir,
		EnvLookup: testutil.MapLookup(nil),
		Config:    config.NewProvider(),
		Plugins:   plugin.NewCatalog(),
		Deps: builtin.Deps{
			Version:      "1.2.3",
			Fs:           fsys,
			WorkDir:      workDir,
			Stderr:       &stderr,
			Virtual:      toolchain.NewVirtual(),
			UserCacheDir: func() (string, error) { return "/home/dev/.cache", nil },
		},
		MarkdownStyle: "notty",
	}
	return testApp{App: app, stdout: &stdout, stderr: &stderr}
}

func projectFs(t *testing.T, plugins ...string) afero.Fs {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Plugins = plugins
	fsys := afero.NewMemMapFs()
	testutil.WriteProject(t, fsys, projectDir, cfg)
	return fsys
}

func TestAppRun(t *testing.T) {
	// Not parallel: each run creates and resets the process context.

	tests := []struct {
		name       string
		tokens     []string
		inProject  bool
		wantStdout []string
		wantErr    *issue.Descriptor
	}{
		{name: "version", tokens: []string{"--version"}, wantStdout: []string{"1.2.3"}},
		{name: "short version", tokens: []string{"-v", "compile"}, wantStdout: []string{"1.2.3"}},
		{name: "no task prints help", wantStdout: []string{"AVAILABLE TASKS", "compile", "network-status"}},
		{name: "help flag with task", tokens: []string{"--help", "compile"}, wantStdout: []string{"compile", "--optimize"}},
		{name: "help task", tokens: []string{"help", "run"}, wantStdout: []string{"script"}},
		{name: "help for unknown task", tokens: []string{"help", "deploy"}, wantErr: issue.UnrecognizedTask},
		{name: "task outside project", tokens: []string{"compile"}, wantErr: issue.NotInsideProject},
		{name: "unknown task", tokens: []string{"deploy"}, wantErr: issue.UnrecognizedTask},
		{name: "unknown global flag", tokens: []string{"--bogus", "compile"}, wantErr: issue.UnrecognizedCommandLineArg},
		{name: "check in project", tokens: []string{"check"}, inProject: true, wantStdout: []string{"Config:", config.ConfigFileName}},
		{
			name:       "globals after the task",
			tokens:     []string{"check", "--network", "local", "--show-stack-traces"},
			inProject:  true,
			wantStdout: []string{"Network: local"},
		},
		{name: "unknown task param", tokens: []string{"clean", "--everything"}, inProject: true, wantErr: issue.UnrecognizedParamName},
		{name: "unknown network", tokens: []string{"--network", "mainnet", "check"}, inProject: true, wantErr: issue.NetworkConfigNotFound},
		{name: "missing positional", tokens: []string{"run"}, inProject: true, wantErr: issue.MissingPositionalArg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			workDir := "/home/dev"
			if tt.inProject {
				fsys = projectFs(t)
				workDir = filepath.Join(projectDir, "contracts")
			}
			app := newTestApp(t, fsys, workDir)

			err := app.Run(context.Background(), tt.tokens)
			if tt.wantErr != nil {
				if !issue.Is(err, tt.wantErr) {
					t.Fatalf("Run(%v) error = %v, want %s", tt.tokens, err, tt.wantErr.Code())
				}
				if exitCode(err) != 1 {
					t.Errorf("exitCode() = %d, want 1", exitCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Run(%v) error = %v", tt.tokens, err)
			}
			for _, s := range tt.wantStdout {
				if !strings.Contains(app.stdout.String(), s) {
					t.Errorf("stdout %q does not contain %q", app.stdout.String(), s)
				}
			}
			if runtime.IsContextCreated() {
				t.Error("context still created after the run")
			}
		})
	}
}

func TestAppRunPlugins(t *testing.T) {
	// Not parallel: each run creates and resets the process context.

	t.Run("plugin overrides a built-in task", func(t *testing.T) {
		app := newTestApp(t, projectFs(t, "greeter"), projectDir)
		app.Plugins.Register("greeter", func(s *runtime.Session) error {
			return s.Task(builtin.TaskCheck, "", func(ctx context.Context, _ runtime.Arguments, env *runtime.Environment, runSuper runtime.RunSuper) (any, error) {
				fmt.Fprintln(env.Stdout(), "greeter was here")
				return runSuper.Call(ctx, nil)
			}).Err()
		})

		if err := app.Run(context.Background(), []string{"check"}); err != nil {
			t.Fatalf("Run(check) error = %v", err)
		}
		out := app.stdout.String()
		if !strings.HasPrefix(out, "greeter was here\n") || !strings.Contains(out, "Plugins: greeter") {
			t.Errorf("stdout = %q", out)
		}
	})

	t.Run("unknown plugin", func(t *testing.T) {
		app := newTestApp(t, projectFs(t, "missing"), projectDir)

		err := app.Run(context.Background(), []string{"check"})
		if !issue.Is(err, issue.PluginNotFound) {
			t.Fatalf("Run(check) error = %v, want PluginNotFound", err)
		}
	})

	t.Run("failing plugin", func(t *testing.T) {
		app := newTestApp(t, projectFs(t, "broken"), projectDir)
		app.Plugins.Register("broken", func(*runtime.Session) error {
			return fmt.Errorf("cannot reach the registry")
		})

		err := app.Run(context.Background(), []string{"check"})
		if kind, _, pluginErr := classifyError(err); kind != kindPlugin || pluginErr.Plugin != "broken" {
			t.Fatalf("Run(check) error = %v, want a plugin error from broken", err)
		}
	})
}

func TestExecute(t *testing.T) {
	// Not parallel: each run creates and resets the process context.

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantStdout   string
		wantStderr   string
		wantNoStderr string
	}{
		{name: "success", args: []string{"--version"}, wantStdout: "1.2.3"},
		{name: "failure", args: []string{"deploy"}, wantCode: 1, wantStderr: "Error " + issue.UnrecognizedTask.Code() + ":"},
		{
			name:         "stack traces requested before a bad global",
			args:         []string{"--show-stack-traces", "--bogus", "compile"},
			wantCode:     1,
			wantStderr:   "Error " + issue.UnrecognizedCommandLineArg.Code() + ":",
			wantNoStderr: "For more info run wasmforge with --show-stack-traces",
		},
		{
			name:       "verbose requested before a bad global",
			args:       []string{"--verbose", "--bogus", "compile"},
			wantCode:   1,
			wantStderr: "Only global wasmforge parameters",
		},
		{
			name:       "stack traces flag after the separator is a plain token",
			args:       []string{"--bogus", "--", "--show-stack-traces"},
			wantCode:   1,
			wantStderr: "For more info run wasmforge with --show-stack-traces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, afero.NewMemMapFs(), "/home/dev")

			if code := execute(context.Background(), app.App, tt.args); code != tt.wantCode {
				t.Errorf("execute() = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(app.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", app.stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(app.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", app.stderr.String(), tt.wantStderr)
			}
			if tt.wantNoStderr != "" && strings.Contains(app.stderr.String(), tt.wantNoStderr) {
				t.Errorf("stderr = %q, should not contain %q", app.stderr.String(), tt.wantNoStderr)
			}
		})
	}
}

func TestExecuteRecoversPanics(t *testing.T) {
	// Not parallel: each run creates and resets the process context.

	app := newTestApp(t, projectFs(t, "unstable"), projectDir)
	app.Plugins.Register("unstable", func(s *runtime.Session) error {
		return s.Task(builtin.TaskCheck, "", func(context.Context, runtime.Arguments, *runtime.Environment, runtime.RunSuper) (any, error) {
			panic("unstable plugin gave up")
		}).Err()
	})

	if code := execute(context.Background(), app.App, []string{"check"}); code != 1 {
		t.Errorf("execute() = %d, want 1", code)
	}
	stderr := app.stderr.String()
	for _, want := range []string{"An unexpected error occurred:", "panic: unstable plugin gave up", reportURL} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr = %q, want %q", stderr, want)
		}
	}
	if runtime.IsContextCreated() {
		t.Error("context still created after the panic")
	}
}

func TestAppRunLogLevel(t *testing.T) {
	// Not parallel: each run creates and resets the process context.

	tests := []struct {
		name    string
		tokens  []string
		env     map[string]string
		wantErr bool
	}{
		{name: "known level", tokens: []string{"--log-level", "info", "check"}},
		{name: "level is case insensitive", tokens: []string{"--log-level", "DEBUG", "check"}},
		{name: "unknown level", tokens: []string{"--log-level", "bogus", "check"}, wantErr: true},
		{name: "unknown level from env", tokens: []string{"check"}, env: map[string]string{"WASMFORGE_LOG_LEVEL": "chatty"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, projectFs(t), projectDir)
			app.EnvLookup = testutil.MapLookup(tt.env)

			err := app.Run(context.Background(), tt.tokens)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Run(%v) error = %v", tt.tokens, err)
				}
				return
			}
			if !issue.Is(err, issue.InvalidValueForType) {
				t.Fatalf("Run(%v) error = %v, want InvalidValueForType", tt.tokens, err)
			}
		})
	}
}
