// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/config"
	"github.com/wasmforge/wasmforge/internal/container"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/internal/testutil"
	"github.com/wasmforge/wasmforge/internal/toolchain"
)

type (
	// fakeCompiler writes the .wasm cargo would produce for each manifest.
	fakeCompiler struct {
		fs       afero.Fs
		libs     map[string]string
		exitCode toolchain.ExitCode
		noOutput bool
		calls    []toolchain.Command
	}

	// fakeEngine stands in for the optimizer container.
	fakeEngine struct {
		fs      afero.Fs
		libs    []string
		results []container.RunResult
		opts    []container.RunOptions
	}
)

func (f *fakeCompiler) Run(_ context.Context, c toolchain.Command) (toolchain.ExitCode, error) {
	f.calls = append(f.calls, c)
	if f.exitCode != 0 || f.noOutput {
		return f.exitCode, nil
	}
	manifest := c.Args[len(c.Args)-1]
	lib := f.libs[filepath.Base(filepath.Dir(manifest))]
	out := filepath.Join(c.Dir, "target/wasm32-unknown-unknown/release", lib+".wasm")
	return 0, afero.WriteFile(f.fs, out, []byte("\x00asm"), 0o644)
}

func (f *fakeEngine) Name() string                   { return "podman" }
func (f *fakeEngine) Available(context.Context) bool { return true }

func (f *fakeEngine) Run(_ context.Context, opts container.RunOptions) (container.RunResult, error) {
	f.opts = append(f.opts, opts)
	res := f.results[min(len(f.opts)-1, len(f.results)-1)]
	if res.ExitCode == 0 {
		for _, lib := range f.libs {
			path := filepath.Join(opts.Volumes[0].HostPath, "artifacts", lib+".wasm")
			if err := afero.WriteFile(f.fs, path, []byte("\x00asm"), 0o644); err != nil {
				return container.RunResult{}, err
			}
		}
	}
	return res, nil
}

func contractsFs(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	testutil.MustWriteFiles(t, fsys, map[string]string{
		testRoot + "/contracts/counter/Cargo.toml": "[package]\nname = \"counter\"\nversion = \"0.1.0\"\n",
		testRoot + "/contracts/token/Cargo.toml":   "[package]\nname = \"cw-token\"\n\n[lib]\ncrate-type = [\"cdylib\"]\n",
		testRoot + "/contracts/README.md":          "not a crate",
	})
	return fsys
}

func compilerFor(fsys afero.Fs) *fakeCompiler {
	return &fakeCompiler{fs: fsys, libs: map[string]string{"counter": "counter", "token": "cw_token"}}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     runtime.Arguments
		wantRuns []string
	}{
		{"all contracts", nil, []string{"counter", "cw-token"}},
		{"selected contract", runtime.Arguments{"contracts": []any{"cw-token"}}, []string{"cw-token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := contractsFs(t)
			compiler := compilerFor(fsys)
			deps := testDeps(fsys)
			deps.Native = compiler
			env, _ := newTestEnv(t, deps, projectConfig(testRoot))

			got, err := env.Run(context.Background(), TaskCompile, tt.args)
			if err != nil {
				t.Fatalf("Run(compile) error = %v", err)
			}
			artifacts := got.([]Artifact)

			var names []string
			for _, a := range artifacts {
				names = append(names, a.Contract)
				if ok, _ := afero.Exists(fsys, a.Path); !ok {
					t.Errorf("artifact %s was not written", a.Path)
				}
				if filepath.Dir(a.Path) != filepath.Join(testRoot, "artifacts") {
					t.Errorf("artifact %s is outside the artifacts dir", a.Path)
				}
			}
			if !slices.Equal(names, tt.wantRuns) {
				t.Errorf("compiled %v, want %v", names, tt.wantRuns)
			}

			for _, c := range compiler.calls {
				if c.Name != "cargo" || c.Dir != testRoot || c.Args[0] != "build" {
					t.Errorf("compiler invocation = %+v", c)
				}
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fs       func(t *testing.T) afero.Fs
		cfg      *config.Config
		compiler func(afero.Fs) *fakeCompiler
		args     runtime.Arguments
		want     *issue.Descriptor
	}{
		{
			name: "outside a project",
			fs:   contractsFs,
			cfg:  config.DefaultConfig(),
			want: issue.NotInsideProject,
		},
		{
			name: "no contracts directory",
			fs:   func(*testing.T) afero.Fs { return afero.NewMemMapFs() },
			want: issue.NoContractsFound,
		},
		{
			name: "unknown contract",
			fs:   contractsFs,
			args: runtime.Arguments{"contracts": []any{"escrow"}},
			want: issue.UnknownContract,
		},
		{
			name: "compiler failure",
			fs:   contractsFs,
			compiler: func(fsys afero.Fs) *fakeCompiler {
				c := compilerFor(fsys)
				c.exitCode = 101
				return c
			},
			want: issue.CompileFailure,
		},
		{
			name: "missing wasm output",
			fs:   contractsFs,
			compiler: func(fsys afero.Fs) *fakeCompiler {
				c := compilerFor(fsys)
				c.noOutput = true
				return c
			},
			want: issue.ArtifactNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := tt.fs(t)
			deps := testDeps(fsys)
			deps.Native = compilerFor(fsys)
			if tt.compiler != nil {
				deps.Native = tt.compiler(fsys)
			}
			cfg := tt.cfg
			if cfg == nil {
				cfg = projectConfig(testRoot)
			}
			env, _ := newTestEnv(t, deps, cfg)

			_, err := env.Run(context.Background(), TaskCompile, tt.args)
			if !issue.Is(err, tt.want) {
				t.Fatalf("Run(compile) error = %v, want %s", err, tt.want.Code())
			}
		})
	}
}

func TestCompileOptimized(t *testing.T) {
	t.Parallel()

	fsys := contractsFs(t)
	engine := &fakeEngine{fs: fsys, libs: []string{"counter", "cw_token"}, results: []container.RunResult{{}}}
	deps := testDeps(fsys)
	deps.NewEngine = func(_ context.Context, preferred config.ContainerEngine) (container.Engine, error) {
		if preferred != config.ContainerEngineAuto {
			t.Errorf("preferred engine = %q", preferred)
		}
		return engine, nil
	}
	env, _ := newTestEnv(t, deps, projectConfig(testRoot))

	got, err := env.Run(context.Background(), TaskCompile, runtime.Arguments{"optimize": true, "quiet": true})
	if err != nil {
		t.Fatalf("Run(compile --optimize) error = %v", err)
	}
	artifacts := got.([]Artifact)
	if len(artifacts) != 2 || !artifacts[0].Optimized {
		t.Errorf("artifacts = %+v", artifacts)
	}

	if len(engine.opts) != 1 {
		t.Fatalf("engine runs = %d, want 1", len(engine.opts))
	}
	opts := engine.opts[0]
	if opts.Image != "cosmwasm/optimizer:0.16.1" || !opts.Remove || opts.WorkDir != "/code" {
		t.Errorf("run options = %+v", opts)
	}
	if want := (container.VolumeMount{HostPath: testRoot, ContainerPath: "/code"}); opts.Volumes[0] != want {
		t.Errorf("volume = %+v, want %+v", opts.Volumes[0], want)
	}
}

func TestCompileOptimizedErrors(t *testing.T) {
	t.Parallel()

	t.Run("engine not found", func(t *testing.T) {
		t.Parallel()

		deps := testDeps(contractsFs(t))
		deps.NewEngine = func(context.Context, config.ContainerEngine) (container.Engine, error) {
			return nil, issue.New(issue.ContainerEngineNotFound, map[string]any{"engines": "podman, docker"})
		}
		env, _ := newTestEnv(t, deps, projectConfig(testRoot))

		_, err := env.Run(context.Background(), TaskCompile, runtime.Arguments{"optimize": true})
		if !issue.Is(err, issue.ContainerEngineNotFound) {
			t.Fatalf("error = %v", err)
		}
	})

	t.Run("optimizer failure", func(t *testing.T) {
		t.Parallel()

		fsys := contractsFs(t)
		engine := &fakeEngine{fs: fsys, results: []container.RunResult{{ExitCode: 1}}}
		deps := testDeps(fsys)
		deps.NewEngine = func(context.Context, config.ContainerEngine) (container.Engine, error) { return engine, nil }
		env, _ := newTestEnv(t, deps, projectConfig(testRoot))

		_, err := env.Run(context.Background(), TaskCompile, runtime.Arguments{"optimize": true})
		if !issue.Is(err, issue.CompileFailure) {
			t.Fatalf("error = %v", err)
		}
		var issueErr *issue.Error
		if !errors.As(err, &issueErr) || issueErr.Values["exitCode"] != 1 {
			t.Errorf("error values = %+v", issueErr)
		}
	})
}
