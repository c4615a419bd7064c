// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"io"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/chainrpc"
	"github.com/wasmforge/wasmforge/internal/config"
	"github.com/wasmforge/wasmforge/internal/container"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/internal/toolchain"
)

// Built-in task names.
const (
	TaskHelp          = "help"
	TaskCompile       = "compile"
	TaskClean         = "clean"
	TaskRun           = "run"
	TaskNetworkStatus = "network-status"
	TaskInit          = "init"
	TaskCheck         = "check"
)

type (
	// StatusClient reads the status of a network node.
	StatusClient interface {
		Status(ctx context.Context) (chainrpc.Status, error)
	}

	// CommandRunner runs native programs such as the contract compiler.
	CommandRunner interface {
		Run(ctx context.Context, c toolchain.Command) (toolchain.ExitCode, error)
	}

	// ScriptRunner interprets shell scripts.
	ScriptRunner interface {
		Run(ctx context.Context, s toolchain.Script) (toolchain.ExitCode, error)
		// Validate parses source without running it.
		Validate(name, source string) error
	}

	// Deps are the collaborators behind the built-in tasks.
	Deps struct {
		// Version is the wasmforge version shown by help.
		Version string
		Fs      afero.Fs
		// WorkDir is where init creates projects.
		WorkDir string
		Stderr  io.Writer
		Native  CommandRunner
		Virtual ScriptRunner
		// NewEngine selects the container engine for optimized builds.
		NewEngine func(ctx context.Context, preferred config.ContainerEngine) (container.Engine, error)
		// EngineBackoff is the retry policy for transient container failures.
		EngineBackoff func() retry.Backoff
		// NewStatusClient returns an RPC client for a network.
		NewStatusClient func(n runtime.Network) StatusClient
		Prompter        Prompter
		// GitInit creates a git repository in dir.
		GitInit func(dir string) error
		// UserCacheDir returns the per-user cache directory.
		UserCacheDir func() (string, error)
	}

	tasks struct {
		deps Deps
	}
)

// DefaultDeps returns the production collaborators.
func DefaultDeps(version string) Deps {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return Deps{
		Version: version,
		Fs:      afero.NewOsFs(),
		WorkDir: wd,
		Stderr:  os.Stderr,
		Native:  toolchain.NewNative(),
		Virtual: toolchain.NewVirtual(),
		NewEngine: func(ctx context.Context, preferred config.ContainerEngine) (container.Engine, error) {
			return container.NewEngine(ctx, preferred)
		},
		EngineBackoff: container.DefaultBackoff,
		NewStatusClient: func(n runtime.Network) StatusClient {
			return chainrpc.New(n.Name, n.Endpoint, n.Timeout)
		},
		Prompter: NewTerminalPrompter(),
		GitInit: func(dir string) error {
			_, err := git.PlainInit(dir, false)
			return err
		},
		UserCacheDir: os.UserCacheDir,
	}
}

// Register declares the built-in tasks in s. It returns the first task
// construction error.
func Register(s *runtime.Session, deps Deps) error {
	t := &tasks{deps: deps}
	builders := []runtime.TaskBuilder{
		t.declareHelp(s),
		t.declareCompile(s),
		t.declareClean(s),
		t.declareRun(s),
		t.declareNetworkStatus(s),
		t.declareInit(s),
		t.declareCheck(s),
	}
	for _, b := range builders {
		if err := b.Err(); err != nil {
			return err
		}
	}
	return nil
}

// RequiresProject reports whether def can only run inside a project.
// Internal tasks and help run anywhere.
func RequiresProject(def runtime.TaskDefinition) bool {
	return !def.IsInternal() && def.Name() != TaskHelp && def.Name() != TaskNetworkStatus
}

// projectRoot returns the project root, failing outside a project.
func projectRoot(env *runtime.Environment) (string, error) {
	cfg := env.Config()
	if !cfg.InProject() {
		return "", issue.New(issue.NotInsideProject, nil)
	}
	return cfg.Root, nil
}

func (t *tasks) stderr() io.Writer {
	if t.deps.Stderr == nil {
		return io.Discard
	}
	return t.deps.Stderr
}
