// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/config"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

// InitResult describes a scaffolded project.
type InitResult struct {
	Dir        string
	ConfigFile string
	GitInit    bool
}

func (t *tasks) declareInit(s *runtime.Session) runtime.TaskBuilder {
	return s.InternalTask(TaskInit, "Creates a new wasmforge project", t.init).
		AddOptionalParam("name", "The project directory, asked for when interactive", nil, paramtype.String).
		AddFlag("force", "Overwrites an existing config file").
		AddFlag("noGit", "Skips creating a git repository")
}

func (t *tasks) init(ctx context.Context, args runtime.Arguments, env *runtime.Environment, _ runtime.RunSuper) (any, error) {
	name := args.String("name")
	if name == "" && t.deps.Prompter != nil && t.deps.Prompter.Interactive() {
		var err error
		if name, err = t.deps.Prompter.ProjectDir(ctx, "."); err != nil {
			return nil, err
		}
	}

	dir := t.deps.WorkDir
	if name != "" && name != "." {
		dir = filepath.Join(t.deps.WorkDir, name)
		if filepath.IsAbs(name) {
			dir = name
		}
	}

	cfgFile := filepath.Join(dir, config.ConfigFileName)
	if ok, _ := afero.Exists(t.deps.Fs, cfgFile); ok && !args.Bool("force") {
		return nil, issue.New(issue.InitTargetNotEmpty, map[string]any{"path": dir})
	}

	cfg := config.DefaultConfig()
	for _, sub := range []string{cfg.Paths.Contracts, cfg.Paths.Scripts} {
		if err := t.deps.Fs.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", sub, err)
		}
	}
	if err := afero.WriteFile(t.deps.Fs, cfgFile, []byte(config.GenerateCUE(cfg)), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", cfgFile, err)
	}
	gitignore := filepath.Join(dir, ".gitignore")
	if ok, _ := afero.Exists(t.deps.Fs, gitignore); !ok {
		content := fmt.Sprintf("/target\n/%s\n/%s\n", cfg.Paths.Artifacts, cfg.Paths.Cache)
		if err := afero.WriteFile(t.deps.Fs, gitignore, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", gitignore, err)
		}
	}

	result := InitResult{Dir: dir, ConfigFile: cfgFile}
	hasGit, _ := afero.DirExists(t.deps.Fs, filepath.Join(dir, ".git"))
	if !args.Bool("noGit") && !hasGit && t.deps.GitInit != nil {
		if err := t.deps.GitInit(dir); err != nil {
			env.Logger().Warn("could not create a git repository", "dir", dir, "err", err)
		} else {
			result.GitInit = true
		}
	}

	fmt.Fprintf(env.Stdout(), "%s %s\n", nameStyle.Render("Created project in"), dir)
	return result, nil
}
