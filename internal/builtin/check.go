// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/config"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
)

const scriptGlob = "**/*.sh"

// CheckReport summarizes the loaded project.
type CheckReport struct {
	ConfigFile string
	Network    string
	Plugins    []string
	Tasks      []string
	Contracts  []string
	Scripts    []string
}

func (t *tasks) declareCheck(s *runtime.Session) runtime.TaskBuilder {
	return s.Task(TaskCheck, "Checks the project config and lists what was loaded", t.checkAction(s))
}

func (t *tasks) checkAction(s *runtime.Session) runtime.Action {
	return func(_ context.Context, _ runtime.Arguments, env *runtime.Environment, _ runtime.RunSuper) (any, error) {
		if _, err := projectRoot(env); err != nil {
			return nil, err
		}
		cfg := env.Config()
		report := CheckReport{
			ConfigFile: cfg.Path,
			Network:    env.Network().Name,
			Plugins:    s.LoadedPlugins(),
			Tasks:      env.TaskNames(),
		}
		if contracts, err := t.discoverContracts(cfg); err == nil {
			for _, c := range contracts {
				report.Contracts = append(report.Contracts, c.Name)
			}
		}

		scripts, err := t.checkScripts(cfg)
		if err != nil {
			return nil, err
		}
		report.Scripts = scripts

		out := env.Stdout()
		fmt.Fprintf(out, "%s %s\n", nameStyle.Render("Config:"), report.ConfigFile)
		fmt.Fprintf(out, "%s %s\n", nameStyle.Render("Network:"), report.Network)
		fmt.Fprintf(out, "%s %s\n", nameStyle.Render("Plugins:"), listOrNone(report.Plugins))
		fmt.Fprintf(out, "%s %s\n", nameStyle.Render("Tasks:"), listOrNone(report.Tasks))
		fmt.Fprintf(out, "%s %s\n", nameStyle.Render("Contracts:"), listOrNone(report.Contracts))
		fmt.Fprintf(out, "%s %s\n", nameStyle.Render("Scripts:"), listOrNone(report.Scripts))
		return report, nil
	}
}

// checkScripts parses every shell script below the scripts directory and
// returns their paths relative to it.
func (t *tasks) checkScripts(cfg *config.Config) ([]string, error) {
	dir := cfg.ResolvePath(cfg.Paths.Scripts)
	if ok, _ := afero.DirExists(t.deps.Fs, dir); !ok {
		return nil, nil
	}
	matches, err := doublestar.Glob(afero.NewIOFS(afero.NewBasePathFs(t.deps.Fs, dir)), scriptGlob)
	if err != nil {
		return nil, fmt.Errorf("search scripts in %s: %w", dir, err)
	}
	for _, m := range matches {
		path := filepath.Join(dir, filepath.FromSlash(m))
		source, err := afero.ReadFile(t.deps.Fs, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := t.deps.Virtual.Validate(m, string(source)); err != nil {
			return nil, issue.Wrap(issue.InvalidScript, map[string]any{"script": m, "error": err.Error()}, err)
		}
	}
	return matches, nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return mutedStyle.Render("none")
	}
	return strings.Join(items, ", ")
}
