// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"path/filepath"

	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
)

func (t *tasks) declareClean(s *runtime.Session) runtime.TaskBuilder {
	return s.Task(TaskClean, "Clears the cache and deletes all artifacts", t.clean).
		AddFlag("global", "Also clears the per-user wasmforge cache")
}

// clean removes the artifacts and cache directories and returns the paths
// it removed.
func (t *tasks) clean(_ context.Context, args runtime.Arguments, env *runtime.Environment, _ runtime.RunSuper) (any, error) {
	if _, err := projectRoot(env); err != nil {
		return nil, err
	}
	cfg := env.Config()

	paths := []string{cfg.ResolvePath(cfg.Paths.Artifacts), cfg.ResolvePath(cfg.Paths.Cache)}
	if args.Bool("global") {
		dir, err := t.deps.UserCacheDir()
		if err != nil {
			return nil, issue.Wrap(issue.CleanFailed, map[string]any{"path": "user cache", "error": err.Error()}, err)
		}
		paths = append(paths, filepath.Join(dir, programName))
	}

	for _, p := range paths {
		env.Logger().Debug("removing", "path", p)
		if err := t.deps.Fs.RemoveAll(p); err != nil {
			return nil, issue.Wrap(issue.CleanFailed, map[string]any{"path": p, "error": err.Error()}, err)
		}
	}
	return paths, nil
}
