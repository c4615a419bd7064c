// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/casing"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/internal/toolchain"
	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

func (t *tasks) declareRun(s *runtime.Session) runtime.TaskBuilder {
	return s.Task(TaskRun, "Runs a user-defined script against the selected network", t.run).
		AddPositionalParam("script", "A shell script file, relative to the project or the scripts directory", nil, paramtype.String, false).
		AddOptionalVariadicPositionalParam("scriptArgs", "Arguments passed to the script", []any{}, paramtype.String)
}

func (t *tasks) run(ctx context.Context, args runtime.Arguments, env *runtime.Environment, _ runtime.RunSuper) (any, error) {
	root, err := projectRoot(env)
	if err != nil {
		return nil, err
	}
	script := args.String("script")
	path, err := t.resolveScript(env, script)
	if err != nil {
		return nil, err
	}
	source, err := afero.ReadFile(t.deps.Fs, path)
	if err != nil {
		return nil, issue.Wrap(issue.ScriptNotFound, map[string]any{"script": script}, err)
	}

	network := env.Network()
	env.Logger().Info("running script", "script", path, "network", network.Name)
	code, err := t.deps.Virtual.Run(ctx, toolchain.Script{
		Name:   path,
		Source: bytes.NewReader(source),
		Args:   args.Strings("scriptArgs"),
		Dir:    root,
		Env: map[string]string{
			casing.EnvPrefix + "_NETWORK":  network.Name,
			casing.EnvPrefix + "_ENDPOINT": network.Endpoint,
			casing.EnvPrefix + "_CHAIN_ID": network.ChainID,
		},
		Stdin:  os.Stdin,
		Stdout: env.Stdout(),
		Stderr: t.stderr(),
	})
	if err != nil {
		return nil, err
	}
	if !code.IsSuccess() {
		return nil, issue.New(issue.ScriptFailed, map[string]any{"script": script, "exitCode": code})
	}
	return code, nil
}

// resolveScript looks for script relative to the project root, then to the
// scripts directory.
func (t *tasks) resolveScript(env *runtime.Environment, script string) (string, error) {
	cfg := env.Config()
	candidates := []string{cfg.ResolvePath(script)}
	if !filepath.IsAbs(script) {
		candidates = append(candidates, filepath.Join(cfg.ResolvePath(cfg.Paths.Scripts), script))
	}
	for _, c := range candidates {
		if ok, _ := afero.Exists(t.deps.Fs, c); ok {
			if dir, _ := afero.IsDir(t.deps.Fs, c); !dir {
				return c, nil
			}
		}
	}
	return "", issue.New(issue.ScriptNotFound, map[string]any{"script": script})
}
