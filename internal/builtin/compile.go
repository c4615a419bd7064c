// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/config"
	"github.com/wasmforge/wasmforge/internal/container"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/internal/toolchain"
	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

const (
	manifestGlob   = "*/Cargo.toml"
	wasmTargetDir  = "target/wasm32-unknown-unknown/release"
	optimizerMount = "/code"
)

type (
	// Contract is a contract crate found below the contracts directory.
	Contract struct {
		Name string
		// LibName is the crate's library name, used for the .wasm file.
		LibName  string
		Dir      string
		Manifest string
	}

	// Artifact is a compiled contract copied into the artifacts directory.
	Artifact struct {
		Contract  string
		Path      string
		Optimized bool
	}

	cargoManifest struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
		Lib struct {
			Name string `toml:"name"`
		} `toml:"lib"`
	}
)

func (t *tasks) declareCompile(s *runtime.Session) runtime.TaskBuilder {
	return s.Task(TaskCompile, "Compiles the contracts of the project", t.compile).
		AddFlag("quiet", "Hides the compiler output", runtime.WithShortName("q")).
		AddFlag("optimize", "Builds inside the optimizer container for deployable, reproducible artifacts").
		AddOptionalVariadicPositionalParam("contracts", "The contracts to compile, all by default", []any{}, paramtype.String)
}

func (t *tasks) compile(ctx context.Context, args runtime.Arguments, env *runtime.Environment, _ runtime.RunSuper) (any, error) {
	root, err := projectRoot(env)
	if err != nil {
		return nil, err
	}
	cfg := env.Config()

	contracts, err := t.discoverContracts(cfg)
	if err != nil {
		return nil, err
	}
	selected, err := selectContracts(contracts, args.Strings("contracts"))
	if err != nil {
		return nil, err
	}

	out, errOut := env.Stdout(), t.stderr()
	if args.Bool("quiet") {
		out = io.Discard
	}

	artifactsDir := cfg.ResolvePath(cfg.Paths.Artifacts)
	if err := t.deps.Fs.MkdirAll(artifactsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", artifactsDir, err)
	}

	if args.Bool("optimize") {
		return t.compileOptimized(ctx, env, root, selected, out, errOut)
	}

	artifacts := make([]Artifact, 0, len(selected))
	for _, c := range selected {
		env.Logger().Info("compiling contract", "contract", c.Name)
		code, err := t.deps.Native.Run(ctx, toolchain.Command{
			Name:   cfg.Compiler.Command,
			Args:   append(slices.Clone(cfg.Compiler.Args), c.Manifest),
			Dir:    root,
			Stdout: out,
			Stderr: errOut,
		})
		if err != nil {
			return nil, err
		}
		if !code.IsSuccess() {
			return nil, issue.New(issue.CompileFailure, map[string]any{"contract": c.Name, "exitCode": code})
		}

		artifact, err := t.collectArtifact(root, c, artifactsDir)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// compileOptimized runs the optimizer image once over the whole project.
// The image writes <name>.wasm files into /code/artifacts.
func (t *tasks) compileOptimized(
	ctx context.Context, env *runtime.Environment, root string, selected []Contract, out, errOut io.Writer,
) ([]Artifact, error) {
	cfg := env.Config()
	engine, err := t.deps.NewEngine(ctx, cfg.Compiler.ContainerEngine)
	if err != nil {
		return nil, err
	}

	env.Logger().Info("running optimizer", "engine", engine.Name(), "image", cfg.Compiler.OptimizerImage)
	res, err := container.RunWithRetry(ctx, engine, container.RunOptions{
		Image:   cfg.Compiler.OptimizerImage,
		WorkDir: optimizerMount,
		Volumes: []container.VolumeMount{{HostPath: root, ContainerPath: optimizerMount}},
		Remove:  true,
		Stdout:  out,
		Stderr:  errOut,
	}, t.deps.EngineBackoff())
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, issue.New(issue.CompileFailure, map[string]any{"contract": cfg.Compiler.OptimizerImage, "exitCode": res.ExitCode})
	}

	artifactsDir := cfg.ResolvePath(cfg.Paths.Artifacts)
	artifacts := make([]Artifact, 0, len(selected))
	for _, c := range selected {
		path := filepath.Join(artifactsDir, c.LibName+".wasm")
		if ok, _ := afero.Exists(t.deps.Fs, path); !ok {
			return nil, issue.New(issue.ArtifactNotFound, map[string]any{"contract": c.Name, "artifact": path})
		}
		artifacts = append(artifacts, Artifact{Contract: c.Name, Path: path, Optimized: true})
	}
	return artifacts, nil
}

// discoverContracts lists the crates matching contracts/*/Cargo.toml,
// sorted by name.
func (t *tasks) discoverContracts(cfg *config.Config) ([]Contract, error) {
	dir := cfg.ResolvePath(cfg.Paths.Contracts)
	if ok, _ := afero.DirExists(t.deps.Fs, dir); !ok {
		return nil, issue.New(issue.NoContractsFound, map[string]any{"path": dir})
	}

	matches, err := doublestar.Glob(afero.NewIOFS(afero.NewBasePathFs(t.deps.Fs, dir)), manifestGlob)
	if err != nil {
		return nil, fmt.Errorf("search contracts in %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, issue.New(issue.NoContractsFound, map[string]any{"path": dir})
	}

	contracts := make([]Contract, 0, len(matches))
	for _, m := range matches {
		manifestPath := filepath.Join(dir, filepath.FromSlash(m))
		data, err := afero.ReadFile(t.deps.Fs, manifestPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", manifestPath, err)
		}
		var manifest cargoManifest
		if err := toml.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("parse %s: %w", manifestPath, err)
		}

		crateDir := filepath.Dir(manifestPath)
		name := manifest.Package.Name
		if name == "" {
			name = filepath.Base(crateDir)
		}
		lib := manifest.Lib.Name
		if lib == "" {
			lib = strings.ReplaceAll(name, "-", "_")
		}
		contracts = append(contracts, Contract{Name: name, LibName: lib, Dir: crateDir, Manifest: manifestPath})
	}
	slices.SortFunc(contracts, func(a, b Contract) int { return strings.Compare(a.Name, b.Name) })
	return contracts, nil
}

// selectContracts keeps the named contracts, all of them when names is empty.
func selectContracts(contracts []Contract, names []string) ([]Contract, error) {
	if len(names) == 0 {
		return contracts, nil
	}
	selected := make([]Contract, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(contracts, func(c Contract) bool { return c.Name == name })
		if i < 0 {
			known := make([]string, len(contracts))
			for j, c := range contracts {
				known[j] = c.Name
			}
			return nil, issue.New(issue.UnknownContract, map[string]any{"contract": name, "known": strings.Join(known, ", ")})
		}
		selected = append(selected, contracts[i])
	}
	return selected, nil
}

// collectArtifact copies the compiled .wasm of c into artifactsDir. Cargo
// workspaces build into the project's target dir, single crates into their own.
func (t *tasks) collectArtifact(root string, c Contract, artifactsDir string) (Artifact, error) {
	file := c.LibName + ".wasm"
	candidates := []string{
		filepath.Join(root, filepath.FromSlash(wasmTargetDir), file),
		filepath.Join(c.Dir, filepath.FromSlash(wasmTargetDir), file),
	}
	for _, src := range candidates {
		data, err := afero.ReadFile(t.deps.Fs, src)
		if err != nil {
			continue
		}
		dst := filepath.Join(artifactsDir, file)
		if err := afero.WriteFile(t.deps.Fs, dst, data, 0o644); err != nil {
			return Artifact{}, fmt.Errorf("write %s: %w", dst, err)
		}
		return Artifact{Contract: c.Name, Path: dst}, nil
	}
	return Artifact{}, issue.New(issue.ArtifactNotFound, map[string]any{"contract": c.Name, "artifact": candidates[0]})
}
