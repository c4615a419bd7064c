// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/wasmforge/wasmforge/internal/casing"
	"github.com/wasmforge/wasmforge/internal/issue"
)

const (
	// ConfigFileName is the file that marks a project root.
	ConfigFileName = "wasmforge.config.cue"

	// maxConfigFileSize bounds the config file read into memory.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

var validate = validator.New(validator.WithRequiredStructEnabled())

// FindConfigFile walks from dir up to the filesystem root and returns the
// first wasmforge.config.cue found, or "" when there is none.
func FindConfigFile(fsys afero.Fs, dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if fileExists(fsys, candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// loadWithOptions performs option-driven config loading.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	fsys := opts.fs()
	v := newViper()

	path := opts.ConfigFilePath
	if path != "" {
		if !fileExists(fsys, path) {
			return nil, issue.New(issue.ConfigNotFound, map[string]any{"path": path})
		}
	} else {
		found, err := FindConfigFile(fsys, opts.workDir())
		if err != nil {
			return nil, err
		}
		path = found
	}

	if path != "" {
		if err := loadCUEIntoViper(fsys, v, path); err != nil {
			return nil, issue.Wrap(issue.InvalidConfig, map[string]any{"errors": err.Error()},
				issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(path).
					WithSuggestion("Check that the file contains valid CUE syntax").
					WithSuggestion("Compare your values with the file generated by 'wasmforge init'").
					Wrap(err).
					BuildError())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, issue.Wrap(issue.InvalidConfig, map[string]any{"errors": err.Error()}, err)
	}

	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		cfg.Path = abs
		cfg.Root = filepath.Dir(abs)
	}

	if err := applyNetworkDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newViper returns a Viper instance holding the built-in defaults. Values can
// be overridden with WASMFORGE_<SECTION>_<KEY> environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(casing.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("default_network", defaults.DefaultNetwork)
	v.SetDefault("paths.contracts", defaults.Paths.Contracts)
	v.SetDefault("paths.artifacts", defaults.Paths.Artifacts)
	v.SetDefault("paths.cache", defaults.Paths.Cache)
	v.SetDefault("paths.scripts", defaults.Paths.Scripts)
	v.SetDefault("compiler.command", defaults.Compiler.Command)
	v.SetDefault("compiler.args", defaults.Compiler.Args)
	v.SetDefault("compiler.optimizer_image", defaults.Compiler.OptimizerImage)
	v.SetDefault("compiler.container_engine", string(defaults.Compiler.ContainerEngine))
	v.SetDefault("plugins", []string{})
	return v
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(fsys afero.Fs, v *viper.Viper, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// applyNetworkDefaults completes the local network with the built-in values
// for every field the project left empty.
func applyNetworkDefaults(cfg *Config) error {
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]NetworkConfig)
	}
	local := cfg.Networks[LocalNetwork]
	if err := mergo.Merge(&local, DefaultLocalNetwork()); err != nil {
		return fmt.Errorf("failed to merge local network defaults: %w", err)
	}
	cfg.Networks[LocalNetwork] = local
	return nil
}

// validateConfig checks the constraints the CUE schema cannot express once
// defaults and environment overrides are applied.
func validateConfig(cfg *Config) error {
	var problems []string
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return issue.Wrap(issue.InvalidConfig, map[string]any{"errors": err.Error()}, err)
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}
	if err := cfg.Compiler.ContainerEngine.Validate(); err != nil {
		problems = append(problems, "compiler.container_engine: "+err.Error())
	}
	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	return issue.New(issue.InvalidConfig, map[string]any{"errors": "  * " + strings.Join(problems, "\n  * ")})
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + ": is required"
	case "url":
		return fmt.Sprintf("%s: %q is not a valid URL", field, fe.Value())
	default:
		return fmt.Sprintf("%s: failed %s validation", field, fe.Tag())
	}
}

// formatCUEError flattens CUE errors into "<file>: <path>: <message>" lines.
func formatCUEError(err error, path string) error {
	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}
	lines := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		field := strings.Join(cueerrors.Path(e), ".")
		msg := e.Error()
		if field != "" && strings.HasPrefix(msg, field) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, field), ":"))
		}
		if field != "" {
			msg = field + ": " + msg
		}
		lines = append(lines, msg)
	}
	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", path, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", path, strings.Join(lines, "\n  "))
}

func fileExists(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}
