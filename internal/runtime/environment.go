// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/wasmforge/wasmforge/internal/config"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/logging"
)

type (
	// Environment is what task actions run against: the resolved config and
	// network, the runtime arguments and the frozen task definitions.
	Environment struct {
		config      *config.Config
		network     Network
		runtimeArgs RuntimeArgs
		definitions map[string]TaskDefinition
		logger      *log.Logger
		stdout      io.Writer
		values      map[string]any
	}

	// Network is the selected network.
	Network struct {
		Name string
		config.NetworkConfig
	}

	// EnvironmentOption customizes an Environment.
	EnvironmentOption func(*Environment)

	// overriding is implemented by definitions that wrap another one.
	overriding interface {
		Parent() TaskDefinition
		OwnAction() Action
	}
)

// WithLogger sets the logger handed to actions.
func WithLogger(logger *log.Logger) EnvironmentOption {
	return func(e *Environment) {
		e.logger = logger
	}
}

// WithStdout sets where actions print their results.
func WithStdout(w io.Writer) EnvironmentOption {
	return func(e *Environment) {
		e.stdout = w
	}
}

// NewEnvironment resolves the selected network, freezes defs and runs the
// extenders in order.
func NewEnvironment(
	ctx context.Context,
	cfg *config.Config,
	args RuntimeArgs,
	defs map[string]TaskDefinition,
	extenders []Extender,
	opts ...EnvironmentOption,
) (*Environment, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	name := args.Network
	if name == "" {
		name = cfg.DefaultNetwork
	}
	netCfg, ok := cfg.Networks[name]
	if !ok {
		return nil, issue.New(issue.NetworkConfigNotFound, map[string]any{"network": name})
	}

	env := &Environment{
		config:      cfg,
		network:     Network{Name: name, NetworkConfig: netCfg},
		runtimeArgs: args,
		definitions: maps.Clone(defs),
		stdout:      os.Stdout,
		values:      make(map[string]any),
	}
	for _, opt := range opts {
		opt(env)
	}
	if env.logger == nil {
		env.logger = logging.Discard()
	}

	for _, extend := range extenders {
		if err := extend(ctx, env); err != nil {
			return nil, issue.Wrap(issue.ExtenderFailed, map[string]any{"error": err.Error()}, err)
		}
	}
	return env, nil
}

// Config returns the resolved configuration.
func (e *Environment) Config() *config.Config { return e.config }

// Network returns the selected network.
func (e *Environment) Network() Network { return e.network }

// RuntimeArgs returns the global arguments of the invocation.
func (e *Environment) RuntimeArgs() RuntimeArgs { return e.runtimeArgs }

// Logger returns the environment logger.
func (e *Environment) Logger() *log.Logger { return e.logger }

// Stdout returns the writer actions print results to.
func (e *Environment) Stdout() io.Writer { return e.stdout }

// TaskDefinitions returns the frozen task definitions.
func (e *Environment) TaskDefinitions() map[string]TaskDefinition {
	return maps.Clone(e.definitions)
}

// TaskNames returns the names of the frozen task definitions, sorted.
func (e *Environment) TaskNames() []string {
	return slices.Sorted(maps.Keys(e.definitions))
}

// TaskDefinition returns the definition of name.
func (e *Environment) TaskDefinition(name string) (TaskDefinition, bool) {
	def, ok := e.definitions[name]
	return def, ok
}

// Set attaches a value to the environment, usually from an extender.
func (e *Environment) Set(key string, value any) {
	e.values[key] = value
}

// Value returns a value attached with Set.
func (e *Environment) Value(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Run runs a task. args are checked against the task's parameters and
// completed with defaults; errors returned by actions are passed through
// unchanged.
func (e *Environment) Run(ctx context.Context, name string, args Arguments) (any, error) {
	def, ok := e.definitions[name]
	if !ok {
		return nil, issue.New(issue.UnrecognizedTask, map[string]any{"task": name})
	}
	resolved, err := ResolveArguments(def, args)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	e.logger.Debug("running task", "task", name, "run", runID)
	result, err := e.runDefinition(ctx, def, resolved)
	e.logger.Debug("task finished", "task", name, "run", runID, "failed", err != nil)
	return result, err
}

func (e *Environment) runDefinition(ctx context.Context, def TaskDefinition, args Arguments) (any, error) {
	if o, ok := def.(overriding); ok {
		parent := o.Parent()
		action := o.OwnAction()
		if action == nil {
			return e.runDefinition(ctx, parent, args)
		}
		runSuper := RunSuper{
			task: def.Name(),
			call: func(ctx context.Context, superArgs Arguments) (any, error) {
				if superArgs == nil {
					superArgs = args
				}
				return e.runDefinition(ctx, parent, superArgs)
			},
		}
		return action(ctx, args, e, runSuper)
	}

	action := def.Action()
	if action == nil {
		return nil, issue.New(issue.NoActionForTask, map[string]any{"task": def.Name()})
	}
	return action(ctx, args, e, RunSuper{task: def.Name()})
}
