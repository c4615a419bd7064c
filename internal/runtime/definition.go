// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"maps"
	"slices"

	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

type (
	// Action implements a task. runSuper runs the definition this one
	// overrides, if any.
	Action func(ctx context.Context, args Arguments, env *Environment, runSuper RunSuper) (any, error)

	// RunSuper is the continuation handed to an overriding action.
	RunSuper struct {
		task string
		call func(ctx context.Context, args Arguments) (any, error)
	}

	// TaskDefinition is the read side of a task declaration.
	TaskDefinition interface {
		Name() string
		Description() string
		IsInternal() bool
		// Action returns the action that runs the task, falling back to the
		// overridden definition's action. It is nil when no action was set.
		Action() Action
		// ParamDefinitions returns the named parameters and flags by name.
		ParamDefinitions() map[string]ParamDefinition
		// PositionalParamDefinitions returns the positional parameters in
		// declaration order.
		PositionalParamDefinitions() []ParamDefinition
	}

	// TaskBuilder declares a task fluently. Construction errors are recorded
	// by the first failing call and reported through Err; later calls are
	// ignored.
	TaskBuilder interface {
		TaskDefinition

		SetDescription(description string) TaskBuilder
		SetAction(action Action) TaskBuilder
		AddParam(name, description string, defaultValue any, typ paramtype.Type, isOptional bool, opts ...ParamOption) TaskBuilder
		AddOptionalParam(name, description string, defaultValue any, typ paramtype.Type, opts ...ParamOption) TaskBuilder
		AddFlag(name, description string, opts ...ParamOption) TaskBuilder
		AddPositionalParam(name, description string, defaultValue any, typ paramtype.Type, isOptional bool) TaskBuilder
		AddOptionalPositionalParam(name, description string, defaultValue any, typ paramtype.Type) TaskBuilder
		AddVariadicPositionalParam(name, description string, defaultValue any, typ paramtype.Type, isOptional bool) TaskBuilder
		AddOptionalVariadicPositionalParam(name, description string, defaultValue any, typ paramtype.Type) TaskBuilder
		Err() error
	}

	// SimpleTaskDefinition is a task declared for the first time.
	SimpleTaskDefinition struct {
		name        string
		description string
		isInternal  bool
		action      Action
		params      map[string]ParamDefinition
		positional  []ParamDefinition
		err         error
	}
)

var _ TaskBuilder = (*SimpleTaskDefinition)(nil)

// Defined reports whether there is an overridden definition to run.
func (r RunSuper) Defined() bool {
	return r.call != nil
}

// Call runs the overridden definition. A nil args reuses the arguments the
// current action received.
func (r RunSuper) Call(ctx context.Context, args Arguments) (any, error) {
	if r.call == nil {
		return nil, issue.New(issue.RunSuperNotDefined, map[string]any{"task": r.task})
	}
	return r.call(ctx, args)
}

// NewTaskDefinition creates an empty task definition.
func NewTaskDefinition(name string, isInternal bool) *SimpleTaskDefinition {
	return &SimpleTaskDefinition{
		name:       name,
		isInternal: isInternal,
		params:     make(map[string]ParamDefinition),
	}
}

// Name returns the task name.
func (d *SimpleTaskDefinition) Name() string { return d.name }

// Description returns the task description.
func (d *SimpleTaskDefinition) Description() string { return d.description }

// IsInternal reports whether the task can run outside a project.
func (d *SimpleTaskDefinition) IsInternal() bool { return d.isInternal }

// Action returns the task action, or nil when none was set.
func (d *SimpleTaskDefinition) Action() Action { return d.action }

// ParamDefinitions returns a copy of the named parameters.
func (d *SimpleTaskDefinition) ParamDefinitions() map[string]ParamDefinition {
	return maps.Clone(d.params)
}

// PositionalParamDefinitions returns a copy of the positional parameters.
func (d *SimpleTaskDefinition) PositionalParamDefinitions() []ParamDefinition {
	return slices.Clone(d.positional)
}

// Err returns the first construction error.
func (d *SimpleTaskDefinition) Err() error { return d.err }

// SetDescription sets the description shown in help output.
func (d *SimpleTaskDefinition) SetDescription(description string) TaskBuilder {
	d.description = description
	return d
}

// SetAction replaces the task action.
func (d *SimpleTaskDefinition) SetAction(action Action) TaskBuilder {
	d.action = action
	return d
}

// AddParam adds a named parameter passed as --name value.
func (d *SimpleTaskDefinition) AddParam(
	name, description string, defaultValue any, typ paramtype.Type, isOptional bool, opts ...ParamOption,
) TaskBuilder {
	p := ParamDefinition{
		Name:         name,
		Description:  description,
		Type:         typ,
		DefaultValue: defaultValue,
		IsOptional:   isOptional,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return d.addNamed(p, namedParam)
}

// AddOptionalParam adds an optional named parameter.
func (d *SimpleTaskDefinition) AddOptionalParam(
	name, description string, defaultValue any, typ paramtype.Type, opts ...ParamOption,
) TaskBuilder {
	return d.AddParam(name, description, defaultValue, typ, true, opts...)
}

// AddFlag adds a boolean flag that defaults to false.
func (d *SimpleTaskDefinition) AddFlag(name, description string, opts ...ParamOption) TaskBuilder {
	p := newFlag(name, description, opts)
	return d.addNamed(p, flagParam)
}

// AddPositionalParam adds a positional parameter.
func (d *SimpleTaskDefinition) AddPositionalParam(
	name, description string, defaultValue any, typ paramtype.Type, isOptional bool,
) TaskBuilder {
	return d.addPositional(ParamDefinition{
		Name:         name,
		Description:  description,
		Type:         typ,
		DefaultValue: defaultValue,
		IsOptional:   isOptional,
	}, positionalParam)
}

// AddOptionalPositionalParam adds an optional positional parameter.
func (d *SimpleTaskDefinition) AddOptionalPositionalParam(
	name, description string, defaultValue any, typ paramtype.Type,
) TaskBuilder {
	return d.AddPositionalParam(name, description, defaultValue, typ, true)
}

// AddVariadicPositionalParam adds a positional parameter that takes every
// remaining token. It must be the last positional parameter.
func (d *SimpleTaskDefinition) AddVariadicPositionalParam(
	name, description string, defaultValue any, typ paramtype.Type, isOptional bool,
) TaskBuilder {
	return d.addPositional(ParamDefinition{
		Name:         name,
		Description:  description,
		Type:         typ,
		DefaultValue: defaultValue,
		IsOptional:   isOptional,
		IsVariadic:   true,
	}, variadicParam)
}

// AddOptionalVariadicPositionalParam adds an optional variadic positional parameter.
func (d *SimpleTaskDefinition) AddOptionalVariadicPositionalParam(
	name, description string, defaultValue any, typ paramtype.Type,
) TaskBuilder {
	return d.AddVariadicPositionalParam(name, description, defaultValue, typ, true)
}

func (d *SimpleTaskDefinition) validator() paramValidator {
	return paramValidator{
		taskName:   d.name,
		isInternal: d.isInternal,
		lookup:     d.lookup,
		shortTaken: func(short string) bool { return shortTakenIn(d.params, short) },
	}
}

func (d *SimpleTaskDefinition) lookup(name string) (ParamDefinition, bool) {
	if p, ok := d.params[name]; ok {
		return p, true
	}
	i := slices.IndexFunc(d.positional, func(p ParamDefinition) bool { return p.Name == name })
	if i < 0 {
		return ParamDefinition{}, false
	}
	return d.positional[i], true
}

func (d *SimpleTaskDefinition) addNamed(p ParamDefinition, kind paramKind) TaskBuilder {
	if d.err != nil {
		return d
	}
	if err := d.validator().validate(p, kind); err != nil {
		d.err = err
		return d
	}
	d.params[p.Name] = p
	return d
}

func (d *SimpleTaskDefinition) addPositional(p ParamDefinition, kind paramKind) TaskBuilder {
	if d.err != nil {
		return d
	}
	if n := len(d.positional); n > 0 {
		last := d.positional[n-1]
		if last.IsVariadic {
			d.err = issue.New(issue.ParamAfterVariadic, map[string]any{"paramName": p.Name, "taskName": d.name})
			return d
		}
		if last.IsOptional && !p.IsOptional {
			d.err = issue.New(issue.RequiredParamAfterOptional, map[string]any{"paramName": p.Name, "taskName": d.name})
			return d
		}
	}
	if err := d.validator().validate(p, kind); err != nil {
		d.err = err
		return d
	}
	d.positional = append(d.positional, p)
	return d
}

func newFlag(name, description string, opts []ParamOption) ParamDefinition {
	p := ParamDefinition{
		Name:         name,
		Description:  description,
		Type:         paramtype.Boolean,
		DefaultValue: false,
		IsOptional:   true,
		IsFlag:       true,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func shortTakenIn(params map[string]ParamDefinition, short string) bool {
	for _, p := range params {
		if p.ShortName == short {
			return true
		}
	}
	return false
}
