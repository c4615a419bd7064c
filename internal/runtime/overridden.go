// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"

	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

// OverriddenTaskDefinition re-declares a task that was already registered.
// Its schema is the parent's plus its own optional parameters and flags.
type OverriddenTaskDefinition struct {
	parent      TaskDefinition
	isInternal  bool
	description string
	action      Action
	params      map[string]ParamDefinition
	err         error
}

var _ TaskBuilder = (*OverriddenTaskDefinition)(nil)

// NewOverriddenTaskDefinition wraps parent.
func NewOverriddenTaskDefinition(parent TaskDefinition, isInternal bool) *OverriddenTaskDefinition {
	return &OverriddenTaskDefinition{
		parent:     parent,
		isInternal: isInternal,
		params:     make(map[string]ParamDefinition),
	}
}

// Parent returns the overridden definition.
func (d *OverriddenTaskDefinition) Parent() TaskDefinition { return d.parent }

// Name returns the task name.
func (d *OverriddenTaskDefinition) Name() string { return d.parent.Name() }

// Description returns the own description, or the parent's when unset.
func (d *OverriddenTaskDefinition) Description() string {
	if d.description != "" {
		return d.description
	}
	return d.parent.Description()
}

// IsInternal reports whether this or any overridden definition is internal.
func (d *OverriddenTaskDefinition) IsInternal() bool {
	return d.isInternal || d.parent.IsInternal()
}

// Action returns the own action, or the parent's when unset.
func (d *OverriddenTaskDefinition) Action() Action {
	if d.action != nil {
		return d.action
	}
	return d.parent.Action()
}

// OwnAction returns the action set on this definition only.
func (d *OverriddenTaskDefinition) OwnAction() Action { return d.action }

// ParamDefinitions returns the parent's named parameters merged with the
// ones added by this override.
func (d *OverriddenTaskDefinition) ParamDefinitions() map[string]ParamDefinition {
	params := d.parent.ParamDefinitions()
	maps.Copy(params, d.params)
	return params
}

// PositionalParamDefinitions returns the parent's positional parameters.
func (d *OverriddenTaskDefinition) PositionalParamDefinitions() []ParamDefinition {
	return d.parent.PositionalParamDefinitions()
}

// Err returns the first construction error of this override.
func (d *OverriddenTaskDefinition) Err() error { return d.err }

// SetDescription overrides the description.
func (d *OverriddenTaskDefinition) SetDescription(description string) TaskBuilder {
	d.description = description
	return d
}

// SetAction sets the overriding action.
func (d *OverriddenTaskDefinition) SetAction(action Action) TaskBuilder {
	d.action = action
	return d
}

// AddParam adds an optional named parameter. Mandatory parameters cannot be
// added to an overridden task.
func (d *OverriddenTaskDefinition) AddParam(
	name, description string, defaultValue any, typ paramtype.Type, isOptional bool, opts ...ParamOption,
) TaskBuilder {
	if !isOptional {
		return d.fail(issue.OverrideNoMandatoryParams)
	}
	p := ParamDefinition{
		Name:         name,
		Description:  description,
		Type:         typ,
		DefaultValue: defaultValue,
		IsOptional:   true,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return d.add(p, namedParam)
}

// AddOptionalParam adds an optional named parameter.
func (d *OverriddenTaskDefinition) AddOptionalParam(
	name, description string, defaultValue any, typ paramtype.Type, opts ...ParamOption,
) TaskBuilder {
	return d.AddParam(name, description, defaultValue, typ, true, opts...)
}

// AddFlag adds a boolean flag.
func (d *OverriddenTaskDefinition) AddFlag(name, description string, opts ...ParamOption) TaskBuilder {
	return d.add(newFlag(name, description, opts), flagParam)
}

// AddPositionalParam always fails: overrides cannot add positional parameters.
func (d *OverriddenTaskDefinition) AddPositionalParam(string, string, any, paramtype.Type, bool) TaskBuilder {
	return d.fail(issue.OverrideNoPositionalParams)
}

// AddOptionalPositionalParam always fails: overrides cannot add positional parameters.
func (d *OverriddenTaskDefinition) AddOptionalPositionalParam(string, string, any, paramtype.Type) TaskBuilder {
	return d.fail(issue.OverrideNoPositionalParams)
}

// AddVariadicPositionalParam always fails: overrides cannot add variadic parameters.
func (d *OverriddenTaskDefinition) AddVariadicPositionalParam(string, string, any, paramtype.Type, bool) TaskBuilder {
	return d.fail(issue.OverrideNoVariadicParams)
}

// AddOptionalVariadicPositionalParam always fails: overrides cannot add variadic parameters.
func (d *OverriddenTaskDefinition) AddOptionalVariadicPositionalParam(string, string, any, paramtype.Type) TaskBuilder {
	return d.fail(issue.OverrideNoVariadicParams)
}

func (d *OverriddenTaskDefinition) fail(desc *issue.Descriptor) TaskBuilder {
	if d.err == nil {
		d.err = issue.New(desc, map[string]any{"taskName": d.Name()})
	}
	return d
}

func (d *OverriddenTaskDefinition) add(p ParamDefinition, kind paramKind) TaskBuilder {
	if d.err != nil {
		return d
	}
	v := paramValidator{
		taskName:   d.Name(),
		isInternal: d.IsInternal(),
		lookup: func(name string) (ParamDefinition, bool) {
			if p, ok := d.ParamDefinitions()[name]; ok {
				return p, true
			}
			for _, p := range d.PositionalParamDefinitions() {
				if p.Name == name {
					return p, true
				}
			}
			return ParamDefinition{}, false
		},
		shortTaken: func(short string) bool { return shortTakenIn(d.ParamDefinitions(), short) },
	}
	if err := v.validate(p, kind); err != nil {
		d.err = err
		return d
	}
	d.params[p.Name] = p
	return d
}
