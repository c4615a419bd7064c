// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"regexp"

	"github.com/wasmforge/wasmforge/internal/casing"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

var shortNameRegex = regexp.MustCompile(`^[a-z]$`)

type (
	// ParamDefinition describes one parameter of a task.
	ParamDefinition struct {
		Name         string
		ShortName    string
		Description  string
		Type         paramtype.Type
		DefaultValue any
		IsOptional   bool
		IsFlag       bool
		IsVariadic   bool
	}

	// ParamOption customizes a named parameter while it is being added.
	ParamOption func(*ParamDefinition)

	// paramKind tells the validator which builder method added a parameter.
	paramKind int
)

const (
	namedParam paramKind = iota
	flagParam
	positionalParam
	variadicParam
)

// WithShortName gives a named parameter or flag a one-letter alias, used as
// -x on the command line.
func WithShortName(short string) ParamOption {
	return func(p *ParamDefinition) {
		p.ShortName = short
	}
}

// CLIName returns the parameter's command-line name including its dashes.
func (p ParamDefinition) CLIName() string {
	return "--" + casing.ToCLI(p.Name)
}

func (k paramKind) String() string {
	switch k {
	case flagParam:
		return "flag"
	case positionalParam:
		return "positional"
	case variadicParam:
		return "variadic"
	default:
		return "named"
	}
}

// paramValidator applies the construction rules shared by plain and
// overridden task definitions.
type paramValidator struct {
	taskName   string
	isInternal bool
	// lookup returns the definition already using a name, if any.
	lookup func(name string) (ParamDefinition, bool)
	// shortTaken reports whether a short name is already in use.
	shortTaken func(short string) bool
}

func (v paramValidator) values(p ParamDefinition, extra map[string]any) map[string]any {
	values := map[string]any{"paramName": p.Name, "taskName": v.taskName}
	for k, val := range extra {
		values[k] = val
	}
	return values
}

func (v paramValidator) validate(p ParamDefinition, kind paramKind) error {
	if !casing.IsCamelCase(p.Name) {
		return issue.New(issue.InvalidParamNameCasing, v.values(p, nil))
	}
	if IsGlobalParamName(p.Name) {
		return issue.New(issue.ParamClashesWithGlobalParam, v.values(p, nil))
	}
	if _, taken := v.lookup(p.Name); taken {
		return issue.New(issue.ParamAlreadyDefined, v.values(p, nil))
	}
	if p.ShortName != "" {
		if !shortNameRegex.MatchString(p.ShortName) || kind == positionalParam || kind == variadicParam {
			return issue.New(issue.InvalidShortName, v.values(p, map[string]any{"shortName": p.ShortName}))
		}
		if globalShortTaken(p.ShortName) || v.shortTaken(p.ShortName) {
			return issue.New(issue.ParamAlreadyDefined, v.values(p, map[string]any{"paramName": "-" + p.ShortName}))
		}
	}
	if p.Type == nil {
		return issue.New(issue.InvalidParamType, v.values(p, map[string]any{"type": "nil", "kind": kind}))
	}
	if !v.isInternal && !paramtype.IsCLIType(p.Type) {
		return issue.New(issue.InvalidParamType, v.values(p, map[string]any{"type": p.Type.Name(), "kind": kind}))
	}
	if !p.IsOptional && p.DefaultValue != nil {
		return issue.New(issue.DefaultInMandatoryParam, v.values(p, nil))
	}
	if p.DefaultValue != nil {
		if err := validateDefault(p); err != nil {
			return issue.Wrap(issue.DefaultValueWrongType, v.values(p, map[string]any{"type": p.Type.Name()}), err)
		}
	}
	return nil
}

// validateDefault checks a default value against the parameter type. Variadic
// defaults must be slices whose elements all match.
func validateDefault(p ParamDefinition) error {
	return validateValue(p, p.DefaultValue)
}

func globalShortTaken(short string) bool {
	for _, g := range globalParams {
		if g.ShortName == short {
			return true
		}
	}
	return false
}
