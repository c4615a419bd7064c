// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"math/big"
	"reflect"
	"slices"

	"github.com/spf13/cast"

	"github.com/wasmforge/wasmforge/internal/issue"
)

// Arguments holds the values of one task invocation by parameter name. Values
// are decoded by the parameter types, so getters only convert between
// compatible Go representations.
type Arguments map[string]any

// Has reports whether name has a value.
func (a Arguments) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Get returns the raw value of name.
func (a Arguments) Get(name string) any {
	return a[name]
}

// String returns name as a string, or "" when unset.
func (a Arguments) String(name string) string {
	return cast.ToString(a[name])
}

// Bool returns name as a boolean, or false when unset.
func (a Arguments) Bool(name string) bool {
	return cast.ToBool(a[name])
}

// Int returns name as an int64, or 0 when unset.
func (a Arguments) Int(name string) int64 {
	return cast.ToInt64(a[name])
}

// Float returns name as a float64, or 0 when unset.
func (a Arguments) Float(name string) float64 {
	return cast.ToFloat64(a[name])
}

// BigInt returns name as a big integer, or nil when unset.
func (a Arguments) BigInt(name string) *big.Int {
	switch v := a[name].(type) {
	case *big.Int:
		return v
	case nil:
		return nil
	default:
		return big.NewInt(cast.ToInt64(v))
	}
}

// Strings returns a variadic argument as strings.
func (a Arguments) Strings(name string) []string {
	return cast.ToStringSlice(a[name])
}

// Clone returns a shallow copy.
func (a Arguments) Clone() Arguments {
	if a == nil {
		return Arguments{}
	}
	return maps.Clone(a)
}

// Merge returns a copy of a with the values of other applied on top.
func (a Arguments) Merge(other Arguments) Arguments {
	merged := a.Clone()
	maps.Copy(merged, other)
	return merged
}

// ResolveArguments checks programmatic arguments against def and fills in
// the defaults of optional parameters that were not given. Keys unknown to
// def are kept so overriding tasks can pass their own values down.
func ResolveArguments(def TaskDefinition, args Arguments) (Arguments, error) {
	resolved := args.Clone()
	named := def.ParamDefinitions()
	positional := def.PositionalParamDefinitions()
	params := make([]ParamDefinition, 0, len(named)+len(positional))
	for _, name := range slices.Sorted(maps.Keys(named)) {
		params = append(params, named[name])
	}
	params = append(params, positional...)

	for _, p := range params {
		value, ok := resolved[p.Name]
		if !ok || value == nil {
			if !p.IsOptional {
				desc := issue.MissingTaskArgument
				if slices.ContainsFunc(positional, func(pp ParamDefinition) bool { return pp.Name == p.Name }) {
					desc = issue.MissingPositionalArg
				}
				return nil, issue.New(desc, map[string]any{"param": p.Name})
			}
			if p.DefaultValue != nil {
				resolved[p.Name] = p.DefaultValue
			}
			continue
		}
		if err := validateValue(p, value); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func validateValue(p ParamDefinition, value any) error {
	if !p.IsVariadic {
		return p.Type.Validate(p.Name, value)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return issue.New(issue.InvalidValueForType, map[string]any{
			"value": value, "name": p.Name, "type": p.Type.Name() + "[]",
		})
	}
	for i := range rv.Len() {
		if err := p.Type.Validate(p.Name, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}
