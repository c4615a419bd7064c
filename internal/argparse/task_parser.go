// SPDX-License-Identifier: MPL-2.0

package argparse

import (
	"maps"
	"slices"

	"github.com/wasmforge/wasmforge/internal/casing"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
)

// ParseTaskArgs decodes tokens against def. Named params and flags are read
// first; the remaining tokens are assigned to the positional params in
// declaration order, a trailing variadic param taking all of them. Tokens
// after a lone "--" are always positional.
func (p *Parser) ParseTaskArgs(def runtime.TaskDefinition, tokens []string) (runtime.Arguments, error) {
	named := def.ParamDefinitions()
	args := make(runtime.Arguments, len(named))

	positional, err := parseNamedArgs(named, tokens, args)
	if err != nil {
		return nil, err
	}

	for _, name := range slices.Sorted(maps.Keys(named)) {
		if args.Has(name) {
			continue
		}
		param := named[name]
		if !param.IsOptional {
			return nil, issue.New(issue.MissingTaskArgument, map[string]any{"param": param.CLIName()})
		}
		if param.DefaultValue != nil {
			args[name] = param.DefaultValue
		}
	}

	if err := parsePositionalArgs(def.PositionalParamDefinitions(), positional, args); err != nil {
		return nil, err
	}
	return args, nil
}

func parseNamedArgs(named map[string]runtime.ParamDefinition, tokens []string, args runtime.Arguments) ([]string, error) {
	shortNames := make(map[string]string)
	for name, param := range named {
		if param.ShortName != "" {
			shortNames[param.ShortName] = name
		}
	}

	var positional []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		pt, isParam := splitParamToken(tok)
		if !isParam {
			positional = append(positional, tok)
			continue
		}
		if pt.separator {
			positional = append(positional, tokens[i+1:]...)
			break
		}

		var name string
		if pt.isShort {
			var ok bool
			if name, ok = shortNames[pt.cliName]; !ok {
				return nil, issue.New(issue.UnrecognizedParamName, map[string]any{"param": tok})
			}
		} else {
			if !casing.IsKebabCase(pt.cliName) {
				return nil, issue.New(issue.InvalidParamNameCasingCLI, map[string]any{"param": tok})
			}
			name = casing.FromCLI(pt.cliName)
		}

		param, ok := named[name]
		if !ok {
			return nil, issue.New(issue.UnrecognizedParamName, map[string]any{"param": tok})
		}
		if args.Has(name) {
			return nil, issue.New(issue.RepeatedParam, map[string]any{"paramName": tok})
		}

		value, consumed, err := parseParamValue(param, pt, tokens[i+1:])
		if err != nil {
			return nil, err
		}
		i += consumed
		args[name] = value
	}
	return positional, nil
}

func parsePositionalArgs(defs []runtime.ParamDefinition, tokens []string, args runtime.Arguments) error {
	next := 0
	for _, param := range defs {
		if param.IsVariadic {
			if next >= len(tokens) {
				if err := missingPositional(param, args); err != nil {
					return err
				}
				continue
			}
			values := make([]any, 0, len(tokens)-next)
			for _, tok := range tokens[next:] {
				v, err := param.Type.Parse(param.Name, tok)
				if err != nil {
					return err
				}
				values = append(values, v)
			}
			args[param.Name] = values
			next = len(tokens)
			continue
		}

		if next >= len(tokens) {
			if err := missingPositional(param, args); err != nil {
				return err
			}
			continue
		}
		v, err := param.Type.Parse(param.Name, tokens[next])
		if err != nil {
			return err
		}
		args[param.Name] = v
		next++
	}

	if next < len(tokens) {
		return issue.New(issue.UnrecognizedPositionalArg, map[string]any{"argument": tokens[next]})
	}
	return nil
}

func missingPositional(param runtime.ParamDefinition, args runtime.Arguments) error {
	if !param.IsOptional {
		return issue.New(issue.MissingPositionalArg, map[string]any{"param": param.Name})
	}
	if param.DefaultValue != nil {
		args[param.Name] = param.DefaultValue
	}
	return nil
}
