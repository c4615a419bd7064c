// SPDX-License-Identifier: MPL-2.0

package argparse

import (
	"os"
	"strings"

	"github.com/wasmforge/wasmforge/internal/casing"
	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
)

type (
	// EnvLookup reads an environment variable.
	EnvLookup func(key string) (string, bool)

	// Parser parses wasmforge command lines.
	Parser struct {
		lookupEnv EnvLookup
	}

	// Option configures a Parser.
	Option func(*Parser)

	// paramToken is a --name[=value] or -x token split into its parts.
	paramToken struct {
		raw       string
		cliName   string
		value     string
		hasValue  bool
		isShort   bool
		separator bool
	}
)

// WithEnvLookup replaces os.LookupEnv, mostly for tests.
func WithEnvLookup(lookup EnvLookup) Option {
	return func(p *Parser) {
		p.lookupEnv = lookup
	}
}

// NewParser returns a parser reading defaults from the process environment.
func NewParser(opts ...Option) *Parser {
	p := &Parser{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseRuntimeArgs extracts the global parameters and the task name from
// tokens. Defaults come from the global parameter table, then from
// WASMFORGE_* environment variables, then from the command line. The
// returned residual holds the tokens left for the task, in order.
func (p *Parser) ParseRuntimeArgs(tokens []string) (runtime.RuntimeArgs, string, []string, error) {
	args, err := p.runtimeArgsFromEnv()
	if err != nil {
		return runtime.RuntimeArgs{}, "", nil, err
	}

	var (
		taskName string
		residual []string
		seen     = make(map[string]bool)
	)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		pt, isParam := splitParamToken(tok)
		if !isParam {
			if taskName == "" {
				taskName = tok
			} else {
				residual = append(residual, tok)
			}
			continue
		}
		if pt.separator {
			if taskName == "" {
				return runtime.RuntimeArgs{}, "", nil, issue.New(issue.UnrecognizedCommandLineArg, map[string]any{"argument": tok})
			}
			residual = append(residual, tokens[i:]...)
			break
		}

		def, isGlobal := globalParamFor(pt)
		if !isGlobal {
			if taskName != "" {
				residual = append(residual, tok)
				continue
			}
			if !pt.isShort && !casing.IsKebabCase(pt.cliName) {
				return runtime.RuntimeArgs{}, "", nil, issue.New(issue.InvalidParamNameCasingCLI, map[string]any{"param": tok})
			}
			return runtime.RuntimeArgs{}, "", nil, issue.New(issue.UnrecognizedCommandLineArg, map[string]any{"argument": tok})
		}

		if seen[def.Name] {
			return runtime.RuntimeArgs{}, "", nil, issue.New(issue.RepeatedParam, map[string]any{"paramName": tok})
		}
		seen[def.Name] = true

		value, consumed, err := parseParamValue(def, pt, tokens[i+1:])
		if err != nil {
			return runtime.RuntimeArgs{}, "", nil, err
		}
		i += consumed
		args.Set(def.Name, value)
	}

	return args, taskName, residual, nil
}

func (p *Parser) runtimeArgsFromEnv() (runtime.RuntimeArgs, error) {
	args := runtime.DefaultRuntimeArgs()
	for _, def := range runtime.GlobalParamDefinitions() {
		varName := casing.ToEnvVar(def.Name)
		raw, ok := p.lookupEnv(varName)
		if !ok || raw == "" {
			continue
		}
		value, err := def.Type.Parse(def.Name, raw)
		if err != nil {
			return runtime.RuntimeArgs{}, issue.Wrap(issue.InvalidEnvVarValue, map[string]any{
				"varName": varName,
				"value":   raw,
			}, err)
		}
		args.Set(def.Name, value)
	}
	return args, nil
}

// splitParamToken recognizes --name, --name=value, -x and the "--"
// separator. Other tokens, including negative numbers, are not params.
func splitParamToken(tok string) (paramToken, bool) {
	switch {
	case tok == "--":
		return paramToken{raw: tok, separator: true}, true
	case strings.HasPrefix(tok, "--"):
		name, value, hasValue := strings.Cut(tok[2:], "=")
		return paramToken{raw: tok, cliName: name, value: value, hasValue: hasValue}, true
	case len(tok) == 2 && tok[0] == '-' && isLetter(tok[1]):
		return paramToken{raw: tok, cliName: tok[1:], isShort: true}, true
	default:
		return paramToken{}, false
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func globalParamFor(pt paramToken) (runtime.ParamDefinition, bool) {
	if pt.isShort {
		for _, def := range runtime.GlobalParamDefinitions() {
			if def.ShortName == pt.cliName {
				return def, true
			}
		}
		return runtime.ParamDefinition{}, false
	}
	if !casing.IsKebabCase(pt.cliName) {
		return runtime.ParamDefinition{}, false
	}
	return runtime.GlobalParam(casing.FromCLI(pt.cliName))
}

// parseParamValue decodes the value of a named param. Flags take no token
// unless given inline as --flag=false; other params take the next token.
// It returns how many of the following tokens were consumed.
func parseParamValue(def runtime.ParamDefinition, pt paramToken, rest []string) (any, int, error) {
	if def.IsFlag {
		if !pt.hasValue {
			return true, 0, nil
		}
		v, err := def.Type.Parse(def.Name, pt.value)
		return v, 0, err
	}
	if pt.hasValue {
		v, err := def.Type.Parse(def.Name, pt.value)
		return v, 0, err
	}
	if len(rest) == 0 {
		return nil, 0, issue.New(issue.MissingTaskArgument, map[string]any{"param": pt.raw})
	}
	v, err := def.Type.Parse(def.Name, rest[0])
	return v, 1, err
}
