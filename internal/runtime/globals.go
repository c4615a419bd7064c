// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"slices"

	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

// Names of the global runtime parameters.
const (
	ParamNetwork         = "network"
	ParamConfig          = "config"
	ParamShowStackTraces = "showStackTraces"
	ParamVersion         = "version"
	ParamHelp            = "help"
	ParamVerbose         = "verbose"
	ParamLogLevel        = "logLevel"
)

// DefaultLogLevel is used when neither --log-level nor --verbose is given.
const DefaultLogLevel = "warn"

type (
	// RuntimeArgs holds the global parameters of one wasmforge invocation.
	//
	//nolint:revive // RuntimeArgs reads better than Args at call sites
	RuntimeArgs struct {
		// Network selects an entry of the networks config. Empty means the
		// configured default network.
		Network         string
		Config          string
		ShowStackTraces bool
		Version         bool
		Help            bool
		Verbose         bool
		LogLevel        string
	}
)

var globalParams = []ParamDefinition{
	{
		Name:        ParamNetwork,
		Description: "The network to connect to.",
		Type:        paramtype.String,
		IsOptional:  true,
	},
	{
		Name:        ParamConfig,
		Description: "A wasmforge config file.",
		Type:        paramtype.String,
		IsOptional:  true,
	},
	{
		Name:         ParamShowStackTraces,
		Description:  "Show the full cause chain of errors.",
		Type:         paramtype.Boolean,
		DefaultValue: false,
		IsOptional:   true,
		IsFlag:       true,
	},
	{
		Name:         ParamVersion,
		ShortName:    "v",
		Description:  "Shows version and exit.",
		Type:         paramtype.Boolean,
		DefaultValue: false,
		IsOptional:   true,
		IsFlag:       true,
	},
	{
		Name:         ParamHelp,
		ShortName:    "h",
		Description:  "Shows this message, or a task's help if its name is provided.",
		Type:         paramtype.Boolean,
		DefaultValue: false,
		IsOptional:   true,
		IsFlag:       true,
	},
	{
		Name:         ParamVerbose,
		Description:  "Enables wasmforge verbose logging.",
		Type:         paramtype.Boolean,
		DefaultValue: false,
		IsOptional:   true,
		IsFlag:       true,
	},
	{
		Name:         ParamLogLevel,
		Description:  "Log level: debug, info, warn or error.",
		Type:         paramtype.String,
		DefaultValue: DefaultLogLevel,
		IsOptional:   true,
	},
}

// GlobalParamDefinitions returns the global runtime parameters in the order
// they are documented.
func GlobalParamDefinitions() []ParamDefinition {
	return slices.Clone(globalParams)
}

// GlobalParam returns the global parameter named name.
func GlobalParam(name string) (ParamDefinition, bool) {
	i := slices.IndexFunc(globalParams, func(p ParamDefinition) bool { return p.Name == name })
	if i < 0 {
		return ParamDefinition{}, false
	}
	return globalParams[i], true
}

// IsGlobalParamName reports whether name belongs to a global parameter.
func IsGlobalParamName(name string) bool {
	_, ok := GlobalParam(name)
	return ok
}

// DefaultRuntimeArgs returns the runtime arguments used when nothing is set
// through the environment or the command line.
func DefaultRuntimeArgs() RuntimeArgs {
	return RuntimeArgs{LogLevel: DefaultLogLevel}
}

// Set assigns the value of the global parameter name. Values must already be
// decoded by the parameter's type.
func (a *RuntimeArgs) Set(name string, value any) {
	switch name {
	case ParamNetwork:
		a.Network, _ = value.(string)
	case ParamConfig:
		a.Config, _ = value.(string)
	case ParamShowStackTraces:
		a.ShowStackTraces, _ = value.(bool)
	case ParamVersion:
		a.Version, _ = value.(bool)
	case ParamHelp:
		a.Help, _ = value.(bool)
	case ParamVerbose:
		a.Verbose, _ = value.(bool)
	case ParamLogLevel:
		a.LogLevel, _ = value.(string)
	}
}

// EffectiveLogLevel resolves the log level, letting --verbose force debug.
func (a RuntimeArgs) EffectiveLogLevel() string {
	if a.Verbose {
		return "debug"
	}
	if a.LogLevel == "" {
		return DefaultLogLevel
	}
	return a.LogLevel
}
