// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"fmt"
	"slices"
)

// Ranges reserves a span of descriptor numbers for every category.
var Ranges = map[Category]Range{
	CategoryGeneral:         {Min: 0, Max: 99, Title: "General errors"},
	CategoryNetwork:         {Min: 100, Max: 199, Title: "Network related errors"},
	CategoryTaskDefinitions: {Min: 200, Max: 299, Title: "Task definition errors"},
	CategoryArguments:       {Min: 300, Max: 399, Title: "Arguments related errors"},
	CategoryBuiltinTasks:    {Min: 400, Max: 499, Title: "Built-in tasks errors"},
	CategoryPlugins:         {Min: 500, Max: 599, Title: "Plugin system errors"},
	CategoryInternal:        {Min: 600, Max: 699, Title: "Internal wasmforge errors"},
}

// General errors.
var (
	NotInsideProject = &Descriptor{
		Category: CategoryGeneral, Number: 1,
		Message: "You are not inside a wasmforge project.",
		Title:   "You are not inside a wasmforge project",
		Description: `You are trying to run wasmforge outside of a project.

Run ` + "`wasmforge init`" + ` to create a new project, or change into a directory
containing a ` + "`wasmforge.config.cue`" + ` file.`,
	}
	ContextNotCreated = &Descriptor{
		Category: CategoryGeneral, Number: 2,
		Message:          "wasmforge context is not created.",
		Title:            "wasmforge context is not created",
		Description:      "The task runtime was used before its context was created.",
		ShouldBeReported: true,
	}
	ContextAlreadyCreated = &Descriptor{
		Category: CategoryGeneral, Number: 3,
		Message:          "wasmforge context is already created.",
		Title:            "wasmforge context is already created",
		Description:      "The task runtime context was created twice in the same process without a reset.",
		ShouldBeReported: true,
	}
	ContextEnvironmentAlreadyDefined = &Descriptor{
		Category: CategoryGeneral, Number: 4,
		Message:          "wasmforge runtime environment is already defined in the context.",
		Title:            "Runtime environment already bound",
		Description:      "A second runtime environment was bound to a context that already has one.",
		ShouldBeReported: true,
	}
	InvalidConfig = &Descriptor{
		Category: CategoryGeneral, Number: 5,
		Message: "Invalid config:\n%errors%",
		Title:   "Invalid wasmforge config",
		Description: `The configuration file does not match the expected schema.

Check the listed fields and fix their values.`,
	}
	ConfigNotFound = &Descriptor{
		Category: CategoryGeneral, Number: 6,
		Message:     "Config file %path% not found.",
		Title:       "Config file not found",
		Description: "The configuration file given with `--config` does not exist.",
	}
	AssertionError = &Descriptor{
		Category: CategoryGeneral, Number: 7,
		Message:          "An internal invariant was violated: %message%",
		Title:            "Invariant violation",
		Description:      "An internal invariant of wasmforge was violated.",
		ShouldBeReported: true,
	}
	NoActionForTask = &Descriptor{
		Category: CategoryGeneral, Number: 8,
		Message:     "Task %task% has no action configured.",
		Title:       "Task without action",
		Description: "The task was declared without an action and none of its parents define one.",
	}
	RunSuperNotDefined = &Descriptor{
		Category: CategoryGeneral, Number: 9,
		Message: "Task %task% called runSuper but it is not overriding another task.",
		Title:   "runSuper is not defined",
		Description: `A task action called its runSuper continuation, but the task does not override
a previous definition. Check ` + "`runSuper.Defined()`" + ` before calling it.`,
	}
	ExtenderFailed = &Descriptor{
		Category: CategoryGeneral, Number: 10,
		Message:     "An environment extender failed: %error%",
		Title:       "Environment extender failed",
		Description: "A function registered with ExtendEnvironment returned an error.",
	}
)

// Network errors.
var (
	NetworkConfigNotFound = &Descriptor{
		Category: CategoryNetwork, Number: 100,
		Message:     "Network %network% doesn't exist",
		Title:       "Selected network doesn't exist",
		Description: "The network selected with `--network` is not declared in the config.",
	}
	NetworkRequestFailed = &Descriptor{
		Category: CategoryNetwork, Number: 101,
		Message:     "Request to network %network% failed: %error%",
		Title:       "Network request failed",
		Description: "The RPC endpoint of the selected network could not be reached or returned an error.",
	}
)

// Task definition errors.
var (
	ParamAlreadyDefined = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 200,
		Message:     "Could not set param %paramName% for task %taskName% because it is already defined.",
		Title:       "Could not add param to task",
		Description: "A parameter name can only be used once per task.",
	}
	ParamClashesWithGlobalParam = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 201,
		Message:     "Could not set param %paramName% for task %taskName% because its name is used as a param for wasmforge.",
		Title:       "Could not add param to task",
		Description: "Task parameters cannot reuse the name of a global wasmforge parameter.",
	}
	DefaultInMandatoryParam = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 202,
		Message:     "Default value for param %paramName% of task %taskName% shouldn't be set.",
		Title:       "Could not set a default value for a mandatory param",
		Description: "Mandatory parameters cannot declare a default value.",
	}
	RequiredParamAfterOptional = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 203,
		Message:     "Could not set param %paramName% for task %taskName% because it is mandatory and it was added after an optional positional param.",
		Title:       "Could not add param to task",
		Description: "Mandatory positional parameters must come before optional ones.",
	}
	ParamAfterVariadic = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 204,
		Message:     "Could not set param %paramName% for task %taskName% because there's a variadic positional param and it has to be the last one.",
		Title:       "Could not add param to task",
		Description: "Only the last positional parameter of a task can be variadic.",
	}
	DefaultValueWrongType = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 205,
		Message:     "Default value for param %paramName% of task %taskName% doesn't match its type %type%.",
		Title:       "Default value has incorrect type",
		Description: "The default value of a parameter must be accepted by its type.",
	}
	InvalidShortName = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 206,
		Message:     "Short name %shortName% of param %paramName% of task %taskName% is invalid; it must be a single lowercase letter.",
		Title:       "Invalid short name",
		Description: "Short parameter names must be a single lowercase ASCII letter.",
	}
	InvalidParamNameCasing = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 207,
		Message:     "Invalid param name %paramName% in task %taskName%. Param names must be camelCase.",
		Title:       "Invalid casing in parameter name",
		Description: "Parameter names are declared in camelCase and exposed on the command line in kebab-case.",
	}
	OverrideNoMandatoryParams = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 208,
		Message:     "Redefinition of task %taskName% failed. Unsupported operation adding mandatory (non optional) param definitions in an overridden task.",
		Title:       "Attempted to add mandatory params to an overridden task",
		Description: "An overriding task can only add optional parameters and flags.",
	}
	OverrideNoPositionalParams = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 209,
		Message:     "Redefinition of task %taskName% failed. Unsupported operation adding positional param definitions in an overridden task.",
		Title:       "Attempted to add positional params to an overridden task",
		Description: "An overriding task cannot add positional parameters.",
	}
	OverrideNoVariadicParams = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 210,
		Message:     "Redefinition of task %taskName% failed. Unsupported operation adding variadic param definitions in an overridden task.",
		Title:       "Attempted to add variadic params to an overridden task",
		Description: "An overriding task cannot add variadic parameters.",
	}
	InvalidParamType = &Descriptor{
		Category: CategoryTaskDefinitions, Number: 211,
		Message:     "Param %paramName% of task %taskName% has type %type% which cannot be used for %kind% params.",
		Title:       "Invalid parameter type",
		Description: "Flags must be boolean and CLI-facing params need a type that can be parsed from text.",
	}
)

// Argument errors.
var (
	InvalidEnvVarValue = &Descriptor{
		Category: CategoryArguments, Number: 300,
		Message:     "Invalid environment variable %varName%'s value: %value%",
		Title:       "Invalid environment variable value",
		Description: "An environment variable used to set a global parameter holds a value of the wrong type.",
	}
	InvalidValueForType = &Descriptor{
		Category: CategoryArguments, Number: 301,
		Message:     "Invalid value %value% for argument %name% of type %type%",
		Title:       "Invalid argument type",
		Description: "The value passed for a parameter cannot be converted to its type.",
	}
	InvalidInputFile = &Descriptor{
		Category: CategoryArguments, Number: 302,
		Message:     "Invalid argument %name%: File %value% doesn't exist or is not a readable file.",
		Title:       "Invalid input file",
		Description: "Input file parameters must point to an existing, readable file.",
	}
	UnrecognizedTask = &Descriptor{
		Category: CategoryArguments, Number: 303,
		Message:     "Unrecognized task %task%",
		Title:       "Unrecognized task",
		Description: "Run `wasmforge help` to list the available tasks.",
	}
	RepeatedParam = &Descriptor{
		Category: CategoryArguments, Number: 304,
		Message:     "Repeated parameter %paramName%",
		Title:       "Repeated task parameter",
		Description: "A parameter was passed more than once on the command line.",
	}
	UnrecognizedCommandLineArg = &Descriptor{
		Category: CategoryArguments, Number: 305,
		Message:     "Unrecognised command line argument %argument%.\nNote that task arguments must come after the task name.",
		Title:       "Unrecognized command line argument",
		Description: "Only global wasmforge parameters may appear before the task name.",
	}
	UnrecognizedParamName = &Descriptor{
		Category: CategoryArguments, Number: 306,
		Message:     "Unrecognized param %param%",
		Title:       "Unrecognized param",
		Description: "The task does not declare the parameter. Run `wasmforge help <task>` to list its parameters.",
	}
	MissingTaskArgument = &Descriptor{
		Category: CategoryArguments, Number: 307,
		Message:     "The '%param%' parameter expects a value, but none was passed.",
		Title:       "Missing task argument",
		Description: "A mandatory named parameter of the task was not provided.",
	}
	MissingPositionalArg = &Descriptor{
		Category: CategoryArguments, Number: 308,
		Message:     "Missing positional argument %param%",
		Title:       "Missing task positional argument",
		Description: "A mandatory positional parameter of the task was not provided.",
	}
	UnrecognizedPositionalArg = &Descriptor{
		Category: CategoryArguments, Number: 309,
		Message:     "Unrecognized positional argument %argument%",
		Title:       "Unrecognized task positional argument",
		Description: "More positional arguments were passed than the task accepts.",
	}
	InvalidJSONArgument = &Descriptor{
		Category: CategoryArguments, Number: 310,
		Message:     "Error parsing JSON value for argument %param%: %error%",
		Title:       "Invalid JSON parameter",
		Description: "The value of a JSON parameter is not valid JSON.",
	}
	InvalidParamNameCasingCLI = &Descriptor{
		Category: CategoryArguments, Number: 311,
		Message:     "Invalid param name %param%. Command line params must be lowercase words separated by dashes.",
		Title:       "Invalid param name casing",
		Description: "Parameters are written on the command line in kebab-case, e.g. `--show-stack-traces`.",
	}
)

// Built-in task errors.
var (
	CompileFailure = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 400,
		Message:     "Compilation of %contract% failed with exit code %exitCode%",
		Title:       "Compilation failed",
		Description: "The contract compiler exited with a non-zero status. Its output is printed above.",
	}
	CompilerNotFound = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 401,
		Message:     "Compiler %compiler% was not found in PATH",
		Title:       "Compiler not found",
		Description: "Install the configured compiler or change `compiler.command` in the config.",
	}
	ContainerEngineNotFound = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 402,
		Message:     "No container engine available (tried %engines%)",
		Title:       "Container engine not found",
		Description: "Optimized builds run inside a container. Install Podman or Docker.",
	}
	ScriptNotFound = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 403,
		Message:     "Script %script% doesn't exist.",
		Title:       "Script doesn't exist",
		Description: "The script passed to the run task could not be found.",
	}
	ScriptFailed = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 404,
		Message:     "Script %script% exited with code %exitCode%",
		Title:       "Script failed",
		Description: "The script run by the run task exited with a non-zero status.",
	}
	CleanFailed = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 405,
		Message:     "Could not remove %path%: %error%",
		Title:       "Clean failed",
		Description: "The artifacts or cache directory could not be removed.",
	}
	InitTargetNotEmpty = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 406,
		Message:     "Directory %path% already contains a wasmforge project. Use --force to overwrite.",
		Title:       "Project already exists",
		Description: "init refuses to overwrite an existing config unless --force is passed.",
	}
	NoContractsFound = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 407,
		Message:     "No contracts found under %path%",
		Title:       "No contracts found",
		Description: "compile looks for `*/Cargo.toml` below the configured sources directory.",
	}
	ArtifactNotFound = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 408,
		Message:     "Compiler succeeded for %contract% but produced no %artifact%",
		Title:       "Compiled artifact not found",
		Description: "compile copies `target/wasm32-unknown-unknown/release/<lib>.wasm` into the artifacts directory. Check that the crate builds a `cdylib`.",
	}
	UnknownContract = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 409,
		Message:     "Unknown contract %contract%. Available contracts: %known%",
		Title:       "Unknown contract",
		Description: "The contract names passed to compile must match the `package.name` of a Cargo.toml below the contracts directory.",
	}
	InvalidScript = &Descriptor{
		Category: CategoryBuiltinTasks, Number: 410,
		Message:     "Script %script% is not valid shell: %error%",
		Title:       "Invalid script",
		Description: "The check task parses every `.sh` file below the scripts directory with the same interpreter `run` uses. Fix the reported syntax error.",
	}
)

// Plugin errors.
var (
	PluginNotFound = &Descriptor{
		Category: CategoryPlugins, Number: 500,
		Message:     "Plugin %plugin% is not available. Known plugins: %known%",
		Title:       "Plugin not found",
		Description: "The config lists a plugin that is not compiled into this binary.",
	}
	PluginRegistrationFailed = &Descriptor{
		Category: CategoryPlugins, Number: 501,
		Message:     "Plugin %plugin% failed to register its tasks",
		Title:       "Plugin registration failed",
		Description: "A plugin returned an error while registering its tasks.",
	}
)

// Internal errors.
var (
	TemplateInvalidVariableName = &Descriptor{
		Category: CategoryInternal, Number: 600,
		Message:          "Variable names can only include ascii letters and numbers, and start with a letter, but got %variable%",
		Title:            "Invalid error message template",
		Description:      "An error message template used an invalid placeholder.",
		ShouldBeReported: true,
	}
)

var catalog = []*Descriptor{
	NotInsideProject, ContextNotCreated, ContextAlreadyCreated, ContextEnvironmentAlreadyDefined,
	InvalidConfig, ConfigNotFound, AssertionError, NoActionForTask, RunSuperNotDefined, ExtenderFailed,
	NetworkConfigNotFound, NetworkRequestFailed,
	ParamAlreadyDefined, ParamClashesWithGlobalParam, DefaultInMandatoryParam, RequiredParamAfterOptional,
	ParamAfterVariadic, DefaultValueWrongType, InvalidShortName, InvalidParamNameCasing,
	OverrideNoMandatoryParams, OverrideNoPositionalParams, OverrideNoVariadicParams, InvalidParamType,
	InvalidEnvVarValue, InvalidValueForType, InvalidInputFile, UnrecognizedTask, RepeatedParam,
	UnrecognizedCommandLineArg, UnrecognizedParamName, MissingTaskArgument, MissingPositionalArg,
	UnrecognizedPositionalArg, InvalidJSONArgument, InvalidParamNameCasingCLI,
	CompileFailure, CompilerNotFound, ContainerEngineNotFound, ScriptNotFound, ScriptFailed,
	CleanFailed, InitTargetNotEmpty, NoContractsFound, ArtifactNotFound, UnknownContract,
	InvalidScript,
	PluginNotFound, PluginRegistrationFailed,
	TemplateInvalidVariableName,
}

// Values returns every descriptor in the catalog ordered by number.
func Values() []*Descriptor {
	out := slices.Clone(catalog)
	slices.SortFunc(out, func(a, b *Descriptor) int { return cmp.Compare(a.Number, b.Number) })
	return out
}

// Get returns the descriptor with the given number, or nil.
func Get(number int) *Descriptor {
	for _, d := range catalog {
		if d.Number == number {
			return d
		}
	}
	return nil
}

// ValidateCatalog checks the catalog invariants: every range has Min < Max,
// ranges never overlap, every descriptor lies inside its category range and
// no two descriptors share a number.
func ValidateCatalog() error {
	cats := make([]Category, 0, len(Ranges))
	for c := range Ranges {
		cats = append(cats, c)
	}
	slices.Sort(cats)

	for i, a := range cats {
		ra := Ranges[a]
		if ra.Min >= ra.Max {
			return fmt.Errorf("range %s: min %d is not below max %d", a, ra.Min, ra.Max)
		}
		for _, b := range cats[i+1:] {
			rb := Ranges[b]
			if ra.Min <= rb.Max && rb.Min <= ra.Max {
				return fmt.Errorf("ranges %s and %s overlap", a, b)
			}
		}
	}

	seen := make(map[int]*Descriptor, len(catalog))
	for _, d := range catalog {
		r, ok := Ranges[d.Category]
		if !ok {
			return fmt.Errorf("%s: unknown category %s", d.Code(), d.Category)
		}
		if !r.Contains(d.Number) {
			return fmt.Errorf("%s: number outside %s range [%d, %d]", d.Code(), d.Category, r.Min, r.Max)
		}
		if prev, dup := seen[d.Number]; dup {
			return fmt.Errorf("%s: number shared by %q and %q", d.Code(), prev.Title, d.Title)
		}
		seen[d.Number] = d
	}
	return nil
}
