// SPDX-License-Identifier: MPL-2.0

// Package casing converts parameter names between their internal camelCase
// form, the kebab-case form used on the command line and the upper snake case
// form used for environment variables.
package casing

import (
	"regexp"

	"github.com/iancoleman/strcase"
)

// EnvPrefix prefixes every environment variable read by wasmforge.
const EnvPrefix = "WASMFORGE"

var (
	camelRegex = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	kebabRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(?:-[a-z0-9]+)*$`)
)

// IsCamelCase reports whether name is a camelCase identifier that survives a
// round trip through its kebab-case form.
func IsCamelCase(name string) bool {
	return camelRegex.MatchString(name) && strcase.ToLowerCamel(strcase.ToKebab(name)) == name
}

// IsKebabCase reports whether name is lowercase words separated by single
// dashes and maps back to the same name after a round trip.
func IsKebabCase(name string) bool {
	return kebabRegex.MatchString(name) && strcase.ToKebab(strcase.ToLowerCamel(name)) == name
}

// ToCLI converts a camelCase param name into its command-line form, without
// the leading dashes.
func ToCLI(name string) string {
	return strcase.ToKebab(name)
}

// FromCLI converts a kebab-case command-line name into a camelCase param name.
func FromCLI(name string) string {
	return strcase.ToLowerCamel(name)
}

// ToEnvVar returns the environment variable that carries the value of name,
// e.g. showStackTraces becomes WASMFORGE_SHOW_STACK_TRACES.
func ToEnvVar(name string) string {
	return EnvPrefix + "_" + strcase.ToScreamingSnake(name)
}
