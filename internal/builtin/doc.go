// SPDX-License-Identifier: MPL-2.0

// Package builtin declares the tasks every wasmforge binary ships with.
//
// Tasks are declared through the same registry DSL plugins use, so a plugin
// can override any of them and call the built-in behavior through runSuper.
// External programs are reached through the collaborators in Deps, which
// tests replace with fakes.
package builtin
