// SPDX-License-Identifier: MPL-2.0

// Package runtime is the wasmforge task runtime.
//
// Tasks are declared through a Registry, either by built-in code or by
// plugins. Declaring a task under a name that is already registered wraps the
// previous definition in an OverriddenTaskDefinition; the new action receives
// a RunSuper continuation that runs the previous one.
//
// A Session owns the registry, the environment extenders and the names of the
// loaded plugins. Once configuration is resolved the session builds exactly
// one Environment, which freezes the registered definitions and dispatches
// task invocations through Environment.Run.
package runtime
