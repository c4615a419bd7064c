// SPDX-License-Identifier: MPL-2.0

// Package plugin keeps the catalog of compiled-in wasmforge plugins.
//
// A plugin is a registration function that declares tasks and environment
// extenders on a session. Plugins register themselves from an init function
// and are activated by listing their names under `plugins` in
// wasmforge.config.cue.
package plugin
