// SPDX-License-Identifier: MPL-2.0

// Package config loads wasmforge project configuration.
//
// A project is a directory holding a wasmforge.config.cue file. The file is
// validated against an embedded CUE schema, merged into Viper on top of the
// built-in defaults and decoded into Config. The built-in "local" network is
// merged into whatever the project declares under the same name.
package config
