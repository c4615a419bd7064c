// SPDX-License-Identifier: MPL-2.0

// Package cmd is the wasmforge command line entry point.
//
// The root cobra command does not parse flags itself: every token is handed
// to the two-phase argument parser, which splits global flags from the task
// name and the task's own arguments. Errors are classified and reported here
// and nowhere else.
package cmd
