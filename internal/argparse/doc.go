// SPDX-License-Identifier: MPL-2.0

// Package argparse turns a wasmforge command line into runtime arguments, a
// task name and typed task arguments.
//
// Parsing happens in two phases. ParseRuntimeArgs consumes the global
// parameters and finds the task name; ParseTaskArgs then decodes the
// remaining tokens against the selected task's parameters.
//
// A token that names a global parameter is always taken as that global
// parameter, even after the task name. Tasks cannot declare parameters with
// those names, so the only tokens affected are values that happen to look
// like a global flag; pass them after a lone "--" to keep them positional.
package argparse
