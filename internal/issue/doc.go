// SPDX-License-Identifier: MPL-2.0

// Package issue defines the numbered error catalog of wasmforge and the error
// types built on it.
//
// Every fatal condition raised by the task runtime is an *Error carrying a
// Descriptor from the catalog, the values substituted into its message
// template, and an optional parent error. Descriptor numbers are partitioned
// into non-overlapping ranges, one per Category. Errors raised by plugin code
// use the separate PluginError kind so callers can tell a broken plugin apart
// from a violated runtime invariant.
//
// The package also keeps ActionableError, a lighter error type with remediation
// suggestions used by the configuration loader and the toolchain wrappers.
package issue
