// SPDX-License-Identifier: MPL-2.0

// Package toolchain runs the external programs behind wasmforge's built-in
// tasks: compilers as native subprocesses and project scripts through an
// embedded POSIX shell interpreter.
package toolchain
