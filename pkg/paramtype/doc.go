// SPDX-License-Identifier: MPL-2.0

// Package paramtype provides the value types of task parameters.
//
// A Type decodes a raw command-line token into a typed Go value and checks
// values passed programmatically. Parse failures are catalogued
// issue.Error values (INVALID_VALUE_FOR_TYPE and friends) so the CLI can
// report them uniformly.
package paramtype
