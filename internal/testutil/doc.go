// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers build in-memory projects (WriteProject, MustWriteFiles) and
// fake process environments (MapLookup).
package testutil
