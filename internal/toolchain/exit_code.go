// SPDX-License-Identifier: MPL-2.0

package toolchain

import "strconv"

// ExitCode is a process exit status. The zero value means success.
type ExitCode int

// IsSuccess reports whether the process succeeded.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal representation.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
