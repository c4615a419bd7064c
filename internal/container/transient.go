// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

var transientMessages = []string{
	"ping_group_range",
	"OCI runtime error",
	"Temporary failure resolving",
	"Could not resolve host",
	"connection timed out",
	"connection refused",
	"error creating overlay mount",
	"error mounting layer",
}

// IsTransientExitCode reports whether a container exit code comes from the
// engine itself (125, 126) rather than from the command it ran.
func IsTransientExitCode(code int) bool {
	return code == 125 || code == 126
}

// IsTransientError reports whether err is an engine failure that may succeed
// on retry: image pull network errors, rootless podman races and storage
// driver glitches. Context cancellation is never transient.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && IsTransientExitCode(exitErr.ExitCode()) {
		return true
	}

	msg := err.Error()
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
