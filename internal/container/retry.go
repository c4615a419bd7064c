// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultRetries     = 2
	defaultBaseBackoff = 500 * time.Millisecond
)

// errTransientExit marks a run whose exit code came from the engine.
type errTransientExit struct {
	code int
}

func (e errTransientExit) Error() string {
	return fmt.Sprintf("container engine exited with code %d", e.code)
}

// DefaultBackoff retries twice with exponential backoff from 500ms.
func DefaultBackoff() retry.Backoff {
	return retry.WithMaxRetries(defaultRetries, retry.NewExponential(defaultBaseBackoff))
}

// RunWithRetry runs opts on e, retrying transient engine failures with the
// given backoff. The result of the last attempt is returned; when retries are
// exhausted on a transient exit code the result carries that code and the
// error is nil.
func RunWithRetry(ctx context.Context, e Engine, opts RunOptions, b retry.Backoff) (RunResult, error) {
	var last RunResult
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		res, err := e.Run(ctx, opts)
		last = res
		switch {
		case err != nil && IsTransientError(err):
			return retry.RetryableError(err)
		case err != nil:
			return err
		case IsTransientExitCode(res.ExitCode):
			return retry.RetryableError(errTransientExit{code: res.ExitCode})
		default:
			return nil
		}
	})
	if _, ok := err.(errTransientExit); ok {
		return last, nil
	}
	return last, err
}
