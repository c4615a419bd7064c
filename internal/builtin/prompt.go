// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

type (
	// Prompter asks the user for missing init inputs.
	Prompter interface {
		// Interactive reports whether the user can be asked at all.
		Interactive() bool
		// ProjectDir asks for the directory of a new project.
		ProjectDir(ctx context.Context, suggestion string) (string, error)
	}

	terminalPrompter struct{}
)

// NewTerminalPrompter returns a prompter using huh forms when stdin and
// stdout are terminals.
func NewTerminalPrompter() Prompter {
	return terminalPrompter{}
}

func (terminalPrompter) Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

func (terminalPrompter) ProjectDir(ctx context.Context, suggestion string) (string, error) {
	dir := suggestion
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Where should the project be created?").
			Placeholder(suggestion).
			Value(&dir).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("a directory is required")
				}
				return nil
			}),
	)).RunWithContext(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(dir), nil
}
