// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"

	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

func (t *tasks) declareHelp(s *runtime.Session) runtime.TaskBuilder {
	return s.Task(TaskHelp, "Prints this message", t.help).
		AddOptionalPositionalParam("task", "An optional task to print more info about", nil, paramtype.String)
}

func (t *tasks) help(_ context.Context, args runtime.Arguments, env *runtime.Environment, _ runtime.RunSuper) (any, error) {
	name := args.String("task")
	if name == "" {
		text := GlobalUsage(t.deps.Version, env.TaskDefinitions())
		fmt.Fprint(env.Stdout(), text)
		return text, nil
	}

	def, ok := env.TaskDefinition(name)
	if !ok {
		return nil, issue.New(issue.UnrecognizedTask, map[string]any{"task": name})
	}
	text := TaskUsage(def)
	fmt.Fprint(env.Stdout(), text)
	return text, nil
}
