// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"slices"
)

// Registry maps task names to their latest declaration.
type Registry struct {
	definitions map[string]TaskBuilder
	// order keeps first registration order, used to report errors
	// deterministically.
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[string]TaskBuilder)}
}

// Task declares a task. Declaring a name that already exists overrides it.
// An empty description or a nil action leaves the value unset.
func (r *Registry) Task(name, description string, action Action) TaskBuilder {
	return r.register(name, description, action, false)
}

// InternalTask declares a task that can run outside a project.
func (r *Registry) InternalTask(name, description string, action Action) TaskBuilder {
	return r.register(name, description, action, true)
}

func (r *Registry) register(name, description string, action Action, isInternal bool) TaskBuilder {
	var def TaskBuilder
	if parent, ok := r.definitions[name]; ok {
		def = NewOverriddenTaskDefinition(parent, isInternal)
	} else {
		def = NewTaskDefinition(name, isInternal)
		r.order = append(r.order, name)
	}
	if description != "" {
		def.SetDescription(description)
	}
	if action != nil {
		def.SetAction(action)
	}
	r.definitions[name] = def
	return def
}

// Get returns the latest declaration of name.
func (r *Registry) Get(name string) (TaskDefinition, bool) {
	def, ok := r.definitions[name]
	if !ok {
		return nil, false
	}
	return def, true
}

// Names returns the registered task names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.definitions))
}

// Definitions returns a snapshot of the registry.
func (r *Registry) Definitions() map[string]TaskDefinition {
	defs := make(map[string]TaskDefinition, len(r.definitions))
	for name, def := range r.definitions {
		defs[name] = def
	}
	return defs
}

// Err returns the first construction error of any declaration, checking
// tasks in registration order and each override chain from its root.
func (r *Registry) Err() error {
	for _, name := range r.order {
		var chain []TaskDefinition
		for def := TaskDefinition(r.definitions[name]); def != nil; {
			chain = append(chain, def)
			o, ok := def.(overriding)
			if !ok {
				break
			}
			def = o.Parent()
		}
		for _, def := range slices.Backward(chain) {
			if b, ok := def.(interface{ Err() error }); ok && b.Err() != nil {
				return b.Err()
			}
		}
	}
	return nil
}
