// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"slices"
	"sync"

	"github.com/wasmforge/wasmforge/internal/config"
	"github.com/wasmforge/wasmforge/internal/issue"
)

// Session holds everything registered during one wasmforge invocation: the
// task registry, environment extenders, loaded plugins and, once built, the
// Environment.
type Session struct {
	registry      *Registry
	extenders     *ExtenderManager
	loadedPlugins []string
	env           *Environment
}

var (
	contextMu sync.Mutex
	current   *Session
)

// NewSession returns a standalone session, not bound to the process context.
func NewSession() *Session {
	return &Session{
		registry:  NewRegistry(),
		extenders: NewExtenderManager(),
	}
}

// CreateContext creates the process-wide session.
func CreateContext() (*Session, error) {
	contextMu.Lock()
	defer contextMu.Unlock()

	if current != nil {
		return nil, issue.New(issue.ContextAlreadyCreated, nil)
	}
	current = NewSession()
	return current, nil
}

// GetContext returns the process-wide session.
func GetContext() (*Session, error) {
	contextMu.Lock()
	defer contextMu.Unlock()

	if current == nil {
		return nil, issue.New(issue.ContextNotCreated, nil)
	}
	return current, nil
}

// IsContextCreated reports whether CreateContext was called since the last reset.
func IsContextCreated() bool {
	contextMu.Lock()
	defer contextMu.Unlock()

	return current != nil
}

// ResetContext drops the process-wide session and everything registered in it.
func ResetContext() {
	contextMu.Lock()
	defer contextMu.Unlock()

	current = nil
}

// Task declares a task in the process-wide session.
func Task(name, description string, action Action) (TaskBuilder, error) {
	s, err := GetContext()
	if err != nil {
		return nil, err
	}
	return s.Task(name, description, action), nil
}

// InternalTask declares an internal task in the process-wide session.
func InternalTask(name, description string, action Action) (TaskBuilder, error) {
	s, err := GetContext()
	if err != nil {
		return nil, err
	}
	return s.InternalTask(name, description, action), nil
}

// ExtendEnvironment registers an extender in the process-wide session.
func ExtendEnvironment(fn Extender) error {
	s, err := GetContext()
	if err != nil {
		return err
	}
	s.ExtendEnvironment(fn)
	return nil
}

// Registry returns the session's task registry.
func (s *Session) Registry() *Registry { return s.registry }

// Extenders returns the session's extender manager.
func (s *Session) Extenders() *ExtenderManager { return s.extenders }

// Task declares a task in this session.
func (s *Session) Task(name, description string, action Action) TaskBuilder {
	return s.registry.Task(name, description, action)
}

// InternalTask declares an internal task in this session.
func (s *Session) InternalTask(name, description string, action Action) TaskBuilder {
	return s.registry.InternalTask(name, description, action)
}

// ExtendEnvironment registers an extender in this session.
func (s *Session) ExtendEnvironment(fn Extender) {
	s.extenders.Add(fn)
}

// AddLoadedPlugin records that a plugin finished registering.
func (s *Session) AddLoadedPlugin(name string) {
	s.loadedPlugins = append(s.loadedPlugins, name)
}

// LoadedPlugins returns the loaded plugin names in load order.
func (s *Session) LoadedPlugins() []string {
	return slices.Clone(s.loadedPlugins)
}

// SetEnvironment binds env to the session. It can only be done once.
func (s *Session) SetEnvironment(env *Environment) error {
	if s.env != nil {
		return issue.New(issue.ContextEnvironmentAlreadyDefined, nil)
	}
	s.env = env
	return nil
}

// Environment returns the bound environment.
func (s *Session) Environment() (*Environment, bool) {
	return s.env, s.env != nil
}

// NewEnvironment freezes the registry into a new Environment and binds it to
// the session. Pending task construction errors are returned first.
func (s *Session) NewEnvironment(
	ctx context.Context, cfg *config.Config, args RuntimeArgs, opts ...EnvironmentOption,
) (*Environment, error) {
	if s.env != nil {
		return nil, issue.New(issue.ContextEnvironmentAlreadyDefined, nil)
	}
	if err := s.registry.Err(); err != nil {
		return nil, err
	}
	env, err := NewEnvironment(ctx, cfg, args, s.registry.Definitions(), s.extenders.Extenders(), opts...)
	if err != nil {
		return nil, err
	}
	if err := s.SetEnvironment(env); err != nil {
		return nil, err
	}
	return env, nil
}
