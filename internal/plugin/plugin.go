// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
)

type (
	// RegisterFunc declares a plugin's tasks and extenders on s.
	RegisterFunc func(s *runtime.Session) error

	// Catalog maps plugin names to their registration functions.
	Catalog struct {
		mu      sync.RWMutex
		plugins map[string]RegisterFunc
	}
)

var defaultCatalog = NewCatalog()

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{plugins: make(map[string]RegisterFunc)}
}

// Default returns the process catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Register adds a plugin to the process catalog. Registering the same name
// twice replaces the earlier function.
func Register(name string, fn RegisterFunc) {
	defaultCatalog.Register(name, fn)
}

// Load activates the named plugins from the process catalog.
func Load(s *runtime.Session, names []string) error {
	return defaultCatalog.Load(s, names)
}

// Names lists the plugins in the process catalog.
func Names() []string {
	return defaultCatalog.Names()
}

// Register adds a plugin to c.
func (c *Catalog) Register(name string, fn RegisterFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.plugins[name] = fn
}

// Names returns the registered plugin names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.plugins))
}

// Load runs the registration function of each named plugin in order and
// records it in the session. A plugin listed twice is only loaded once.
// Task declarations the plugin left invalid are reported against it.
func (c *Catalog) Load(s *runtime.Session, names []string) error {
	for _, name := range names {
		if slices.Contains(s.LoadedPlugins(), name) {
			continue
		}

		c.mu.RLock()
		fn, ok := c.plugins[name]
		c.mu.RUnlock()
		if !ok {
			return issue.New(issue.PluginNotFound, map[string]any{
				"plugin": name,
				"known":  knownList(c.Names()),
			})
		}

		pending := s.Registry().Err()
		if err := fn(s); err != nil {
			return issue.NewPluginError(name, err.Error(), err)
		}
		if err := s.Registry().Err(); err != nil && pending == nil {
			wrapped := issue.Wrap(issue.PluginRegistrationFailed, map[string]any{"plugin": name}, err)
			return issue.NewPluginError(name, err.Error(), wrapped)
		}
		s.AddLoadedPlugin(name)
	}
	return nil
}

func knownList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
