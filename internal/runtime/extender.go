// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"slices"
)

type (
	// Extender runs once against a newly built Environment, before any task
	// action sees it. Extenders usually attach values with Environment.Set.
	Extender func(ctx context.Context, env *Environment) error

	// ExtenderManager keeps extenders in registration order.
	ExtenderManager struct {
		extenders []Extender
	}
)

// NewExtenderManager returns an empty manager.
func NewExtenderManager() *ExtenderManager {
	return &ExtenderManager{}
}

// Add registers fn.
func (m *ExtenderManager) Add(fn Extender) {
	m.extenders = append(m.extenders, fn)
}

// Extenders returns the registered extenders in order.
func (m *ExtenderManager) Extenders() []Extender {
	return slices.Clone(m.extenders)
}
