// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type (
	// Error is a catalogued wasmforge error.
	Error struct {
		Descriptor *Descriptor
		Values     map[string]any
		Parent     error

		message string
	}

	// PluginError is raised by plugin code. It is deliberately not part of the
	// numbered catalog.
	PluginError struct {
		Plugin  string
		Message string
		Parent  error
	}
)

// placeholderRegex matches %name% placeholders and the %% escape.
var placeholderRegex = regexp.MustCompile(`%([A-Za-z][A-Za-z0-9]*)?%`)

// New creates an Error for the descriptor with the given template values.
func New(d *Descriptor, values map[string]any) *Error {
	return Wrap(d, values, nil)
}

// Wrap creates an Error for the descriptor that records parent as its cause.
func Wrap(d *Descriptor, values map[string]any, parent error) *Error {
	if values == nil {
		values = map[string]any{}
	}
	return &Error{
		Descriptor: d,
		Values:     values,
		Parent:     parent,
		message:    ApplyTemplate(d.Message, values),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Descriptor.Code() + ": " + e.message
}

// Message returns the applied template without the error code.
func (e *Error) Message() string {
	return e.message
}

// Number returns the descriptor number.
func (e *Error) Number() int {
	return e.Descriptor.Number
}

// Unwrap returns the parent error for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Parent
}

// Is matches another *Error with the same descriptor.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t == nil || t.Descriptor == nil {
		return false
	}
	return t.Descriptor.Number == e.Descriptor.Number
}

// Is reports whether any error in err's chain was raised from descriptor d.
func Is(err error, d *Descriptor) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Descriptor.Number == d.Number {
			return true
		}
		err = e.Parent
	}
	return false
}

// NewPluginError creates a PluginError attributed to plugin.
func NewPluginError(plugin, message string, parent error) *PluginError {
	return &PluginError{Plugin: plugin, Message: message, Parent: parent}
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	if e.Parent != nil && e.Message == "" {
		return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Parent)
	}
	return fmt.Sprintf("plugin %s: %s", e.Plugin, e.Message)
}

// Unwrap returns the parent error.
func (e *PluginError) Unwrap() error {
	return e.Parent
}

// ApplyTemplate replaces %name% placeholders with the matching values and
// turns %% into a literal percent sign. Placeholders without a value are
// left untouched.
func ApplyTemplate(template string, values map[string]any) string {
	if !strings.Contains(template, "%") {
		return template
	}
	return placeholderRegex.ReplaceAllStringFunc(template, func(m string) string {
		if m == "%%" {
			return "%"
		}
		name := m[1 : len(m)-1]
		v, ok := values[name]
		if !ok {
			return m
		}
		if v == nil {
			return "undefined"
		}
		return fmt.Sprint(v)
	})
}
