// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
)

// CodePrefix is prepended to descriptor numbers when errors are displayed.
const CodePrefix = "WF"

const (
	// CategoryGeneral covers context lifecycle and configuration failures.
	CategoryGeneral Category = "GENERAL"
	// CategoryNetwork covers network selection and RPC failures.
	CategoryNetwork Category = "NETWORK"
	// CategoryTaskDefinitions covers invalid parameter schemas.
	CategoryTaskDefinitions Category = "TASK_DEFINITIONS"
	// CategoryArguments covers command-line and environment argument errors.
	CategoryArguments Category = "ARGUMENTS"
	// CategoryBuiltinTasks covers failures raised by the bundled task actions.
	CategoryBuiltinTasks Category = "BUILTIN_TASKS"
	// CategoryPlugins covers plugin lookup and registration failures.
	CategoryPlugins Category = "PLUGINS"
	// CategoryInternal covers errors that indicate a bug in wasmforge itself.
	CategoryInternal Category = "INTERNAL"
)

type (
	// Category names one error range of the catalog.
	Category string

	// Range is the inclusive span of descriptor numbers reserved for a category.
	Range struct {
		Min   int
		Max   int
		Title string
	}

	// Descriptor is a catalog entry. Message is a template whose %name%
	// placeholders are filled from the values attached to an Error.
	Descriptor struct {
		Category         Category
		Number           int
		Message          string
		Title            string
		Description      string
		ShouldBeReported bool
	}
)

var render = glamour.Render

// Code returns the display code of the descriptor, e.g. "WF303".
func (d *Descriptor) Code() string {
	return CodePrefix + strconv.Itoa(d.Number)
}

// String implements fmt.Stringer.
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.Code(), d.Title)
}

// Markdown returns the long-form help for the descriptor.
func (d *Descriptor) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(d.Code())
	sb.WriteString(": ")
	sb.WriteString(d.Title)
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(d.Description))
	if d.ShouldBeReported {
		sb.WriteString("\n\n## This looks like a bug\n")
		sb.WriteString("Please report it with the output of `wasmforge --show-stack-traces`.")
	}
	return sb.String()
}

// Render renders the descriptor help as styled terminal markdown.
func (d *Descriptor) Render(stylePath string) (string, error) {
	return render(d.Markdown(), stylePath)
}

// Contains reports whether n lies inside the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}
