// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wasmforge/wasmforge/internal/runtime"
)

const programName = "wasmforge"

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// GlobalUsage renders the help shown by `wasmforge help`. Internal tasks are
// not listed.
func GlobalUsage(version string, defs map[string]runtime.TaskDefinition) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s version %s\n\n", programName, version)
	fmt.Fprintf(&sb, "Usage: %s [GLOBAL OPTIONS] <TASK> [TASK OPTIONS]\n\n", programName)

	sb.WriteString(headingStyle.Render("GLOBAL OPTIONS:") + "\n\n")
	globals := runtime.GlobalParamDefinitions()
	width := 0
	for _, p := range globals {
		width = max(width, len(optionLabel(p)))
	}
	for _, p := range globals {
		fmt.Fprintf(&sb, "  %s  %s\n", nameStyle.Render(pad(optionLabel(p), width)), p.Description)
	}

	sb.WriteString("\n" + headingStyle.Render("AVAILABLE TASKS:") + "\n\n")
	var names []string
	for _, name := range slices.Sorted(maps.Keys(defs)) {
		if !defs[name].IsInternal() {
			names = append(names, name)
		}
	}
	width = 0
	for _, name := range names {
		width = max(width, len(name))
	}
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s  %s\n", nameStyle.Render(pad(name, width)), defs[name].Description())
	}

	sb.WriteString("\n" + mutedStyle.Render(
		"Global options are recognized anywhere on the command line, also after the task name.\n"+
			"Tokens after a lone -- are always passed to the task.") + "\n")
	fmt.Fprintf(&sb, "\nTo get help for a specific task run: %s help [task]\n", programName)
	return sb.String()
}

// TaskUsage renders the help of a single task.
func TaskUsage(def runtime.TaskDefinition) string {
	var sb strings.Builder

	named := def.ParamDefinitions()
	positional := def.PositionalParamDefinitions()

	line := []string{programName, "[GLOBAL OPTIONS]", def.Name()}
	options := make([]runtime.ParamDefinition, 0, len(named))
	for _, name := range slices.Sorted(maps.Keys(named)) {
		options = append(options, named[name])
		line = append(line, usageToken(named[name], false))
	}
	for _, p := range positional {
		line = append(line, usageToken(p, true))
	}
	sb.WriteString("Usage: " + strings.Join(line, " ") + "\n")

	if len(named) > 0 {
		sb.WriteString("\n" + headingStyle.Render("OPTIONS:") + "\n\n")
		writeParams(&sb, options, optionLabel)
	}
	if len(positional) > 0 {
		sb.WriteString("\n" + headingStyle.Render("POSITIONAL ARGUMENTS:") + "\n\n")
		writeParams(&sb, positional, func(p runtime.ParamDefinition) string { return p.Name })
	}

	if desc := def.Description(); desc != "" {
		fmt.Fprintf(&sb, "\n%s: %s\n", def.Name(), desc)
	}
	fmt.Fprintf(&sb, "\nFor global options help run: %s help\n", programName)
	return sb.String()
}

func writeParams(sb *strings.Builder, params []runtime.ParamDefinition, label func(runtime.ParamDefinition) string) {
	width := 0
	for _, p := range params {
		width = max(width, len(label(p)))
	}
	for _, p := range params {
		desc := p.Description
		if p.IsOptional && !p.IsFlag && p.DefaultValue != nil {
			desc += mutedStyle.Render(fmt.Sprintf(" (default: %v)", p.DefaultValue))
		}
		fmt.Fprintf(sb, "  %s  %s\n", nameStyle.Render(pad(label(p), width)), desc)
	}
}

func optionLabel(p runtime.ParamDefinition) string {
	label := "--" + p.CLIName()
	if p.ShortName != "" {
		label = "-" + p.ShortName + ", " + label
	}
	return label
}

func usageToken(p runtime.ParamDefinition, positional bool) string {
	var tok string
	switch {
	case p.IsFlag:
		tok = "--" + p.CLIName()
	case p.IsVariadic:
		tok = "..." + p.Name
	case positional:
		tok = p.Name
	default:
		tok = "--" + p.CLIName() + " <" + strings.ToUpper(p.Type.Name()) + ">"
	}
	if p.IsOptional {
		return "[" + tok + "]"
	}
	return tok
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-len(s)))
}
