// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wasmforge/wasmforge/internal/issue"
)

const reportURL = "https://github.com/wasmforge/wasmforge/issues/new"

type errorKind int

const (
	kindUnexpected errorKind = iota
	kindIssue
	kindPlugin
)

// classifyError finds the error kind that decides how err is reported.
// Plugin errors win over the catalogued errors they may wrap.
func classifyError(err error) (errorKind, *issue.Error, *issue.PluginError) {
	var pluginErr *issue.PluginError
	if errors.As(err, &pluginErr) {
		var issueErr *issue.Error
		errors.As(pluginErr, &issueErr)
		return kindPlugin, issueErr, pluginErr
	}
	var issueErr *issue.Error
	if errors.As(err, &issueErr) {
		return kindIssue, issueErr, nil
	}
	return kindUnexpected, nil, nil
}

// ReportError writes the classified report of err to w, honoring the
// --show-stack-traces and --verbose flags of the failed invocation.
func (a *App) ReportError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		err = exitErr.Err
	}

	kind, issueErr, pluginErr := classifyError(err)
	shouldReport := false
	switch kind {
	case kindIssue:
		fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error "+issueErr.Descriptor.Code()+":"), issueErr.Message())
		shouldReport = issueErr.Descriptor.ShouldBeReported
	case kindPlugin:
		fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error in plugin "+pluginErr.Plugin+":"), pluginMessage(pluginErr))
	default:
		fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("An unexpected error occurred:"), formatErrorForDisplay(err, a.runtimeArgs.Verbose))
		shouldReport = true
	}

	if a.runtimeArgs.ShowStackTraces {
		writeCauseChain(w, err)
	} else {
		fmt.Fprintln(w, HintStyle.Render("For more info run wasmforge with --show-stack-traces"))
	}

	if a.runtimeArgs.Verbose && issueErr != nil {
		if help, rerr := issueErr.Descriptor.Render(a.MarkdownStyle); rerr == nil {
			fmt.Fprint(w, help)
		}
	}

	if shouldReport {
		fmt.Fprintln(w, WarningStyle.Render("This is probably a bug in wasmforge. Please report it at "+reportURL))
	}
}

func pluginMessage(e *issue.PluginError) string {
	if e.Message != "" {
		return e.Message
	}
	if e.Parent != nil {
		return e.Parent.Error()
	}
	return ""
}

// writeCauseChain prints err and every error it wraps, outermost first.
func writeCauseChain(w io.Writer, err error) {
	fmt.Fprintln(w, VerboseStyle.Render(err.Error()))
	depth := 1
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintln(w, VerboseStyle.Render(strings.Repeat("  ", depth)+"caused by: "+cause.Error()))
		depth++
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
