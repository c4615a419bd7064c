// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the error reports.
const (
	// ColorError is red - used for errors and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for hints that need attention.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorMuted is gray - used for de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorVerbose is light gray - used for cause chains.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

var (
	// ErrorStyle is for error headlines.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for report hints.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// HintStyle is for the stack trace hint.
	HintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	// VerboseStyle is for cause chains.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)
)
