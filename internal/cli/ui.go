package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/liquidlens/liquidlens/pkg/check"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for error messages.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	stylePath      = lipgloss.NewStyle().Foreground(colorWhite)
	styleCheckCode = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// =============================================================================
// Offense Output
// =============================================================================

// severityStyle maps a severity to its display style.
func severityStyle(s check.Severity) lipgloss.Style {
	switch s {
	case check.SeverityError:
		return StyleError
	case check.SeverityWarning:
		return StyleWarning
	default:
		return StyleDim
	}
}

// writeOffense prints one offense as a single line:
//
//	sections/hero.liquid:6-23 warning BlockIdComparison: block.id is ...
func writeOffense(w io.Writer, o check.Offense) {
	fmt.Fprintf(w, "%s %s %s %s\n",
		stylePath.Render(fmt.Sprintf("%s:%d-%d", o.Path, o.Position.Start, o.Position.End)),
		severityStyle(o.Severity).Render(o.Severity.String()),
		styleCheckCode.Render(o.Check+":"),
		o.Message)
	if o.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", StyleDim.Render("suggestion: "+o.Suggestion))
	}
}

// writeOffenseSummary prints the closing count line.
func writeOffenseSummary(w io.Writer, files int, offenses []check.Offense) {
	var errors, warnings int
	for _, o := range offenses {
		switch o.Severity {
		case check.SeverityError:
			errors++
		case check.SeverityWarning:
			warnings++
		}
	}
	summary := fmt.Sprintf("%d files inspected, %d offenses (%d errors, %d warnings)",
		files, len(offenses), errors, warnings)
	if len(offenses) == 0 {
		fmt.Fprintln(w, StyleSuccess.Render(summary))
		return
	}
	fmt.Fprintln(w, StyleValue.Render(summary))
}
