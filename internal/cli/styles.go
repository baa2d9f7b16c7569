package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#A40000") // Signal red
	successColor = lipgloss.Color("#00AA00") // Green
	mutedColor   = lipgloss.Color("#888888") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// PrintVersion prints version information
func PrintVersion(w io.Writer, version string) {
	fmt.Fprintln(w, TitleStyle.Render("portgen"))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Fprintln(w)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// Written describes one artifact for the summary
type Written struct {
	Kind string // e.g. "descriptor"
	Path string
	Rows int
}

// PrintSummary lists the artifacts a command wrote
func PrintSummary(w io.Writer, plugin string, written []Written) {
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Plugin:"), ValueStyle.Render(plugin))
	for _, a := range written {
		fmt.Fprintf(w, "%s %-10s %s %s\n",
			SuccessStyle.Render("✓"), a.Kind, a.Path,
			KeyStyle.Render(fmt.Sprintf("(%d rows)", a.Rows)))
	}
}
