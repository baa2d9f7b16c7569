package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/portgen/internal/schema"
)

// SchemaLoadedMsg carries the allocated schema once loading has finished
type SchemaLoadedMsg struct {
	Schema *schema.Schema
	Source string // "built-in" or the YAML path
}

// LoadErrorMsg reports a schema that could not be loaded or allocated
type LoadErrorMsg struct {
	Err error
}

// Loader produces the schema to browse.
type Loader func() (*schema.Schema, string, error)

// loadSchema runs the loader off the UI goroutine
func loadSchema(load Loader) tea.Cmd {
	return func() tea.Msg {
		s, source, err := load()
		if err != nil {
			return LoadErrorMsg{Err: err}
		}
		return SchemaLoadedMsg{Schema: s, Source: source}
	}
}
