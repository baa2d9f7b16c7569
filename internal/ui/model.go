// Package ui provides the Bubbletea port browser for portgen inspect
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/portgen/internal/schema"
)

// Filter names that are not group names
const (
	FilterAll    = "all"
	FilterGlobal = "global"
)

// headerLines is the number of rows the header, filter bar and footer take
const headerLines = 7

// Model is the Bubbletea model for the port browser
type Model struct {
	load Loader

	// Loaded state
	Schema *schema.Schema
	Source string
	Err    error

	// Filtering
	Filters     []string
	FilterIndex int
	Visible     []schema.Port

	// Selection and scrolling
	Cursor int
	Offset int

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a browser that loads its schema with load
func NewModel(load Loader) Model {
	return Model{load: load, Filters: []string{FilterAll}}
}

// Init starts loading the schema
func (m Model) Init() tea.Cmd {
	return loadSchema(m.load)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.moveCursor(-1)
		case "down", "j":
			m = m.moveCursor(1)
		case "pgup":
			m = m.moveCursor(-m.pageSize())
		case "pgdown":
			m = m.moveCursor(m.pageSize())
		case "home", "g":
			m = m.moveCursor(-len(m.Visible))
		case "end", "G":
			m = m.moveCursor(len(m.Visible))
		case "tab":
			m = m.setFilter(m.FilterIndex + 1)
		case "shift+tab":
			m = m.setFilter(m.FilterIndex - 1)
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m = m.moveCursor(0)

	case SchemaLoadedMsg:
		m.Schema = msg.Schema
		m.Source = msg.Source
		m.Filters = append([]string{FilterAll}, msg.Schema.Groups()...)
		m.Filters = append(m.Filters, FilterGlobal)
		m = m.setFilter(0)

	case LoadErrorMsg:
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Err != nil {
		return renderError(m)
	}
	if m.Schema == nil {
		return "Loading schema...\n"
	}
	return renderBrowser(m)
}

// Selected returns the port under the cursor
func (m Model) Selected() (schema.Port, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Visible) {
		return schema.Port{}, false
	}
	return m.Visible[m.Cursor], true
}

// Filter returns the active filter name
func (m Model) Filter() string {
	return m.Filters[m.FilterIndex]
}

func (m Model) setFilter(i int) Model {
	n := len(m.Filters)
	m.FilterIndex = ((i % n) + n) % n
	m.Visible = filterPorts(m.Schema, m.Filter())
	m.Cursor = 0
	m.Offset = 0
	return m
}

func filterPorts(s *schema.Schema, filter string) []schema.Port {
	if s == nil {
		return nil
	}
	var ports []schema.Port
	for _, p := range s.Ports {
		switch {
		case filter == FilterAll:
		case filter == FilterGlobal && p.IsControl() && p.Group == "":
		case p.Group == filter && filter != "":
		default:
			continue
		}
		ports = append(ports, p)
	}
	return ports
}

// pageSize is the number of port rows that fit the terminal
func (m Model) pageSize() int {
	if m.Height <= headerLines {
		return 1
	}
	return m.Height - headerLines
}

// moveCursor moves by delta, clamps to the visible ports and scrolls so the
// cursor stays on screen
func (m Model) moveCursor(delta int) Model {
	m.Cursor += delta
	if m.Cursor >= len(m.Visible) {
		m.Cursor = len(m.Visible) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}

	page := m.pageSize()
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+page {
		m.Offset = m.Cursor - page + 1
	}
	return m
}
