package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/portgen/internal/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	activeFilterStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFA500"))

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AA00"))

	detailBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A40000")).
			Padding(0, 1).
			Width(36)
)

// renderBrowser renders the filter bar, the port list and the detail box
func renderBrowser(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")
	b.WriteString(renderFilterBar(m))
	b.WriteString("\n\n")

	list := renderPortList(m)
	if port, ok := m.Selected(); ok {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", renderDetails(port)))
	} else {
		b.WriteString(list)
	}
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("↑/↓ move · pgup/pgdn page · tab filter · q quit"))

	return b.String()
}

// renderHeader renders the plugin identity and port count
func renderHeader(m Model) string {
	title := titleStyle.Render(fmt.Sprintf("portgen · %s", m.Schema.Plugin.Name))
	subtitle := subtitleStyle.Render(fmt.Sprintf("%d ports, schema v%d, %s",
		len(m.Schema.Ports), m.Schema.Version, m.Source))
	return title + "\n" + subtitle
}

// renderFilterBar lists the filters with the active one highlighted
func renderFilterBar(m Model) string {
	parts := make([]string, len(m.Filters))
	for i, f := range m.Filters {
		if i == m.FilterIndex {
			parts[i] = activeFilterStyle.Render("[" + f + "]")
		} else {
			parts[i] = filterStyle.Render(f)
		}
	}
	return strings.Join(parts, " ")
}

// renderPortList renders the visible page of ports
func renderPortList(m Model) string {
	if len(m.Visible) == 0 {
		return filterStyle.Render("no ports")
	}

	end := m.Offset + m.pageSize()
	if end > len(m.Visible) {
		end = len(m.Visible)
	}

	var b strings.Builder
	for i := m.Offset; i < end; i++ {
		p := m.Visible[i]
		line := fmt.Sprintf("%3d  %-20s %s", p.Index, p.Symbol, kindLabel(p))
		if i == m.Cursor {
			b.WriteString(cursorStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderDetails renders everything the generated artifacts say about a port
func renderDetails(p schema.Port) string {
	var content strings.Builder

	fmt.Fprintf(&content, "%s\n", titleStyle.Render(p.Symbol))
	fmt.Fprintf(&content, "Index:   %d\n", p.Index)
	if !p.IsControl() {
		fmt.Fprintf(&content, "Type:    %s", kindLabel(p))
		return detailBox.Render(content.String())
	}

	if p.Group != "" {
		fmt.Fprintf(&content, "Group:   %s %d\n", p.Group, p.Instance)
	}
	fmt.Fprintf(&content, "Widget:  %s\n", p.Kind())
	fmt.Fprintf(&content, "Shape:   %s\n", p.Shape())
	fmt.Fprintf(&content, "Range:   %s .. %s\n", p.Def.Min, p.Def.Max)
	fmt.Fprintf(&content, "Default: %s\n", p.Def.Default)
	fmt.Fprintf(&content, "Step:    %s", schema.Float(p.Step()))

	return detailBox.Render(content.String())
}

func kindLabel(p schema.Port) string {
	switch p.Type {
	case schema.PortControlEvent:
		return "event"
	case schema.PortAudioOutput:
		return "audio"
	}
	return p.Kind().String()
}

// renderError renders a load failure
func renderError(m Model) string {
	return titleStyle.Render("✗ Cannot load schema") + "\n" + m.Err.Error() + "\n"
}
