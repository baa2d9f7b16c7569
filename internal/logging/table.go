// Package logging renders port listings and writes the generator's
// structured log.
package logging

import (
	"fmt"
	"strings"

	"github.com/linuxmatters/portgen/internal/schema"
)

// Row is one line of a table. Values are pre-formatted strings.
type Row struct {
	Label  string   // Row label, e.g. the port symbol
	Values []string // One value per header
	Note   string   // Optional trailing text (only shown if non-empty)
}

// Table formats aligned columns. The label column is left-aligned and value
// columns are right-aligned; a note column appears only if some row has one.
type Table struct {
	Label   string   // Header of the label column
	Headers []string // Value column headers
	Rows    []Row
}

// String renders the table with aligned columns.
func (t *Table) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	hasNote := false
	labelWidth := len(t.Label)
	for _, row := range t.Rows {
		if row.Note != "" {
			hasNote = true
		}
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	var sb strings.Builder

	line := func(label string, values []string, note string) {
		fmt.Fprintf(&sb, "%-*s", labelWidth, label)
		for i := range t.Headers {
			val := MissingValue
			if i < len(values) && values[i] != "" {
				val = values[i]
			}
			fmt.Fprintf(&sb, "  %*s", valueWidths[i], val)
		}
		if hasNote && note != "" {
			sb.WriteString("  ")
			sb.WriteString(note)
		}
		sb.WriteString("\n")
	}

	note := ""
	if hasNote {
		note = "Note"
	}
	line(t.Label, t.Headers, note)
	for _, row := range t.Rows {
		line(row.Label, row.Values, row.Note)
	}

	return sb.String()
}

// AddRow appends a row with pre-formatted values.
func (t *Table) AddRow(label string, values []string, note string) {
	t.Rows = append(t.Rows, Row{Label: label, Values: values, Note: note})
}

// MissingValue is the placeholder for columns a port does not have.
const MissingValue = "-"

// NewPortTable creates an empty table with the port listing columns.
func NewPortTable() *Table {
	return &Table{
		Label:   "Symbol",
		Headers: []string{"Index", "Kind", "Shape", "Min", "Max", "Default", "Step"},
	}
}

// PortTable lists the ports of s in index order. A non-empty group restricts
// the listing to that group's ports.
func PortTable(s *schema.Schema, group string) *Table {
	t := NewPortTable()
	for _, p := range s.Ports {
		if group != "" && p.Group != group {
			continue
		}
		t.AddRow(p.Symbol, portValues(p), portNote(p))
	}
	return t
}

func portValues(p schema.Port) []string {
	index := fmt.Sprintf("%d", p.Index)
	if !p.IsControl() {
		return []string{index, MissingValue, MissingValue, MissingValue, MissingValue, MissingValue, MissingValue}
	}
	return []string{
		index,
		p.Kind().String(),
		p.Shape().String(),
		p.Def.Min.String(),
		p.Def.Max.String(),
		p.Def.Default.String(),
		schema.Float(p.Step()).String(),
	}
}

func portNote(p schema.Port) string {
	switch p.Type {
	case schema.PortControlEvent:
		return "event input"
	case schema.PortAudioOutput:
		return "audio output"
	}
	return ""
}
