package emit

import (
	"bytes"
	"fmt"

	"github.com/linuxmatters/portgen/internal/schema"
)

// Layout is the row format of the GUI metadata table.
type Layout int

const (
	// LayoutAuto picks the layout from the schema version
	LayoutAuto Layout = iota
	// LayoutTyped rows are {symbol, min, max, default, TYPE}
	LayoutTyped
	// LayoutStepped rows are {symbol, min, max, default, step}
	LayoutStepped
)

// LayoutFor returns the metadata layout of a schema version. Version 1
// tables predate per-control steps.
func LayoutFor(version int) Layout {
	if version <= 1 {
		return LayoutTyped
	}
	return LayoutStepped
}

// Metadata renders the C header table consumed by the GUI.
type Metadata struct {
	Layout Layout

	layout Layout
}

func (m *Metadata) Name() string { return "metadata" }

func (m *Metadata) Begin(w *bytes.Buffer, s *schema.Schema) error {
	m.layout = m.Layout
	if m.layout == LayoutAuto {
		m.layout = LayoutFor(s.Version)
	}

	guard := guardName(s.Plugin.Name) + "_META"
	fmt.Fprintf(w, "#ifndef %s\n#define %s\n\n", guard, guard)
	fmt.Fprintf(w, "#define %s_VERSION %d\n\n", guard, s.Version)

	switch m.layout {
	case LayoutTyped:
		w.WriteString("enum {KNOB, KNOB_M, KNOB_S, TOGGLE, SELECT};\n\n")
		w.WriteString(metaStruct("int type"))
	case LayoutStepped:
		w.WriteString(metaStruct("float step"))
	default:
		return fmt.Errorf("unknown metadata layout %d", m.layout)
	}
	w.WriteString("\nstatic const port_meta_t p_port_meta[] = {\n")
	return nil
}

func metaStruct(last string) string {
	return "typedef struct {\n" +
		"    const char* symbol;\n" +
		"    float min;\n" +
		"    float max;\n" +
		"    float default_value;\n" +
		"    " + last + ";\n" +
		"} port_meta_t;\n"
}

func (m *Metadata) Port(w *bytes.Buffer, p schema.Port) (int, error) {
	if !p.IsControl() {
		placeholder := "0"
		if m.layout == LayoutTyped {
			placeholder = schema.KindKnob.CName()
		}
		fmt.Fprintf(w, "    {\"%s\", 0, 0, 0, %s},\n", p.Symbol, placeholder)
		return 1, nil
	}

	last := schema.Float(p.Step()).String()
	if m.layout == LayoutTyped {
		last = p.Kind().CName()
	}
	fmt.Fprintf(w, "    {\"%s\", %s, %s, %s, %s},\n", p.Symbol, p.Def.Min, p.Def.Max, p.Def.Default, last)
	return 1, nil
}

func (m *Metadata) End(w *bytes.Buffer, s *schema.Schema) error {
	w.WriteString("};\n\n#endif\n")
	return nil
}
