package schema

import "fmt"

// PortType distinguishes the fixed ports from generated control ports.
type PortType int

const (
	PortControlEvent PortType = iota // atom sequence input for MIDI and patch messages
	PortAudioOutput
	PortControl
)

// Port is one indexed slot of the plugin interface.
type Port struct {
	Index    int
	Symbol   string
	Name     string
	Type     PortType
	Group    string // empty for fixed ports and globals
	Instance int    // 1-based, 0 when not replicated
	Def      ControlDef
}

// IsControl reports whether the port carries a ControlDef.
func (p Port) IsControl() bool {
	return p.Type == PortControl
}

// Shape returns the descriptor shape of a control port.
func (p Port) Shape() Shape {
	return ShapeOf(p.Def)
}

// Kind returns the GUI widget of a control port.
func (p Port) Kind() Kind {
	return Classify(p.Symbol, p.Def)
}

// Step returns the GUI step of a control port.
func (p Port) Step() float64 {
	return StepOf(p.Def)
}

// FixedPorts precede every generated control port.
var FixedPorts = []Port{
	{Index: 0, Symbol: "control", Name: "Control", Type: PortControlEvent},
	{Index: 1, Symbol: "left", Name: "Left", Type: PortAudioOutput},
	{Index: 2, Symbol: "right", Name: "Right", Type: PortAudioOutput},
}

// Schema is the allocated port layout. Ports[i].Index == i always holds.
type Schema struct {
	Version int
	Plugin  Plugin
	Ports   []Port
}

// PortRef is the index/symbol pair that hosts, GUIs and presets rely on.
type PortRef struct {
	Index  int
	Symbol string
}

// Allocate validates t and assigns port indices: fixed ports, then every
// group instance in declaration order, then globals.
func Allocate(t Table) (*Schema, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}

	s := &Schema{
		Version: t.Version,
		Plugin:  t.Plugin,
		Ports:   make([]Port, 0, len(FixedPorts)+controlCount(t)),
	}
	s.Ports = append(s.Ports, FixedPorts...)

	idx := len(FixedPorts)
	for _, g := range t.Groups {
		for i := 1; i <= g.Count; i++ {
			for _, c := range g.Controls {
				s.Ports = append(s.Ports, Port{
					Index:    idx,
					Symbol:   GroupSymbol(g.Name, i, c.Suffix),
					Name:     c.Suffix,
					Type:     PortControl,
					Group:    g.Name,
					Instance: i,
					Def:      c,
				})
				idx++
			}
		}
	}

	for _, c := range t.Globals {
		s.Ports = append(s.Ports, Port{
			Index:  idx,
			Symbol: c.Suffix,
			Name:   c.Suffix,
			Type:   PortControl,
			Def:    c,
		})
		idx++
	}

	return s, nil
}

// MustAllocate is Allocate for tables known to be valid, such as Rogue().
func MustAllocate(t Table) *Schema {
	s, err := Allocate(t)
	if err != nil {
		panic(err)
	}
	return s
}

// GroupSymbol builds the symbol of a replicated control, e.g. "osc2_type".
func GroupSymbol(group string, instance int, suffix string) string {
	return fmt.Sprintf("%s%d_%s", group, instance, suffix)
}

func controlCount(t Table) int {
	n := len(t.Globals)
	for _, g := range t.Groups {
		n += g.Count * len(g.Controls)
	}
	return n
}

// Controls returns the control ports in index order.
func (s *Schema) Controls() []Port {
	var ports []Port
	for _, p := range s.Ports {
		if p.IsControl() {
			ports = append(ports, p)
		}
	}
	return ports
}

// Lookup finds a port by symbol.
func (s *Schema) Lookup(symbol string) (Port, bool) {
	for _, p := range s.Ports {
		if p.Symbol == symbol {
			return p, true
		}
	}
	return Port{}, false
}

// Groups returns the distinct group names in port order.
func (s *Schema) Groups() []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range s.Ports {
		if p.Group != "" && !seen[p.Group] {
			seen[p.Group] = true
			names = append(names, p.Group)
		}
	}
	return names
}

// Refs returns the index/symbol pairs of every port.
func (s *Schema) Refs() []PortRef {
	refs := make([]PortRef, len(s.Ports))
	for i, p := range s.Ports {
		refs[i] = PortRef{Index: p.Index, Symbol: p.Symbol}
	}
	return refs
}
