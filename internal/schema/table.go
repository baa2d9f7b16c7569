// Package schema defines the plugin's control table and turns it into an
// indexed port layout shared by every generated artifact.
package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Display overrides how the GUI renders a continuous control.
type Display int

const (
	// DisplayAuto infers multiplicative controls from the symbol name
	DisplayAuto Display = iota
	// DisplayMultiplicative marks a gain/blend control
	DisplayMultiplicative
	// DisplayPlain is a plain knob, even if the name looks multiplicative
	DisplayPlain
)

var displayNames = map[string]Display{
	"auto":           DisplayAuto,
	"multiplicative": DisplayMultiplicative,
	"plain":          DisplayPlain,
}

func (d Display) String() string {
	for name, v := range displayNames {
		if v == d {
			return name
		}
	}
	return fmt.Sprintf("Display(%d)", int(d))
}

// UnmarshalYAML accepts "auto", "multiplicative" or "plain".
func (d *Display) UnmarshalYAML(node *yaml.Node) error {
	v, ok := displayNames[node.Value]
	if !ok {
		return fmt.Errorf("line %d: unknown display %q", node.Line, node.Value)
	}
	*d = v
	return nil
}

// ControlDef is one row of a control group: a suffix and its numeric range.
type ControlDef struct {
	Suffix  string
	Min     Number
	Max     Number
	Default Number
	Step    float64 // GUI granularity, 0 derives it from the shape
	Display Display
}

// WithStep returns a copy of d with an explicit GUI step.
func (d ControlDef) WithStep(step float64) ControlDef {
	d.Step = step
	return d
}

// WithDisplay returns a copy of d with an explicit display override.
func (d ControlDef) WithDisplay(display Display) ControlDef {
	d.Display = display
	return d
}

// ControlGroup is a replicated template, e.g. four oscillators sharing one
// parameter list. Control order is significant: it fixes port indices.
type ControlGroup struct {
	Name     string
	Count    int
	Controls []ControlDef
}

// Plugin identifies the plugin in the descriptor preamble.
type Plugin struct {
	Name       string `yaml:"name"`
	URI        string `yaml:"uri"`
	Maintainer string `yaml:"maintainer"`
	Homepage   string `yaml:"homepage"`
	License    string `yaml:"license"`
}

// Table is the single declarative source for one schema version.
type Table struct {
	Version int
	Plugin  Plugin
	Groups  []ControlGroup
	Globals []ControlDef
}

// control builds a ControlDef from untyped constants, keeping int vs float
// literals distinct: control("ratio", 0, 16.0, 1).
func control(suffix string, min, max, def any) ControlDef {
	return ControlDef{
		Suffix:  suffix,
		Min:     num(min),
		Max:     num(max),
		Default: num(def),
	}
}
