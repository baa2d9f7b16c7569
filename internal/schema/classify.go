package schema

import "strings"

// Kind is the GUI widget a control is rendered with.
type Kind int

const (
	KindKnob Kind = iota
	KindMultiplicative
	KindToggle
	KindSelect
)

// String returns a short lowercase label.
func (k Kind) String() string {
	switch k {
	case KindMultiplicative:
		return "knob-m"
	case KindToggle:
		return "toggle"
	case KindSelect:
		return "select"
	default:
		return "knob"
	}
}

// CName is the widget constant used in the typed metadata table.
func (k Kind) CName() string {
	switch k {
	case KindMultiplicative:
		return "KNOB_M"
	case KindToggle:
		return "TOGGLE"
	case KindSelect:
		return "SELECT"
	default:
		return "KNOB"
	}
}

// Shape is the numeric form of a port in the descriptor.
type Shape int

const (
	ShapeContinuous Shape = iota
	ShapeInteger
	ShapeToggle
)

func (s Shape) String() string {
	switch s {
	case ShapeToggle:
		return "toggle"
	case ShapeInteger:
		return "integer"
	default:
		return "continuous"
	}
}

// multiplicativeMarkers flag gain and blend controls by name when the
// ControlDef leaves Display on auto.
var multiplicativeMarkers = []string{"_amount", "_to_", "level", "pan"}

func isToggle(d ControlDef) bool {
	return d.Min.Value == 0 && d.Max.Integer && d.Max.Value == 1 && d.Default.Value == 0
}

// ShapeOf selects the descriptor shape from the numeric bounds.
func ShapeOf(d ControlDef) Shape {
	switch {
	case isToggle(d):
		return ShapeToggle
	case d.Max.Integer:
		return ShapeInteger
	default:
		return ShapeContinuous
	}
}

// Classify picks the widget for a control. symbol is the full port symbol
// (e.g. "mod1_amount"), which the name heuristic inspects.
func Classify(symbol string, d ControlDef) Kind {
	switch {
	case isToggle(d):
		return KindToggle
	case d.Min.Value == 0 && d.Max.Integer:
		return KindSelect
	case d.Display == DisplayMultiplicative:
		return KindMultiplicative
	case d.Display == DisplayAuto && looksMultiplicative(symbol):
		return KindMultiplicative
	}
	return KindKnob
}

func looksMultiplicative(symbol string) bool {
	for _, marker := range multiplicativeMarkers {
		if strings.Contains(symbol, marker) {
			return true
		}
	}
	return false
}

// StepOf returns the GUI step: the explicit one, 1 for stepped shapes, or a
// hundredth of the range for continuous controls.
func StepOf(d ControlDef) float64 {
	if d.Step > 0 {
		return d.Step
	}
	if ShapeOf(d) != ShapeContinuous {
		return 1
	}
	return (d.Max.Value - d.Min.Value) / 100
}
