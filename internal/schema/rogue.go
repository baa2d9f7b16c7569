package schema

// RogueVersion tags the current layout of the built-in table. Any change that
// moves a port index must bump it.
const RogueVersion = 2

// Rogue returns the built-in control table of the rogue synth.
// Group order and control order define every port index.
func Rogue() Table {
	return Table{
		Version: RogueVersion,
		Plugin: Plugin{
			Name:       "rogue",
			URI:        "http://www.github.com/timowest/rogue",
			Maintainer: "Timo Westkämper",
			Homepage:   "http://www.github.com/timowest",
			License:    "http://usefulinc.com/doap/licenses/gpl",
		},
		Groups: []ControlGroup{
			{Name: "osc", Count: 4, Controls: oscillatorControls()},
			{Name: "filter", Count: 2, Controls: filterControls()},
			{Name: "lfo", Count: 3, Controls: lfoControls()},
			{Name: "env", Count: 5, Controls: envelopeControls()},
			{Name: "mod", Count: 20, Controls: modulationControls()},
		},
		Globals: globalControls(),
	}
}

func oscillatorControls() []ControlDef {
	return []ControlDef{
		control("on", 0, 1, 0),
		control("type", 0, 9, 0),
		control("inv", 0, 1, 0),
		control("free", 0, 1, 0),
		control("tracking", 0, 1, 0),
		control("ratio", 0, 16.0, 1).WithStep(0.25),
		control("coarse", -48, 48, 0),
		control("fine", -1.0, 1.0, 0),
		control("param1", 0, 1.0, 0),
		control("param2", 0, 1.0, 0),
		control("level_a", 0, 1.0, 0),
		control("level_b", 0, 1.0, 0),
		control("level", 0, 1.0, 0),
		control("vel_to_vol", 0, 1.0, 0),
	}
}

func filterControls() []ControlDef {
	return []ControlDef{
		control("on", 0, 1, 0),
		control("type", 0, 11, 0),
		control("source", 0, 2, 0),
		control("freq", 0, 20000.0, 440.0).WithStep(1),
		control("q", 0, 1.0, 0),
		control("distortion", 0, 1.0, 0),
		control("level", 0, 1.0, 0),
		control("pan", -1.0, 1.0, 0),
		control("key_to_f", 0, 1.0, 0),
		control("vel_to_f", 0, 1.0, 0),
	}
}

func lfoControls() []ControlDef {
	return []ControlDef{
		control("on", 0, 1, 0),
		control("type", 0, 4, 0),
		control("inv", 0, 1, 0),
		control("reset_type", 0, 2, 0),
		control("freq", 0, 10.0, 1.0),
		control("symmetry", 0, 1.0, 0.5),
		control("attack", 0, 5.0, 0),
		control("decay", 0, 5.0, 0),
		control("humanize", 0, 1.0, 0),
	}
}

func envelopeControls() []ControlDef {
	return []ControlDef{
		control("on", 0, 1, 0),
		control("pre_delay", 0, 5.0, 0),
		control("attack", 0, 5.0, 0),
		control("hold", 0, 5.0, 0),
		control("decay", 0, 5.0, 0),
		control("sustain", 0, 1.0, 1.0),
		control("release", 0, 5.0, 0),
		control("retrigger", 0, 1, 0),
	}
}

func modulationControls() []ControlDef {
	return []ControlDef{
		control("src", 0, 17, 0),
		control("target", 0, 39, 0),
		control("amount", -1.0, 1.0, 0),
	}
}

func globalControls() []ControlDef {
	return []ControlDef{
		control("bus_a_level", 0, 1.0, 0),
		control("bus_a_pan", 0, 1.0, 0.5),
		control("bus_b_level", 0, 1.0, 0),
		control("bus_b_pan", 0, 1.0, 0.5),
		control("volume", 0, 1.0, 0.5),
		control("glide_time", 0, 5.0, 0),
		control("bend_range", 0, 12.0, 0),
	}
}
