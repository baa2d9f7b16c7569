// Package preset composes named parameter overrides on top of the defaults
// extracted from a generated descriptor.
package preset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/linuxmatters/portgen/internal/defaults"
	"github.com/linuxmatters/portgen/internal/schema"
)

var (
	// ErrUnknownSymbol means an override names a port the plugin does not have.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrOutOfRange means a preset value lies outside its port's bounds.
	ErrOutOfRange = errors.New("value out of range")
)

// Values maps port symbols to values.
type Values map[string]float64

// Fragment maps control suffixes to values for one group instance,
// e.g. {"type": 1} for an oscillator.
type Fragment map[string]float64

// Preset is one named, complete set of port values.
type Preset struct {
	Name   string
	Values Values
}

// activation holds the values forced on whenever a group instance is used in
// a preset, so mentioning "osc1" switches the oscillator on.
var activation = map[string]Fragment{
	"osc":    {"on": 1, "level": 1.0},
	"filter": {"on": 1, "level": 1.0},
	"lfo":    {"on": 1},
	"env":    {"on": 1},
}

// Merge combines value sets. Later sets win on key collision.
func Merge(sets ...Values) Values {
	out := make(Values)
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

// Instance prefixes each suffix of f with the group instance, so
// Instance("osc", 1, {"type": 1}) is {"osc1_type": 1}.
func Instance(group string, n int, f Fragment) Values {
	out := make(Values, len(f))
	for suffix, v := range f {
		out[schema.GroupSymbol(group, n, suffix)] = v
	}
	return out
}

// Group is Instance plus the group's activation values, which take precedence
// over f.
func Group(group string, n int, f Fragment) Values {
	merged := make(Fragment, len(f))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range activation[group] {
		merged[k] = v
	}
	return Instance(group, n, merged)
}

// Osc returns oscillator n switched on at full level with f applied.
func Osc(n int, f Fragment) Values { return Group("osc", n, f) }

// Filter returns filter n switched on at full level with f applied.
func Filter(n int, f Fragment) Values { return Group("filter", n, f) }

// LFO returns LFO n switched on with f applied.
func LFO(n int, f Fragment) Values { return Group("lfo", n, f) }

// Env returns envelope n switched on with f applied.
func Env(n int, f Fragment) Values { return Group("env", n, f) }

// Build overlays overrides on the defaults. Every override symbol must exist
// in the defaults.
func Build(name string, d defaults.Defaults, overrides ...Values) (Preset, error) {
	merged := Merge(overrides...)

	var unknown []string
	for symbol := range merged {
		if _, ok := d[symbol]; !ok {
			unknown = append(unknown, symbol)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Preset{}, fmt.Errorf("preset %q: %w: %v", name, ErrUnknownSymbol, unknown)
	}

	values := Merge(Values(d), merged)
	return Preset{Name: name, Values: values}, nil
}

// Check verifies every value against the port bounds of s.
func Check(p Preset, s *schema.Schema) error {
	symbols := make([]string, 0, len(p.Values))
	for symbol := range p.Values {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		port, ok := s.Lookup(symbol)
		if !ok || !port.IsControl() {
			return fmt.Errorf("preset %q: %w: %s", p.Name, ErrUnknownSymbol, symbol)
		}
		v := p.Values[symbol]
		if v < port.Def.Min.Value || v > port.Def.Max.Value {
			return fmt.Errorf("preset %q: %s = %g outside [%s, %s]: %w",
				p.Name, symbol, v, port.Def.Min, port.Def.Max, ErrOutOfRange)
		}
	}
	return nil
}
