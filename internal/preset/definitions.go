package preset

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/linuxmatters/portgen/internal/defaults"
)

// Part is one override fragment. An empty Group means Values are global
// symbols used as is.
type Part struct {
	Group    string   `yaml:"group"`
	Instance int      `yaml:"instance"`
	Values   Fragment `yaml:"values"`
}

// Definition describes one preset as an ordered list of parts.
type Definition struct {
	Name  string `yaml:"name"`
	Parts []Part `yaml:"parts"`
}

type definitionsFile struct {
	Presets []Definition `yaml:"presets"`
}

// Overrides expands the parts in order; later parts win.
func (d Definition) Overrides() (Values, error) {
	sets := make([]Values, 0, len(d.Parts))
	for i, p := range d.Parts {
		if p.Group == "" {
			sets = append(sets, Values(p.Values))
			continue
		}
		if p.Instance < 1 {
			return nil, fmt.Errorf("preset %q part %d: %s instance must be at least 1", d.Name, i+1, p.Group)
		}
		sets = append(sets, Group(p.Group, p.Instance, p.Values))
	}
	return Merge(sets...), nil
}

// DecodeDefinitions reads preset definitions from YAML.
func DecodeDefinitions(r io.Reader) ([]Definition, error) {
	var f definitionsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}

	seen := make(map[string]bool, len(f.Presets))
	for _, d := range f.Presets {
		if d.Name == "" {
			return nil, fmt.Errorf("decode presets: preset without a name")
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("decode presets: duplicate preset %q", d.Name)
		}
		seen[d.Name] = true
	}
	return f.Presets, nil
}

// LoadDefinitions reads preset definitions from a YAML file.
func LoadDefinitions(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer f.Close()

	defs, err := DecodeDefinitions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// BuildAll builds every definition against the same defaults, in order.
func BuildAll(defs []Definition, d defaults.Defaults) ([]Preset, error) {
	presets := make([]Preset, 0, len(defs))
	for _, def := range defs {
		overrides, err := def.Overrides()
		if err != nil {
			return nil, err
		}
		p, err := Build(def.Name, d, overrides)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, nil
}
