package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type tableFile struct {
	Version int           `yaml:"version"`
	Plugin  Plugin        `yaml:"plugin"`
	Groups  []groupFile   `yaml:"groups"`
	Globals []controlFile `yaml:"globals"`
}

type groupFile struct {
	Name     string        `yaml:"name"`
	Count    int           `yaml:"count"`
	Controls []controlFile `yaml:"controls"`
}

type controlFile struct {
	Suffix  string  `yaml:"suffix"`
	Min     *Number `yaml:"min"`
	Max     *Number `yaml:"max"`
	Default *Number `yaml:"default"`
	Step    float64 `yaml:"step"`
	Display Display `yaml:"display"`
}

func (c controlFile) def() (ControlDef, error) {
	if c.Min == nil || c.Max == nil || c.Default == nil {
		return ControlDef{}, fmt.Errorf("control %q: min, max and default are required", c.Suffix)
	}
	return ControlDef{
		Suffix:  c.Suffix,
		Min:     *c.Min,
		Max:     *c.Max,
		Default: *c.Default,
		Step:    c.Step,
		Display: c.Display,
	}, nil
}

// Decode reads a table from YAML. Integer and float literals keep their
// distinction, so `max: 1` and `max: 1.0` produce different port shapes.
func Decode(r io.Reader) (Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Table{}, fmt.Errorf("decode schema: %w", err)
	}

	t := Table{Version: f.Version, Plugin: f.Plugin}
	for _, g := range f.Groups {
		group := ControlGroup{Name: g.Name, Count: g.Count}
		for _, c := range g.Controls {
			def, err := c.def()
			if err != nil {
				return Table{}, fmt.Errorf("group %q: %w", g.Name, err)
			}
			group.Controls = append(group.Controls, def)
		}
		t.Groups = append(t.Groups, group)
	}
	for _, c := range f.Globals {
		def, err := c.def()
		if err != nil {
			return Table{}, fmt.Errorf("globals: %w", err)
		}
		t.Globals = append(t.Globals, def)
	}
	return t, nil
}

// Load reads a YAML table from path.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
