package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/linuxmatters/portgen/internal/artifact"
	"github.com/linuxmatters/portgen/internal/cli"
	"github.com/linuxmatters/portgen/internal/config"
	"github.com/linuxmatters/portgen/internal/defaults"
	"github.com/linuxmatters/portgen/internal/emit"
	"github.com/linuxmatters/portgen/internal/logging"
	"github.com/linuxmatters/portgen/internal/preset"
	"github.com/linuxmatters/portgen/internal/schema"
	"github.com/linuxmatters/portgen/internal/ui"
)

// ErrBreakingChange is returned by diff when ports were removed or moved.
var ErrBreakingChange = errors.New("breaking port layout change")

// SchemaFlags select the port table and optionally override the plugin identity
type SchemaFlags struct {
	Schema string `type:"path" default:"${schema}" help:"YAML port table (built-in table when empty)"`
	Plugin string `help:"Override the plugin name"`
	URI    string `help:"Override the plugin URI"`
}

// load reads the table, applies overrides and allocates indices
func (f SchemaFlags) load(log *logging.Logger) (*schema.Schema, string, error) {
	t := schema.Rogue()
	source := "built-in"
	if f.Schema != "" {
		var err error
		if t, err = schema.Load(f.Schema); err != nil {
			return nil, "", err
		}
		source = f.Schema
	}
	if f.Plugin != "" {
		t.Plugin.Name = f.Plugin
	}
	if f.URI != "" {
		t.Plugin.URI = f.URI
	}

	s, err := schema.Allocate(t)
	if err != nil {
		return nil, "", err
	}
	log.Info("schema allocated", logging.Fields{
		"plugin": s.Plugin.Name, "ports": len(s.Ports), "source": source, "version": s.Version,
	})
	return s, source, nil
}

// GenerateCmd writes the three port artifacts
type GenerateCmd struct {
	SchemaFlags
	OutDir     string `type:"path" default:"${out_dir}" help:"Directory artifacts are written under"`
	Descriptor string `default:"${descriptor}" help:"Descriptor path (default <plugin>.ttl)"`
	Metadata   string `default:"${metadata}" help:"Metadata header path"`
	Enum       string `default:"${enum}" help:"Port enum header path (default src/<plugin>.gen)"`
	DryRun     bool   `help:"Validate and generate without writing files"`
}

func (c *GenerateCmd) Run(rc *runContext) error {
	s, _, err := c.load(rc.log)
	if err != nil {
		return err
	}

	artifacts, err := emit.Generate(s, emit.All()...)
	if err != nil {
		return err
	}

	paths := config.ArtifactPaths(c.OutDir, s.Plugin.Name, c.Descriptor, c.Metadata, c.Enum)
	dest := map[string]string{
		"descriptor": paths.Descriptor,
		"metadata":   paths.Metadata,
		"ports":      paths.Enum,
	}

	files := make([]artifact.File, 0, len(artifacts))
	written := make([]cli.Written, 0, len(artifacts))
	for _, a := range artifacts {
		rc.log.Debugf("emitter %s: %d rows, %d bytes", a.Name, a.Rows, len(a.Data))
		files = append(files, artifact.File{Path: dest[a.Name], Data: a.Data})
		written = append(written, cli.Written{Kind: a.Name, Path: dest[a.Name], Rows: a.Rows})
	}

	if !c.DryRun {
		if err := artifact.WriteAll(files); err != nil {
			return err
		}
		rc.log.Info("artifacts written", logging.Fields{"plugin": s.Plugin.Name, "files": len(files)})
	}
	cli.PrintSummary(rc.stdout, s.Plugin.Name, written)
	return nil
}

// DefaultsCmd prints the defaults extracted from a descriptor
type DefaultsCmd struct {
	Descriptor string `arg:"" type:"existingfile" help:"Generated descriptor (.ttl)"`
	JSON       bool   `help:"Print a JSON object instead of lines"`
}

func (c *DefaultsCmd) Run(rc *runContext) error {
	d, err := defaults.Load(c.Descriptor)
	if err != nil {
		return err
	}
	rc.log.Info("defaults extracted", logging.Fields{"descriptor": c.Descriptor, "controls": len(d)})

	if c.JSON {
		doc := "{}"
		for _, symbol := range d.Symbols() {
			if doc, err = sjson.Set(doc, symbol, d[symbol]); err != nil {
				return fmt.Errorf("defaults: %s: %w", symbol, err)
			}
		}
		fmt.Fprintln(rc.stdout, strings.TrimSpace(gjson.Get(doc, "@pretty").Raw))
		return nil
	}

	for _, symbol := range d.Symbols() {
		fmt.Fprintf(rc.stdout, "%s %s\n", symbol, schema.Float(d[symbol]))
	}
	return nil
}

// PresetCmd builds a preset bank from YAML definitions
type PresetCmd struct {
	SchemaFlags
	Defaults string `required:"" type:"existingfile" help:"Generated descriptor to take defaults from"`
	Defs     string `required:"" type:"existingfile" help:"YAML preset definitions"`
	OutDir   string `type:"path" default:"${out_dir}" help:"Directory the preset bank is written under"`
}

func (c *PresetCmd) Run(rc *runContext) error {
	s, _, err := c.load(rc.log)
	if err != nil {
		return err
	}
	d, err := defaults.Load(c.Defaults)
	if err != nil {
		return err
	}
	defs, err := preset.LoadDefinitions(c.Defs)
	if err != nil {
		return err
	}

	presets, err := preset.BuildAll(defs, d)
	if err != nil {
		return err
	}
	for _, p := range presets {
		if err := preset.Check(p, s); err != nil {
			return err
		}
	}

	var ttl bytes.Buffer
	if err := preset.WriteTTL(&ttl, presets, s); err != nil {
		return err
	}
	js, err := preset.MarshalJSON(presets, s)
	if err != nil {
		return err
	}

	ttlPath := filepath.Join(c.OutDir, "presets.ttl")
	jsonPath := filepath.Join(c.OutDir, "presets.json")
	if err := artifact.WriteAll([]artifact.File{
		{Path: ttlPath, Data: ttl.Bytes()},
		{Path: jsonPath, Data: js},
	}); err != nil {
		return err
	}

	rc.log.Info("presets written", logging.Fields{"presets": len(presets), "dir": c.OutDir})
	cli.PrintSummary(rc.stdout, s.Plugin.Name, []cli.Written{
		{Kind: "presets", Path: ttlPath, Rows: len(presets)},
		{Kind: "json", Path: jsonPath, Rows: len(presets)},
	})
	return nil
}

// ListCmd prints the port table
type ListCmd struct {
	SchemaFlags
	Group string `help:"Only list ports of this group"`
}

func (c *ListCmd) Run(rc *runContext) error {
	s, _, err := c.load(rc.log)
	if err != nil {
		return err
	}
	if c.Group != "" && !contains(s.Groups(), c.Group) {
		return fmt.Errorf("unknown group %q (have %s)", c.Group, strings.Join(s.Groups(), ", "))
	}
	fmt.Fprint(rc.stdout, logging.PortTable(s, c.Group).String())
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// InspectCmd opens the interactive port browser
type InspectCmd struct {
	SchemaFlags
}

func (c *InspectCmd) Run(rc *runContext) error {
	p := tea.NewProgram(c.browser(rc), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("UI error: %w", err)
	}

	m, ok := final.(ui.Model)
	if !ok {
		return nil
	}
	if m.Err != nil {
		return m.Err
	}
	if m.Schema != nil {
		rc.log.Info("schema browsed", logging.Fields{
			"plugin": m.Schema.Plugin.Name, "ports": len(m.Schema.Ports), "source": m.Source,
		})
	}
	return nil
}

// browser builds the port browser. Its loader runs while bubbletea owns the
// terminal, so it must not write to rc.log.
func (c *InspectCmd) browser(rc *runContext) ui.Model {
	return ui.NewModel(func() (*schema.Schema, string, error) {
		return c.load(logging.Discard())
	})
}

// DiffCmd compares a previous layout with the current schema
type DiffCmd struct {
	SchemaFlags
	Old string `arg:"" type:"existingfile" help:"Previous descriptor (.ttl) or port table (.yaml)"`
}

func (c *DiffCmd) Run(rc *runContext) error {
	before, err := loadRefs(c.Old)
	if err != nil {
		return err
	}
	s, _, err := c.load(rc.log)
	if err != nil {
		return err
	}

	changes := schema.Diff(before, s.Refs())
	if len(changes) == 0 {
		fmt.Fprintln(rc.stdout, "no port changes")
		return nil
	}
	for _, ch := range changes {
		fmt.Fprintln(rc.stdout, ch)
	}
	if schema.Breaking(changes) {
		return fmt.Errorf("%s: %w", c.Old, ErrBreakingChange)
	}
	return nil
}

// loadRefs reads index/symbol pairs from a descriptor or a YAML table
func loadRefs(path string) ([]schema.PortRef, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		t, err := schema.Load(path)
		if err != nil {
			return nil, err
		}
		s, err := schema.Allocate(t)
		if err != nil {
			return nil, err
		}
		return s.Refs(), nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open descriptor: %w", err)
		}
		defer f.Close()
		entries, err := defaults.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return defaults.Refs(entries), nil
	}
}

// VersionCmd prints the version
type VersionCmd struct{}

func (c *VersionCmd) Run(rc *runContext) error {
	cli.PrintVersion(rc.stdout, version)
	return nil
}
