package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/portgen/internal/config"
	"github.com/linuxmatters/portgen/internal/logging"
	"github.com/linuxmatters/portgen/internal/ui"
)

const smallTable = `version: 1
plugin:
  name: tiny
  uri: http://example.org/tiny
groups:
  - name: osc
    count: 2
    controls:
      - {suffix: on, min: 0, max: 1, default: 0}
      - {suffix: level, min: 0, max: 1.0, default: 0.5}
globals:
  - {suffix: volume, min: 0, max: 1.0, default: 0.5}
`

func testContext(t *testing.T) (*runContext, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &runContext{cfg: config.Load(), log: logging.Discard(), stdout: &out}, &out
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func generate(t *testing.T, dir string, flags SchemaFlags) {
	t.Helper()
	rc, _ := testContext(t)
	cmd := &GenerateCmd{
		SchemaFlags: flags,
		OutDir:      dir,
		Metadata:    filepath.Join("src", "gui", "config.gen"),
	}
	require.NoError(t, cmd.Run(rc))
}

func TestGenerateBuiltIn(t *testing.T) {
	dir := t.TempDir()
	rc, out := testContext(t)

	cmd := &GenerateCmd{OutDir: dir, Metadata: filepath.Join("src", "gui", "config.gen")}
	require.NoError(t, cmd.Run(rc))

	for _, rel := range []string{"rogue.ttl", "src/gui/config.gen", "src/rogue.gen"} {
		_, err := os.Stat(filepath.Join(dir, rel))
		assert.NoError(t, err, rel)
	}
	assert.Contains(t, out.String(), "(213 rows)")

	enum, err := os.ReadFile(filepath.Join(dir, "src", "rogue.gen"))
	require.NoError(t, err)
	assert.Contains(t, string(enum), "p_osc1_on = 3,")
	assert.Contains(t, string(enum), "p_n_ports = 213")
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	rc, out := testContext(t)

	cmd := &GenerateCmd{OutDir: dir, Metadata: "config.gen", DryRun: true}
	require.NoError(t, cmd.Run(rc))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Contains(t, out.String(), "descriptor")
}

func TestGenerateFromYAMLWithOverrides(t *testing.T) {
	dir := t.TempDir()
	table := writeFile(t, dir, "tiny.yaml", smallTable)

	generate(t, dir, SchemaFlags{Schema: table, Plugin: "small", URI: "http://example.org/small"})

	ttl, err := os.ReadFile(filepath.Join(dir, "small.ttl"))
	require.NoError(t, err)
	assert.Contains(t, string(ttl), "<http://example.org/small>")

	meta, err := os.ReadFile(filepath.Join(dir, "src", "gui", "config.gen"))
	require.NoError(t, err)
	assert.Contains(t, string(meta), "KNOB_M", "version 1 tables use the typed layout")
}

func TestGenerateRejectsInvalidTable(t *testing.T) {
	dir := t.TempDir()
	table := writeFile(t, dir, "bad.yaml", strings.Replace(smallTable, "default: 0.5}\nglobals", "default: 2.0}\nglobals", 1))
	rc, _ := testContext(t)

	err := (&GenerateCmd{SchemaFlags: SchemaFlags{Schema: table}, OutDir: dir, Metadata: "config.gen"}).Run(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "osc1_level")

	_, statErr := os.Stat(filepath.Join(dir, "tiny.ttl"))
	assert.True(t, os.IsNotExist(statErr), "no artifact written for an invalid table")
}

func TestDefaults(t *testing.T) {
	dir := t.TempDir()
	generate(t, dir, SchemaFlags{})
	descriptor := filepath.Join(dir, "rogue.ttl")

	rc, out := testContext(t)
	require.NoError(t, (&DefaultsCmd{Descriptor: descriptor}).Run(rc))
	assert.Contains(t, out.String(), "filter1_freq 440.0\n")
	assert.Contains(t, out.String(), "volume 0.5\n")
	assert.Equal(t, 210, strings.Count(out.String(), "\n"))

	rc, out = testContext(t)
	require.NoError(t, (&DefaultsCmd{Descriptor: descriptor, JSON: true}).Run(rc))
	assert.Contains(t, out.String(), `"volume": 0.5`)
}

func TestPreset(t *testing.T) {
	dir := t.TempDir()
	generate(t, dir, SchemaFlags{})
	defs := writeFile(t, dir, "presets.yaml", `
presets:
  - name: bright
    parts:
      - group: osc
        instance: 1
        values: {type: 1}
      - group: filter
        instance: 1
        values: {freq: 5000}
`)

	rc, out := testContext(t)
	cmd := &PresetCmd{Defaults: filepath.Join(dir, "rogue.ttl"), Defs: defs, OutDir: filepath.Join(dir, "presets")}
	require.NoError(t, cmd.Run(rc))
	assert.Contains(t, out.String(), "presets.ttl")

	ttl, err := os.ReadFile(filepath.Join(dir, "presets", "presets.ttl"))
	require.NoError(t, err)
	assert.Contains(t, string(ttl), "rdfs:label \"bright\"")
	assert.Contains(t, string(ttl), "lv2:symbol \"filter1_freq\" ;\n    pset:value 5000.0")

	_, err = os.Stat(filepath.Join(dir, "presets", "presets.json"))
	assert.NoError(t, err)
}

func TestPresetOutOfRange(t *testing.T) {
	dir := t.TempDir()
	generate(t, dir, SchemaFlags{})
	defs := writeFile(t, dir, "presets.yaml", "presets:\n  - name: loud\n    parts:\n      - values: {volume: 3.0}\n")

	rc, _ := testContext(t)
	err := (&PresetCmd{Defaults: filepath.Join(dir, "rogue.ttl"), Defs: defs, OutDir: dir}).Run(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "volume")
}

func TestList(t *testing.T) {
	rc, out := testContext(t)
	require.NoError(t, (&ListCmd{Group: "env"}).Run(rc))
	assert.Equal(t, 1+5*8, strings.Count(out.String(), "\n"))

	rc, _ = testContext(t)
	err := (&ListCmd{Group: "reverb"}).Run(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown group "reverb"`)
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	table := writeFile(t, dir, "tiny.yaml", smallTable)
	generate(t, dir, SchemaFlags{Schema: table})
	descriptor := filepath.Join(dir, "tiny.ttl")

	t.Run("unchanged", func(t *testing.T) {
		rc, out := testContext(t)
		require.NoError(t, (&DiffCmd{SchemaFlags: SchemaFlags{Schema: table}, Old: descriptor}).Run(rc))
		assert.Equal(t, "no port changes\n", out.String())
	})

	t.Run("appended global is compatible", func(t *testing.T) {
		grown := writeFile(t, dir, "grown.yaml", smallTable+"  - {suffix: glide, min: 0, max: 5.0, default: 0}\n")
		rc, out := testContext(t)
		require.NoError(t, (&DiffCmd{SchemaFlags: SchemaFlags{Schema: grown}, Old: table}).Run(rc))
		assert.Equal(t, "+ glide (index 8)\n", out.String())
	})

	t.Run("extra instance is breaking", func(t *testing.T) {
		wider := writeFile(t, dir, "wider.yaml", strings.Replace(smallTable, "count: 2", "count: 3", 1))
		rc, out := testContext(t)
		err := (&DiffCmd{SchemaFlags: SchemaFlags{Schema: wider}, Old: descriptor}).Run(rc)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBreakingChange))
		assert.Contains(t, out.String(), "~ volume (index 7 -> 9)")
	})
}

func TestInspectLoaderDoesNotLog(t *testing.T) {
	var logged bytes.Buffer
	rc := &runContext{cfg: config.Load(), log: logging.New(&logged, true), stdout: &bytes.Buffer{}}

	m := (&InspectCmd{}).browser(rc)
	msg := m.Init()()

	loaded, ok := msg.(ui.SchemaLoadedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Len(t, loaded.Schema.Ports, 213)
	assert.Empty(t, logged.String())
}

func TestVersion(t *testing.T) {
	rc, out := testContext(t)
	require.NoError(t, (&VersionCmd{}).Run(rc))
	assert.Contains(t, out.String(), version)
}
