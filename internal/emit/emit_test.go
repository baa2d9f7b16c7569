package emit

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/linuxmatters/portgen/internal/schema"
)

func rogueArtifacts(t *testing.T) (*schema.Schema, map[string]Artifact) {
	t.Helper()
	s := schema.MustAllocate(schema.Rogue())
	arts, err := Generate(s, All()...)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	byName := make(map[string]Artifact, len(arts))
	for _, a := range arts {
		byName[a.Name] = a
	}
	return s, byName
}

var (
	descriptorSymbol = regexp.MustCompile(`lv2:symbol "([^"]+)"`)
	descriptorIndex  = regexp.MustCompile(`lv2:index (\d+)`)
	metadataSymbol   = regexp.MustCompile(`(?m)^    \{"([^"]+)",`)
	enumSymbol       = regexp.MustCompile(`(?m)^    p_(\w+) = (\d+),$`)
)

func TestArtifactsAreIndexAligned(t *testing.T) {
	s, arts := rogueArtifacts(t)

	descSymbols := descriptorSymbol.FindAllStringSubmatch(string(arts["descriptor"].Data), -1)
	descIndices := descriptorIndex.FindAllStringSubmatch(string(arts["descriptor"].Data), -1)
	metaSymbols := metadataSymbol.FindAllStringSubmatch(string(arts["metadata"].Data), -1)
	enumEntries := enumSymbol.FindAllStringSubmatch(string(arts["ports"].Data), -1)

	n := len(s.Ports)
	if len(descSymbols) != n || len(descIndices) != n || len(metaSymbols) != n || len(enumEntries) != n {
		t.Fatalf("record counts: descriptor %d/%d, metadata %d, enum %d, want %d",
			len(descSymbols), len(descIndices), len(metaSymbols), len(enumEntries), n)
	}

	for i, p := range s.Ports {
		if descSymbols[i][1] != p.Symbol {
			t.Errorf("descriptor[%d] = %q, want %q", i, descSymbols[i][1], p.Symbol)
		}
		if metaSymbols[i][1] != p.Symbol {
			t.Errorf("metadata[%d] = %q, want %q", i, metaSymbols[i][1], p.Symbol)
		}
		if enumEntries[i][1] != p.Symbol {
			t.Errorf("enum[%d] = %q, want %q", i, enumEntries[i][1], p.Symbol)
		}
	}

	for name, a := range arts {
		if a.Rows != n {
			t.Errorf("%s rows = %d, want %d", name, a.Rows, n)
		}
	}
}

func TestDescriptorIndicesStartAfterFixedPorts(t *testing.T) {
	_, arts := rogueArtifacts(t)

	matches := descriptorIndex.FindAllStringSubmatch(string(arts["descriptor"].Data), -1)
	for i, m := range matches {
		if m[1] != strconv.Itoa(i) {
			t.Fatalf("block %d has lv2:index %s", i, m[1])
		}
	}
	if !strings.Contains(string(arts["descriptor"].Data), "lv2:index 3;\n    lv2:symbol \"osc1_on\";") {
		t.Error("first control port is not osc1_on at index 3")
	}
}

func controlBlock(t *testing.T, def schema.ControlDef) string {
	t.Helper()
	s, err := schema.Allocate(schema.Table{
		Version: 2,
		Plugin:  schema.Plugin{Name: "test", URI: "http://example.org/test"},
		Globals: []schema.ControlDef{def},
	})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	arts, err := Generate(s, &Descriptor{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	doc := string(arts[0].Data)
	start := strings.Index(doc, `lv2:symbol "`+def.Suffix+`"`)
	if start < 0 {
		t.Fatalf("no block for %s in:\n%s", def.Suffix, doc)
	}
	return doc[start:]
}

func TestDescriptorShapes(t *testing.T) {
	tests := []struct {
		name    string
		def     schema.ControlDef
		want    string
		without []string
	}{
		{
			name:    "toggle",
			def:     schema.ControlDef{Suffix: "on", Min: schema.Int(0), Max: schema.Int(1), Default: schema.Int(0)},
			want:    "lv2:name \"on\";\n    lv2:minimum 0;\n    lv2:portProperty lv2:toggled\n  ] .\n",
			without: []string{"lv2:maximum", "lv2:default"},
		},
		{
			name: "integer",
			def:  schema.ControlDef{Suffix: "type", Min: schema.Int(0), Max: schema.Int(11), Default: schema.Int(0)},
			want: "lv2:minimum 0;\n    lv2:maximum 11;\n    lv2:default 0;\n    lv2:portProperty lv2:integer\n  ] .\n",
		},
		{
			name:    "continuous",
			def:     schema.ControlDef{Suffix: "bend_range", Min: schema.Int(0), Max: schema.Float(12.0), Default: schema.Int(0)},
			want:    "lv2:minimum 0;\n    lv2:maximum 12.0;\n    lv2:default 0\n  ] .\n",
			without: []string{"lv2:portProperty"},
		},
		{
			name: "negative_integer",
			def:  schema.ControlDef{Suffix: "coarse", Min: schema.Int(-48), Max: schema.Int(48), Default: schema.Int(0)},
			want: "lv2:minimum -48;\n    lv2:maximum 48;\n    lv2:default 0;\n    lv2:portProperty lv2:integer\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := controlBlock(t, tt.def)
			if !strings.Contains(block, tt.want) {
				t.Errorf("block = %q, want it to contain %q", block, tt.want)
			}
			for _, absent := range tt.without {
				if strings.Contains(block, absent) {
					t.Errorf("block contains %q:\n%s", absent, block)
				}
			}
		})
	}
}

func TestDescriptorPreambleUsesPluginIdentity(t *testing.T) {
	_, arts := rogueArtifacts(t)
	doc := string(arts["descriptor"].Data)

	for _, want := range []string{
		"<http://www.github.com/timowest/rogue>\n  a lv2:Plugin, lv2:InstrumentPlugin;",
		"lv2:binary <rogue.so>;",
		"ui:binary <rogue-gui.so>;",
		"pg:group <http://www.github.com/timowest/rogue/out>;\n      pg:role pg:rightChannel;",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("descriptor missing %q", want)
		}
	}
	if strings.Count(doc, "] .\n") != 1 || !strings.HasSuffix(doc, "  ] .\n") {
		t.Error("descriptor must end with exactly one statement terminator")
	}
}

func TestMetadataLayouts(t *testing.T) {
	s := schema.MustAllocate(schema.Rogue())

	tests := []struct {
		name   string
		layout Layout
		want   []string
	}{
		{
			name:   "stepped",
			layout: LayoutAuto,
			want: []string{
				"#ifndef ROGUE_META\n#define ROGUE_META\n\n#define ROGUE_META_VERSION 2\n",
				"    float step;\n} port_meta_t;",
				`    {"control", 0, 0, 0, 0},`,
				`    {"osc1_on", 0, 1, 0, 1.0},`,
				`    {"osc1_ratio", 0, 16.0, 1, 0.25},`,
				`    {"osc1_fine", -1.0, 1.0, 0, 0.02},`,
				`    {"filter1_freq", 0, 20000.0, 440.0, 1.0},`,
				`    {"bend_range", 0, 12.0, 0, 0.12},`,
			},
		},
		{
			name:   "typed",
			layout: LayoutTyped,
			want: []string{
				"enum {KNOB, KNOB_M, KNOB_S, TOGGLE, SELECT};",
				"    int type;\n} port_meta_t;",
				`    {"right", 0, 0, 0, KNOB},`,
				`    {"osc1_on", 0, 1, 0, TOGGLE},`,
				`    {"osc1_type", 0, 9, 0, SELECT},`,
				`    {"osc1_coarse", -48, 48, 0, KNOB},`,
				`    {"osc1_level", 0, 1.0, 0, KNOB_M},`,
				`    {"mod1_amount", -1.0, 1.0, 0, KNOB_M},`,
				`    {"bend_range", 0, 12.0, 0, KNOB},`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arts, err := Generate(s, &Metadata{Layout: tt.layout})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			doc := string(arts[0].Data)
			for _, want := range tt.want {
				if !strings.Contains(doc, want) {
					t.Errorf("metadata missing %q", want)
				}
			}
			if !strings.HasSuffix(doc, "};\n\n#endif\n") {
				t.Errorf("metadata does not close its guard:\n%s", doc[len(doc)-40:])
			}
		})
	}
}

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		version int
		want    Layout
	}{
		{1, LayoutTyped},
		{2, LayoutStepped},
		{7, LayoutStepped},
	}
	for _, tt := range tests {
		if got := LayoutFor(tt.version); got != tt.want {
			t.Errorf("LayoutFor(%d) = %v, want %v", tt.version, got, tt.want)
		}
	}
}

func TestPortEnum(t *testing.T) {
	_, arts := rogueArtifacts(t)
	doc := string(arts["ports"].Data)

	for _, want := range []string{
		"#ifndef ROGUE_PORTS\n",
		"    p_control = 0,\n",
		"    p_osc1_on = 3,\n",
		"    p_bend_range = 212,\n",
		"    p_n_ports = 213\n};\n",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("port enum missing %q", want)
		}
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	_, first := rogueArtifacts(t)
	_, second := rogueArtifacts(t)

	for name, a := range first {
		if !bytes.Equal(a.Data, second[name].Data) {
			t.Errorf("%s differs between runs", name)
		}
	}
}

type droppingEmitter struct{ PortEnum }

func (d *droppingEmitter) Name() string { return "dropping" }

func (d *droppingEmitter) Port(w *bytes.Buffer, p schema.Port) (int, error) {
	if p.Index == 5 {
		return 0, errors.New("cannot render")
	}
	return d.PortEnum.Port(w, p)
}

// skippingEmitter silently writes nothing for the port at index skip.
type skippingEmitter struct {
	PortEnum
	skip int
}

func (e *skippingEmitter) Name() string { return "skipping" }

func (e *skippingEmitter) Port(w *bytes.Buffer, p schema.Port) (int, error) {
	if p.Index == e.skip {
		return 0, nil
	}
	return e.PortEnum.Port(w, p)
}

func TestGenerateFailsWithoutPartialOutput(t *testing.T) {
	s := schema.MustAllocate(schema.Rogue())

	arts, err := Generate(s, &Descriptor{}, &droppingEmitter{})
	if err == nil {
		t.Fatal("Generate() error = nil, want failure")
	}
	if arts != nil {
		t.Errorf("Generate() returned %d artifacts on failure", len(arts))
	}
	if !strings.Contains(err.Error(), `dropping: port "osc1_inv"`) {
		t.Errorf("error = %v, want it to name the failing port", err)
	}
}

func TestGenerateRejectsSkippedRecord(t *testing.T) {
	s := schema.MustAllocate(schema.Rogue())

	arts, err := Generate(s, &Descriptor{}, &Metadata{}, &skippingEmitter{skip: 5})
	if !errors.Is(err, ErrMisaligned) {
		t.Fatalf("Generate() error = %v, want ErrMisaligned", err)
	}
	if arts != nil {
		t.Errorf("Generate() returned %d artifacts on failure", len(arts))
	}
	if !strings.Contains(err.Error(), `skipping wrote 0 records for port "osc1_inv"`) {
		t.Errorf("error = %v, want it to name the skipped port", err)
	}
}

func TestGenerateRowsMatchPorts(t *testing.T) {
	s, arts := rogueArtifacts(t)
	for name, a := range arts {
		if a.Rows != len(s.Ports) {
			t.Errorf("%s: Rows = %d, want %d", name, a.Rows, len(s.Ports))
		}
	}
}

func TestGenerateRejectsGaps(t *testing.T) {
	s := schema.MustAllocate(schema.Rogue())
	broken := *s
	broken.Ports = append([]schema.Port{}, s.Ports...)
	broken.Ports[10].Index = 99

	if _, err := Generate(&broken, All()...); !errors.Is(err, ErrMisaligned) {
		t.Errorf("Generate() error = %v, want ErrMisaligned", err)
	}
}

func TestGuardName(t *testing.T) {
	tests := []struct {
		plugin string
		want   string
	}{
		{"rogue", "ROGUE"},
		{"my_synth2", "MY_SYNTH2"},
		{"a-b", "A_B"},
	}
	for _, tt := range tests {
		if got := guardName(tt.plugin); got != tt.want {
			t.Errorf("guardName(%q) = %q, want %q", tt.plugin, got, tt.want)
		}
	}
}
