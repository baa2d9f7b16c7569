package emit

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/linuxmatters/portgen/internal/schema"
)

var descriptorPreamble = template.Must(template.New("preamble").Parse(`@prefix atom:  <http://lv2plug.in/ns/ext/atom#> .
@prefix doap: <http://usefulinc.com/ns/doap#>.
@prefix foaf: <http://xmlns.com/foaf/0.1/> .
@prefix ll:   <http://ll-plugins.nongnu.org/lv2/namespace#>.
@prefix lv2:  <http://lv2plug.in/ns/lv2core#>.
@prefix pg:   <http://ll-plugins.nongnu.org/lv2/ext/portgroups#>.
@prefix rdf:  <http://www.w3.org/1999/02/22-rdf-syntax-ns#>.
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#>.
@prefix ui:    <http://lv2plug.in/ns/extensions/ui#>.
@prefix urid:  <http://lv2plug.in/ns/ext/urid#>.

<{{.URI}}/out> a pg:StereoGroup.

<{{.URI}}/ui>
  a ui:GtkUI ;
  ui:binary <{{.Name}}-gui.so>;
  lv2:requiredFeature urid:map .

<{{.URI}}>
  a lv2:Plugin, lv2:InstrumentPlugin;
  lv2:binary <{{.Name}}.so>;
  doap:name "{{.Name}}";
  doap:maintainer [
    a foaf:Person;
    foaf:name "{{.Maintainer}}";
    foaf:homepage <{{.Homepage}}>
  ];
  doap:license <{{.License}}>;
  ll:pegName "p";
  ui:ui <{{.URI}}/ui> ;

  lv2:port [
`))

// Descriptor renders the LV2 Turtle descriptor. Each port becomes one block
// whose shape (toggle, integer or continuous) follows schema.ShapeOf.
type Descriptor struct {
	uri   string
	first bool
}

func (d *Descriptor) Name() string { return "descriptor" }

func (d *Descriptor) Begin(w *bytes.Buffer, s *schema.Schema) error {
	d.uri = s.Plugin.URI
	d.first = true
	return descriptorPreamble.Execute(w, s.Plugin)
}

func (d *Descriptor) Port(w *bytes.Buffer, p schema.Port) (int, error) {
	if !d.first {
		w.WriteString("  ] , [\n")
	}
	d.first = false

	switch p.Type {
	case schema.PortControlEvent:
		fmt.Fprintf(w, `    a lv2:InputPort, atom:AtomPort;
    lv2:index %d ;
    atom:bufferType atom:Sequence;
    atom:supports <http://lv2plug.in/ns/ext/midi#MidiEvent>,
                  <http://lv2plug.in/ns/ext/patch#Message> ;
    lv2:symbol "%s" ;
    lv2:name "%s"
`, p.Index, p.Symbol, p.Name)

	case schema.PortAudioOutput:
		fmt.Fprintf(w, `    a lv2:AudioPort, lv2:OutputPort;
    lv2:index %d;
    lv2:symbol "%s";
    lv2:name "%s";
    pg:membership [
      pg:group <%s/out>;
      pg:role pg:%sChannel;
    ];
`, p.Index, p.Symbol, p.Name, d.uri, p.Symbol)

	case schema.PortControl:
		fmt.Fprintf(w, `    a lv2:ControlPort, lv2:InputPort;
    lv2:index %d;
    lv2:symbol "%s";
    lv2:name "%s";
`, p.Index, p.Symbol, p.Name)
		def := p.Def
		switch p.Shape() {
		case schema.ShapeToggle:
			fmt.Fprintf(w, "    lv2:minimum %s;\n    lv2:portProperty lv2:toggled\n", def.Min)
		case schema.ShapeInteger:
			fmt.Fprintf(w, "    lv2:minimum %s;\n    lv2:maximum %s;\n    lv2:default %s;\n    lv2:portProperty lv2:integer\n",
				def.Min, def.Max, def.Default)
		default:
			fmt.Fprintf(w, "    lv2:minimum %s;\n    lv2:maximum %s;\n    lv2:default %s\n",
				def.Min, def.Max, def.Default)
		}

	default:
		return 0, fmt.Errorf("unknown port type %d", p.Type)
	}
	return 1, nil
}

func (d *Descriptor) End(w *bytes.Buffer, s *schema.Schema) error {
	if len(s.Ports) == 0 {
		return fmt.Errorf("schema has no ports")
	}
	w.WriteString("  ] .\n")
	return nil
}
