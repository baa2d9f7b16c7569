package preset

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/linuxmatters/portgen/internal/schema"
)

// URI returns a stable URN for a preset of the plugin at pluginURI.
// The same plugin and name always give the same URN.
func URI(pluginURI, name string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(pluginURI+"#preset/"+name))
	return id.URN()
}

// MarshalJSON renders presets as a JSON array whose values follow port index
// order rather than key order, so diffs line up with the descriptor.
func MarshalJSON(presets []Preset, s *schema.Schema) ([]byte, error) {
	doc := "[]"
	for _, p := range presets {
		obj := "{}"
		var err error
		if obj, err = sjson.Set(obj, "name", p.Name); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		if obj, err = sjson.Set(obj, "uri", URI(s.Plugin.URI, p.Name)); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		if obj, err = sjson.SetRaw(obj, "values", "{}"); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		for _, port := range s.Controls() {
			v, ok := p.Values[port.Symbol]
			if !ok {
				continue
			}
			if obj, err = sjson.Set(obj, "values."+port.Symbol, v); err != nil {
				return nil, fmt.Errorf("preset %q: %s: %w", p.Name, port.Symbol, err)
			}
		}
		if doc, err = sjson.SetRaw(doc, "-1", obj); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return []byte(gjson.Get(doc, "@pretty").Raw), nil
}

// UnmarshalJSON reads presets written by MarshalJSON.
func UnmarshalJSON(data []byte) ([]Preset, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("presets: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("presets: expected a JSON array")
	}

	var presets []Preset
	var err error
	root.ForEach(func(_, item gjson.Result) bool {
		name := item.Get("name")
		if name.Type != gjson.String {
			err = fmt.Errorf("presets: entry %d has no name", len(presets))
			return false
		}
		p := Preset{Name: name.String(), Values: make(Values)}
		item.Get("values").ForEach(func(symbol, value gjson.Result) bool {
			if value.Type != gjson.Number {
				err = fmt.Errorf("preset %q: %s is not a number", p.Name, symbol.String())
				return false
			}
			p.Values[symbol.String()] = value.Float()
			return true
		})
		if err != nil {
			return false
		}
		presets = append(presets, p)
		return true
	})
	if err != nil {
		return nil, err
	}
	return presets, nil
}

const presetPrefixes = `@prefix atom: <http://lv2plug.in/ns/ext/atom#> .
@prefix lv2: <http://lv2plug.in/ns/lv2core#> .
@prefix pset: <http://lv2plug.in/ns/ext/presets#> .
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix state: <http://lv2plug.in/ns/ext/state#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
`

// WriteTTL renders an LV2 preset bank. Port values are listed in index order.
func WriteTTL(w io.Writer, presets []Preset, s *schema.Schema) error {
	var b strings.Builder
	b.WriteString(presetPrefixes)

	for _, p := range presets {
		fmt.Fprintf(&b, "\n<%s>\n  a pset:Preset ;\n  lv2:appliesTo <%s> ;\n  rdfs:label %s ;\n",
			URI(s.Plugin.URI, p.Name), s.Plugin.URI, turtleString(p.Name))

		first := true
		for _, port := range s.Controls() {
			v, ok := p.Values[port.Symbol]
			if !ok {
				continue
			}
			if first {
				b.WriteString("  lv2:port [\n")
				first = false
			} else {
				b.WriteString("  ] , [\n")
			}
			fmt.Fprintf(&b, "    lv2:symbol %s ;\n    pset:value %s\n", turtleString(port.Symbol), schema.Float(v))
		}
		if first {
			b.WriteString("  .\n")
		} else {
			b.WriteString("  ] .\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// turtleString quotes s as a Turtle string literal. Non-ASCII text stays as
// UTF-8; quotes, backslashes and control characters are escaped.
func turtleString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range strings.ToValidUTF8(s, "\uFFFD") {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
