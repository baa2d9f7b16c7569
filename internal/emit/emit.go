// Package emit renders an allocated schema into the plugin's generated
// artifacts. Every emitter is driven by the same single pass over the ports,
// so the artifacts cannot disagree on order.
package emit

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/linuxmatters/portgen/internal/schema"
)

// ErrMisaligned means an emitter produced a different number of port records
// than the schema has ports.
var ErrMisaligned = errors.New("emitters are not index aligned")

// Emitter renders one artifact, one port at a time.
type Emitter interface {
	// Name identifies the artifact, e.g. "descriptor".
	Name() string
	Begin(w *bytes.Buffer, s *schema.Schema) error
	// Port writes the record for p and reports how many records it wrote,
	// which must be exactly one.
	Port(w *bytes.Buffer, p schema.Port) (int, error)
	End(w *bytes.Buffer, s *schema.Schema) error
}

// Artifact is the rendered output of one emitter.
type Artifact struct {
	Name string
	Data []byte
	Rows int
}

// Generate runs all emitters over s in lockstep. Either every artifact is
// produced or an error is returned and nothing is.
func Generate(s *schema.Schema, emitters ...Emitter) ([]Artifact, error) {
	bufs := make([]*bytes.Buffer, len(emitters))
	rows := make([]int, len(emitters))

	for i, e := range emitters {
		bufs[i] = new(bytes.Buffer)
		if err := e.Begin(bufs[i], s); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
	}

	for i, p := range s.Ports {
		if p.Index != i {
			return nil, fmt.Errorf("port %q has index %d at position %d: %w", p.Symbol, p.Index, i, ErrMisaligned)
		}
		for j, e := range emitters {
			n, err := e.Port(bufs[j], p)
			if err != nil {
				return nil, fmt.Errorf("%s: port %q: %w", e.Name(), p.Symbol, err)
			}
			if n != 1 {
				return nil, fmt.Errorf("%s wrote %d records for port %q: %w", e.Name(), n, p.Symbol, ErrMisaligned)
			}
			rows[j] += n
		}
	}

	artifacts := make([]Artifact, len(emitters))
	for i, e := range emitters {
		if err := e.End(bufs[i], s); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if rows[i] != len(s.Ports) {
			return nil, fmt.Errorf("%s wrote %d rows for %d ports: %w", e.Name(), rows[i], len(s.Ports), ErrMisaligned)
		}
		artifacts[i] = Artifact{Name: e.Name(), Data: bufs[i].Bytes(), Rows: rows[i]}
	}
	return artifacts, nil
}

// All returns the standard artifact set: descriptor, metadata table and port enum.
func All() []Emitter {
	return []Emitter{&Descriptor{}, &Metadata{}, &PortEnum{}}
}

// guardName turns a plugin name into a C preprocessor identifier prefix.
func guardName(plugin string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, plugin)
}
