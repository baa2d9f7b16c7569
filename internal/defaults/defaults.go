// Package defaults reads a generated LV2 descriptor back into port records
// and recovers the default value of every control port.
package defaults

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/linuxmatters/portgen/internal/schema"
)

var (
	// ErrMissingField is matched by every ExtractionError.
	ErrMissingField = errors.New("missing field")
	// ErrDuplicateSymbol means two port blocks share a symbol.
	ErrDuplicateSymbol = errors.New("duplicate symbol")
)

// ExtractionError names the port whose block lacks a required statement.
type ExtractionError struct {
	Symbol string // empty when the symbol itself is missing
	Index  int
	Field  string
}

func (e *ExtractionError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("port %d: missing %s", e.Index, e.Field)
	}
	return fmt.Sprintf("port %q: missing %s", e.Symbol, e.Field)
}

func (e *ExtractionError) Unwrap() error {
	return ErrMissingField
}

// Entry is one port block of a descriptor.
type Entry struct {
	Index   int
	Symbol  string
	Name    string
	Control bool
	Minimum *float64
	Maximum *float64
	Default *float64
	Toggled bool
	Integer bool
}

// Defaults maps control port symbols to their default values.
type Defaults map[string]float64

// Parse reads the port blocks of a descriptor in document order. It only
// understands the statement layout the descriptor emitter writes.
func Parse(r io.Reader) ([]Entry, error) {
	var (
		entries []Entry
		cur     *Entry
		hasIdx  bool
		nest    int
		lineNo  int
	)

	finish := func() error {
		if !hasIdx {
			return &ExtractionError{Symbol: cur.Symbol, Index: -1, Field: "lv2:index"}
		}
		if cur.Symbol == "" {
			return &ExtractionError{Index: cur.Index, Field: "lv2:symbol"}
		}
		entries = append(entries, *cur)
		cur = nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if cur == nil {
			if types, ok := strings.CutPrefix(line, "a "); ok && isPortType(types) {
				cur = &Entry{Control: strings.Contains(types, "lv2:ControlPort")}
				hasIdx = false
				nest = 0
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "]"):
			if nest > 0 {
				nest--
				continue
			}
			if err := finish(); err != nil {
				return nil, err
			}
			continue
		case strings.HasSuffix(line, "["):
			nest++
			continue
		case nest > 0:
			continue
		}

		key, value, ok := statement(line)
		if !ok {
			continue
		}
		var err error
		switch key {
		case "lv2:index":
			cur.Index, err = strconv.Atoi(value)
			hasIdx = err == nil
		case "lv2:symbol":
			cur.Symbol = strings.Trim(value, `"`)
		case "lv2:name":
			cur.Name = strings.Trim(value, `"`)
		case "lv2:minimum":
			cur.Minimum, err = parseFloat(value)
		case "lv2:maximum":
			cur.Maximum, err = parseFloat(value)
		case "lv2:default":
			cur.Default, err = parseFloat(value)
		case "lv2:portProperty":
			cur.Toggled = cur.Toggled || value == "lv2:toggled"
			cur.Integer = cur.Integer || value == "lv2:integer"
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	if cur != nil {
		return nil, fmt.Errorf("line %d: unterminated port block", lineNo)
	}
	return entries, nil
}

// isPortType reports whether an rdf:type list names an LV2 port class.
func isPortType(types string) bool {
	for _, t := range strings.Split(types, ",") {
		t = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(t), ";"))
		if strings.HasSuffix(t, "Port") {
			return true
		}
	}
	return false
}

// statement splits "lv2:minimum 0;" into its predicate and object.
func statement(line string) (string, string, bool) {
	line = strings.TrimSpace(strings.TrimSuffix(line, ";"))
	key, value, ok := strings.Cut(line, " ")
	if !ok {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func parseFloat(s string) (*float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FromEntries returns the default of every control entry. Toggles without an
// explicit default are 0; any other control without one is an error, as is a
// symbol used by more than one port.
func FromEntries(entries []Entry) (Defaults, error) {
	d := make(Defaults)
	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		if first, ok := seen[e.Symbol]; ok && e.Symbol != "" {
			return nil, fmt.Errorf("port %q at indices %d and %d: %w", e.Symbol, first, e.Index, ErrDuplicateSymbol)
		}
		seen[e.Symbol] = e.Index
		if !e.Control {
			continue
		}
		switch {
		case e.Default != nil:
			d[e.Symbol] = *e.Default
		case e.Toggled:
			d[e.Symbol] = 0
		default:
			return nil, &ExtractionError{Symbol: e.Symbol, Index: e.Index, Field: "lv2:default"}
		}
	}
	return d, nil
}

// Extract parses a descriptor and returns its control defaults.
func Extract(r io.Reader) (Defaults, error) {
	entries, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return FromEntries(entries)
}

// Load extracts defaults from the descriptor file at path.
func Load(path string) (Defaults, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open descriptor: %w", err)
	}
	defer f.Close()

	d, err := Extract(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Refs returns the index/symbol pairs of the entries, sorted by index.
func Refs(entries []Entry) []schema.PortRef {
	refs := make([]schema.PortRef, len(entries))
	for i, e := range entries {
		refs[i] = schema.PortRef{Index: e.Index, Symbol: e.Symbol}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Index < refs[j].Index })
	return refs
}

// Symbols returns the keys of d in sorted order.
func (d Defaults) Symbols() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
