package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidSchema is matched by every validation failure.
var ErrInvalidSchema = errors.New("invalid schema")

// ValidationError describes one authoring defect in a table.
type ValidationError struct {
	Symbol string // offending symbol or group, may be empty for table-level errors
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Symbol == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Symbol, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSchema
}

// ValidationErrors collects every defect found in one pass.
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("invalid schema: %s", strings.Join(msgs, "; "))
}

func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks a table before anything is emitted: bounds, defaults,
// identifiers and symbol uniqueness across the whole port layout.
func Validate(t Table) error {
	var errs ValidationErrors
	fail := func(symbol, format string, args ...any) {
		errs = append(errs, &ValidationError{Symbol: symbol, Reason: fmt.Sprintf(format, args...)})
	}

	if t.Version < 1 {
		fail("", "version must be at least 1, got %d", t.Version)
	}
	if !identifier.MatchString(t.Plugin.Name) {
		fail("", "plugin name %q is not an identifier", t.Plugin.Name)
	}
	if t.Plugin.URI == "" {
		fail("", "plugin URI is empty")
	}

	symbols := make(map[string]bool)
	for _, p := range FixedPorts {
		symbols[p.Symbol] = true
	}
	claim := func(symbol string) {
		if symbols[symbol] {
			fail(symbol, "duplicate symbol")
			return
		}
		symbols[symbol] = true
	}

	groups := make(map[string]bool)
	for _, g := range t.Groups {
		if !identifier.MatchString(g.Name) {
			fail(g.Name, "group name is not an identifier")
		}
		if groups[g.Name] {
			fail(g.Name, "duplicate group")
		}
		groups[g.Name] = true
		if g.Count < 1 {
			fail(g.Name, "count must be at least 1, got %d", g.Count)
		}
		if len(g.Controls) == 0 {
			fail(g.Name, "group has no controls")
		}
		for _, c := range g.Controls {
			validateDef(GroupSymbol(g.Name, 1, c.Suffix), c, fail)
			for i := 1; i <= g.Count; i++ {
				claim(GroupSymbol(g.Name, i, c.Suffix))
			}
		}
	}

	for _, c := range t.Globals {
		validateDef(c.Suffix, c, fail)
		claim(c.Suffix)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateDef(symbol string, c ControlDef, fail func(string, string, ...any)) {
	if !identifier.MatchString(c.Suffix) {
		fail(symbol, "suffix %q is not an identifier", c.Suffix)
	}
	switch {
	case c.Min.Value > c.Max.Value:
		fail(symbol, "minimum %s exceeds maximum %s", c.Min, c.Max)
	case c.Min.Value == c.Max.Value:
		// A zero range would derive a zero GUI step.
		fail(symbol, "empty range [%s, %s]", c.Min, c.Max)
	}
	if c.Default.Value < c.Min.Value || c.Default.Value > c.Max.Value {
		fail(symbol, "default %s outside [%s, %s]", c.Default, c.Min, c.Max)
	}
	if c.Step < 0 {
		fail(symbol, "negative step %g", c.Step)
	}
}
