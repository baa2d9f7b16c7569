package schema

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a numeric bound as written in the control table.
// Integer records whether the literal was an integer, which decides the
// port shape (an integer maximum makes a port stepped) and how the value is
// rendered in generated artifacts.
type Number struct {
	Value   float64
	Integer bool
}

// Int returns an integer-valued Number.
func Int(v int) Number {
	return Number{Value: float64(v), Integer: true}
}

// Float returns a float-valued Number.
func Float(v float64) Number {
	return Number{Value: v}
}

// String renders integers without a fractional part and floats always with one,
// e.g. "9", "12.0", "0.5".
func (n Number) String() string {
	if n.Integer {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	s := strconv.FormatFloat(n.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// UnmarshalYAML keeps the integer/float distinction of the YAML scalar tag.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}

	switch node.ShortTag() {
	case "!!int":
		v, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*n = Number{Value: float64(v), Integer: true}
	case "!!float":
		v, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*n = Number{Value: v}
	default:
		return fmt.Errorf("line %d: %q is not a number", node.Line, node.Value)
	}
	return nil
}

// num converts an untyped constant from the built-in table.
func num(v any) Number {
	switch v := v.(type) {
	case int:
		return Int(v)
	case float64:
		return Float(v)
	default:
		panic(fmt.Sprintf("schema: unsupported bound type %T", v))
	}
}
