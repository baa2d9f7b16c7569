package emit

import (
	"bytes"
	"fmt"

	"github.com/linuxmatters/portgen/internal/schema"
)

// PortEnum renders the p_<symbol> index constants shared by DSP and GUI code.
type PortEnum struct{}

func (e *PortEnum) Name() string { return "ports" }

func (e *PortEnum) Begin(w *bytes.Buffer, s *schema.Schema) error {
	guard := guardName(s.Plugin.Name) + "_PORTS"
	fmt.Fprintf(w, "#ifndef %s\n#define %s\n\nenum p_port_enum {\n", guard, guard)
	return nil
}

func (e *PortEnum) Port(w *bytes.Buffer, p schema.Port) (int, error) {
	fmt.Fprintf(w, "    p_%s = %d,\n", p.Symbol, p.Index)
	return 1, nil
}

func (e *PortEnum) End(w *bytes.Buffer, s *schema.Schema) error {
	fmt.Fprintf(w, "    p_n_ports = %d\n};\n\n#endif\n", len(s.Ports))
	return nil
}
