package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/linuxmatters/portgen/internal/schema"
)

func TestLoggerFormat(t *testing.T) {
	tests := []struct {
		name string
		log  func(l *Logger)
		want string
	}{
		{
			name: "info sorted fields",
			log:  func(l *Logger) { l.Info("generated", Fields{"ports": 213, "plugin": "rogue"}) },
			want: "[INFO] generated plugin=rogue ports=213\n",
		},
		{
			name: "warn no fields",
			log:  func(l *Logger) { l.Warn("schema from environment", nil) },
			want: "[WARN] schema from environment\n",
		},
		{
			name: "error quotes spaced values",
			log: func(l *Logger) {
				l.Error("write failed", errors.New("disk full"), Fields{"path": "src/my file.gen"})
			},
			want: "[ERROR] write failed: disk full path=\"src/my file.gen\"\n",
		},
		{
			name: "debug",
			log:  func(l *Logger) { l.Debugf("emitter %s: %d rows", "metadata", 213) },
			want: "[DEBUG] emitter metadata: 213 rows\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(New(&buf, true))
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoggerDebugDisabled(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("debug line written while disabled: %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"plain string", "rogue", "rogue"},
		{"spaced string", "a b", `"a b"`},
		{"float", 0.25, "0.25"},
		{"int", 42, "42"},
		{"error", errors.New("boom"), `"boom"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.value); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestTableString(t *testing.T) {
	table := &Table{Label: "Name", Headers: []string{"A", "Long"}}
	table.AddRow("x", []string{"1", "22"}, "")
	table.AddRow("longer", []string{"333"}, "short row")

	want := "" +
		"Name      A  Long  Note\n" +
		"x         1    22\n" +
		"longer  333     -  short row\n"
	if got := table.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableEmpty(t *testing.T) {
	if got := NewPortTable().String(); got != "" {
		t.Errorf("empty table rendered %q", got)
	}
}

func TestPortTable(t *testing.T) {
	s := schema.MustAllocate(schema.Rogue())

	out := PortTable(s, "").String()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if got, want := len(lines), len(s.Ports)+1; got != want {
		t.Fatalf("got %d lines, want %d", got, want)
	}
	if !strings.HasPrefix(lines[0], "Symbol") {
		t.Errorf("header = %q", lines[0])
	}

	tests := []struct {
		line   int
		fields []string
	}{
		{1, []string{"control", "0", "-", "-", "-", "-", "-", "-", "event", "input"}},
		{2, []string{"left", "1", "-", "-", "-", "-", "-", "-", "audio", "output"}},
		{4, []string{"osc1_on", "3", "toggle", "toggle", "0", "1", "0", "1.0"}},
		{5, []string{"osc1_type", "4", "select", "integer", "0", "9", "0", "1.0"}},
		{213, []string{"bend_range", "212", "knob", "continuous", "0", "12.0", "0", "0.12"}},
	}
	for _, tt := range tests {
		got := strings.Fields(lines[tt.line])
		if strings.Join(got, " ") != strings.Join(tt.fields, " ") {
			t.Errorf("line %d = %v, want %v", tt.line, got, tt.fields)
		}
	}
}

func TestPortTableGroupFilter(t *testing.T) {
	s := schema.MustAllocate(schema.Rogue())

	out := PortTable(s, "lfo").String()
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n")[1:] {
		if !strings.HasPrefix(line, "lfo") {
			t.Errorf("unexpected row %q", line)
		}
	}
	if got, want := strings.Count(out, "\n"), 1+3*9; got != want {
		t.Errorf("got %d lines, want %d", got, want)
	}
}
