package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/getsentry/sentry-go"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger writes "[LEVEL] msg key=value" lines. When the current Sentry hub has
// a client, entries are also recorded as breadcrumbs and errors captured.
type Logger struct {
	mu    sync.Mutex
	w     io.Writer
	debug bool
}

// New returns a Logger writing to w. Debug lines are written only when debug
// is set.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{w: w, debug: debug}
}

// Discard returns a Logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, false)
}

// Info logs an informational message with structured fields
func (l *Logger) Info(msg string, fields Fields) {
	l.write("INFO", msg, fields)
	breadcrumb("info", sentry.LevelInfo, msg, fields)
}

// Warn logs a warning message with structured fields
func (l *Logger) Warn(msg string, fields Fields) {
	l.write("WARN", msg, fields)
	breadcrumb("warning", sentry.LevelWarning, msg, fields)
}

// Error logs an error with structured fields and sends it to Sentry
func (l *Logger) Error(msg string, err error, fields Fields) {
	l.write("ERROR", fmt.Sprintf("%s: %v", msg, err), fields)

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for key, value := range fields {
				scope.SetContext(key, map[string]interface{}{
					"value": value,
				})
			}
			if plugin, ok := fields["plugin"].(string); ok {
				scope.SetTag("plugin", plugin)
			}
			hub.CaptureException(err)
		})
	}
}

// Debugf writes a printf-style debug line.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.write("DEBUG", fmt.Sprintf(format, args...), nil)
}

func (l *Logger) write(level, msg string, fields Fields) {
	line := "[" + level + "] " + msg
	if f := formatFields(fields); f != "" {
		line += " " + f
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, line)
}

func breadcrumb(kind string, level sentry.Level, msg string, fields Fields) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     kind,
			Category: "log",
			Message:  msg,
			Data:     map[string]interface{}(fields),
			Level:    level,
		}, nil)
	}
}

// formatFields renders fields as key=value pairs in key order.
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + formatValue(fields[k])
	}
	return strings.Join(parts, " ")
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t\"=") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	case error:
		return fmt.Sprintf("%q", val.Error())
	default:
		return fmt.Sprintf("%v", val)
	}
}
