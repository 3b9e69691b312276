package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// TAPFormatter formats traces in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer io.Writer
	traces []*Trace
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer: os.Stdout,
		traces: make([]*Trace, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatTrace(t *Trace) {
	f.traces = append(f.traces, t)
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are included in individual traces
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(_ time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", len(f.traces))

	for i, t := range f.traces {
		n := i + 1

		if t.Error != "" {
			fmt.Fprintf(f.writer, "not ok %d - %s\n", n, t.Name)
			fmt.Fprintf(f.writer, "  ---\n")
			fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(t.Error))
			fmt.Fprintf(f.writer, "  severity: error\n")
			fmt.Fprintf(f.writer, "  ...\n")
			continue
		}

		if t.Passed() {
			fmt.Fprintf(f.writer, "ok %d - %s\n", n, t.Name)
			continue
		}

		outcome := t.Outcome
		if outcome == "" {
			outcome = "none"
		}
		fmt.Fprintf(f.writer, "not ok %d - %s\n", n, t.Name)
		fmt.Fprintf(f.writer, "  ---\n")
		fmt.Fprintf(f.writer, "  outcome: %s\n", outcome)
		fmt.Fprintf(f.writer, "  events:\n")
		for _, e := range t.Events {
			fmt.Fprintf(f.writer, "    - %s\n", escapeYAML(fmt.Sprintf("%s %s @%dms", e.Target, e.Type, e.At)))
		}
		fmt.Fprintf(f.writer, "  ...\n")
	}

	fmt.Fprintln(f.writer)

	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
