package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// truncate shortens long bodies for display
func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatTrace(t *Trace) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n\n", bold(t.Name))

	if t.Error != "" {
		fmt.Fprintf(f.writer, "  %s %s\n\n", red("x"), red(t.Error))
		return
	}

	for _, e := range t.Events {
		if e.Type == "readystatechange" && !f.verbose {
			continue
		}
		label := e.Type
		if e.Target == TargetUpload {
			label = "upload." + label
		}
		fmt.Fprintf(f.writer, "  %s %-22s %s", cyan(fmt.Sprintf("%5dms", e.At)), label, e.State)
		if e.Loaded > 0 || e.Total > 0 {
			fmt.Fprintf(f.writer, " %d/%d", e.Loaded, e.Total)
		}
		fmt.Fprintf(f.writer, "\n")
	}

	fmt.Fprintf(f.writer, "\n")
	switch t.Outcome {
	case "load":
		fmt.Fprintf(f.writer, "  %s %d %s\n", green("✓"), t.Status, t.StatusText)
	case "timeout", "abort":
		fmt.Fprintf(f.writer, "  %s %s\n", yellow("✗"), t.Outcome)
	default:
		fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), "no handler answered")
	}

	if f.verbose && t.Headers != "" {
		for _, line := range strings.Split(strings.TrimRight(t.Headers, "\r\n"), "\r\n") {
			fmt.Fprintf(f.writer, "    %s\n", line)
		}
	}
	if t.Body != "" {
		fmt.Fprintf(f.writer, "    %s\n", truncate(t.Body, 200))
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("xhrmock"), version)
}
