package output

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary JSONSummary `json:"summary"`
	Calls   []*Trace    `json:"calls"`
	Errors  []string    `json:"errors,omitempty"`
	Time    string      `json:"time"`
}

// JSONSummary counts calls by outcome
type JSONSummary struct {
	Total   int `json:"total"`
	Loaded  int `json:"loaded"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
}

// JSONFormatter formats traces as JSON
type JSONFormatter struct {
	writer io.Writer
	traces []*Trace
	errors []string
	now    func() time.Time
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		traces: make([]*Trace, 0),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatTrace(t *Trace) {
	f.traces = append(f.traces, t)
}

func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(_ time.Duration) error {
	var summary JSONSummary
	for _, t := range f.traces {
		summary.Total++
		switch {
		case t.Error != "":
			summary.Errored++
		case t.Passed():
			summary.Loaded++
		default:
			summary.Failed++
		}
	}

	output := JSONOutput{
		Summary: summary,
		Calls:   f.traces,
		Errors:  f.errors,
		Time:    f.now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
