package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite groups the calls of one run
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase is one simulated call. Time is the virtual time the call
// spanned, not wall time.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

// JUnitFailure is a call that settled on anything but load
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError is a call stopped by a synchronous error, or a run that could
// not start
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter formats traces as JUnit XML
type JUnitFormatter struct {
	writer io.Writer
	traces []*Trace
	errors []string
	now    func() time.Time
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
		traces: make([]*Trace, 0),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatTrace(t *Trace) {
	f.traces = append(f.traces, t)
}

// FormatError records a run error as an errored test case
func (f *JUnitFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// span returns the virtual time between the first and last event of t
func span(t *Trace) time.Duration {
	if len(t.Events) == 0 {
		return 0
	}
	ms := t.Events[len(t.Events)-1].At - t.Events[0].At
	return time.Duration(ms) * time.Millisecond
}

func eventLines(t *Trace) string {
	var b strings.Builder
	for _, e := range t.Events {
		fmt.Fprintf(&b, "%6dms %-6s %-16s %s", e.At, e.Target, e.Type, e.State)
		if e.Loaded > 0 || e.Total > 0 {
			fmt.Fprintf(&b, " %d/%d", e.Loaded, e.Total)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func testCase(t *Trace) JUnitTestCase {
	tc := JUnitTestCase{
		Name:      t.Name,
		ClassName: "xhrmock." + strings.ToLower(t.Method),
		Time:      span(t).Seconds(),
	}
	if t.Method == "" {
		tc.ClassName = "xhrmock"
	}

	switch {
	case t.Error != "":
		tc.Error = &JUnitError{
			Message: t.Error,
			Type:    "Error",
		}
	case !t.Passed():
		outcome := t.Outcome
		if outcome == "" {
			outcome = "none"
		}
		tc.Failure = &JUnitFailure{
			Message: fmt.Sprintf("call ended with %s", outcome),
			Type:    outcome,
			Content: eventLines(t),
		}
	default:
		tc.SystemOut = fmt.Sprintf("%d %s\n%s", t.Status, t.StatusText, t.Body)
	}
	return tc
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	timestamp := f.now().Format(time.RFC3339)
	suite := JUnitTestSuite{
		Name:      "xhrmock",
		Timestamp: timestamp,
		TestCases: make([]JUnitTestCase, 0, len(f.traces)+len(f.errors)),
	}

	for _, msg := range f.errors {
		suite.Errors++
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      "setup",
			ClassName: "xhrmock",
			Error:     &JUnitError{Message: msg, Type: "SetupError"},
		})
	}

	for _, t := range f.traces {
		tc := testCase(t)
		switch {
		case tc.Error != nil:
			suite.Errors++
		case tc.Failure != nil:
			suite.Failures++
		}
		suite.Time += tc.Time
		suite.TestCases = append(suite.TestCases, tc)
	}
	suite.Tests = len(suite.TestCases)

	suites := JUnitTestSuites{
		Name:       "xhrmock",
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Errors:     suite.Errors,
		Time:       totalDuration.Seconds(),
		Timestamp:  timestamp,
		TestSuites: []JUnitTestSuite{suite},
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}
