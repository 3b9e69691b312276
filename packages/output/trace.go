package output

import (
	"github.com/abdul-hamid-achik/xhrmock/packages/event"
	"github.com/abdul-hamid-achik/xhrmock/packages/loop"
	"github.com/abdul-hamid-achik/xhrmock/packages/xhr"
)

// Event targets as they appear in a trace
const (
	TargetXHR    = "xhr"
	TargetUpload = "upload"
)

// TraceEvent is one notification observed during a call.
type TraceEvent struct {
	At     int64  `json:"at"` // virtual milliseconds
	Target string `json:"target"`
	Type   string `json:"type"`
	State  string `json:"state"`
	Loaded int64  `json:"loaded,omitempty"`
	Total  int64  `json:"total,omitempty"`
}

// Trace is the record of one simulated call.
type Trace struct {
	Name       string       `json:"name"`
	Method     string       `json:"method"`
	URL        string       `json:"url"`
	Events     []TraceEvent `json:"events"`
	Outcome    string       `json:"outcome,omitempty"`
	Status     int          `json:"status"`
	StatusText string       `json:"statusText,omitempty"`
	Headers    string       `json:"headers,omitempty"`
	Body       string       `json:"body,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// terminal lists the event types that settle a call
var terminal = map[string]bool{
	event.Load:    true,
	event.Error:   true,
	event.Timeout: true,
	event.Abort:   true,
}

var traced = []string{
	event.ReadyStateChange,
	event.LoadStart,
	event.Progress,
	event.Load,
	event.Error,
	event.Timeout,
	event.Abort,
	event.LoadEnd,
}

// Record attaches listeners to x and its upload target and returns the
// trace they fill in.
func Record(name string, x *xhr.Transport) *Trace {
	t := &Trace{Name: name, Events: make([]TraceEvent, 0)}
	l := x.Loop()

	for _, typ := range traced {
		x.AddEventListener(typ, t.listener(TargetXHR, x, l))
		if event.IsProgressType(typ) {
			x.Upload().AddEventListener(typ, t.listener(TargetUpload, x, l))
		}
	}
	return t
}

func (t *Trace) listener(target string, x *xhr.Transport, l *loop.Loop) xhr.Listener {
	return func(ev event.Event) {
		te := TraceEvent{
			At:     l.Now().Milliseconds(),
			Target: target,
			Type:   ev.Type(),
			State:  x.ReadyState().String(),
		}
		if p, ok := ev.(*event.ProgressEvent); ok {
			te.Loaded = p.Loaded()
			te.Total = p.Total()
		}
		t.Events = append(t.Events, te)

		if target == TargetXHR && terminal[te.Type] {
			t.Outcome = te.Type
			if te.Type == event.Load {
				t.capture(x)
			}
		}
	}
}

// Finish copies the final response of x into the trace. A response seen
// by the load event survives a later abort, which resets the transport.
func (t *Trace) Finish(x *xhr.Transport) {
	t.Method = x.Method()
	t.URL = x.URL()
	if t.Outcome == event.Load && x.ReadyState() != xhr.Done {
		return
	}
	t.capture(x)
}

func (t *Trace) capture(x *xhr.Transport) {
	t.Status = x.Status()
	t.StatusText = x.StatusText()
	t.Headers, _ = x.GetAllResponseHeaders()
	if body, err := x.ResponseText(); err == nil {
		t.Body = body
	}
}

// Fail records a synchronous error that stopped the call.
func (t *Trace) Fail(err error) {
	if err != nil {
		t.Error = err.Error()
	}
}

// Passed reports whether the call completed with a load event.
func (t *Trace) Passed() bool {
	return t.Error == "" && t.Outcome == event.Load
}

// Count returns how many events of typ were seen on target.
func (t *Trace) Count(target, typ string) int {
	n := 0
	for _, e := range t.Events {
		if e.Target == target && e.Type == typ {
			n++
		}
	}
	return n
}
