package event

// Event type names fired by a transport.
const (
	ReadyStateChange = "readystatechange"
	LoadStart        = "loadstart"
	Progress         = "progress"
	Load             = "load"
	Error            = "error"
	Timeout          = "timeout"
	Abort            = "abort"
	LoadEnd          = "loadend"
)

// progressTypes lists the types that carry byte counters
var progressTypes = map[string]bool{
	Error:     true,
	Progress:  true,
	LoadStart: true,
	LoadEnd:   true,
	Load:      true,
	Timeout:   true,
	Abort:     true,
}

// IsProgressType reports whether events of the given type carry progress counters.
func IsProgressType(typ string) bool {
	return progressTypes[typ]
}

// Event is implemented by every payload handed to a listener.
type Event interface {
	Type() string
	Target() any
	CurrentTarget() any
}

// Basic is a plain event.
type Basic struct {
	typ    string
	target any
}

// New creates a plain event dispatched at target.
func New(typ string, target any) *Basic {
	return &Basic{typ: typ, target: target}
}

func (e *Basic) Type() string       { return e.typ }
func (e *Basic) Target() any        { return e.target }
func (e *Basic) CurrentTarget() any { return e.target }

// ProgressInit carries the counters of a progress event.
type ProgressInit struct {
	LengthComputable bool
	Loaded           int64
	Total            int64
}

// ProgressEvent is a plain event extended with byte counters.
type ProgressEvent struct {
	Basic
	lengthComputable bool
	loaded           int64
	total            int64
}

// NewProgress creates a progress event dispatched at target.
func NewProgress(typ string, target any, init ProgressInit) *ProgressEvent {
	return &ProgressEvent{
		Basic:            Basic{typ: typ, target: target},
		lengthComputable: init.LengthComputable,
		loaded:           init.Loaded,
		total:            init.Total,
	}
}

func (e *ProgressEvent) LengthComputable() bool { return e.lengthComputable }
func (e *ProgressEvent) Loaded() int64          { return e.loaded }
func (e *ProgressEvent) Total() int64           { return e.total }

// Build returns a progress event for progress-carrying types and a plain
// event for everything else. The length is always reported as computable.
func Build(typ string, target any, loaded, total int64) Event {
	if IsProgressType(typ) {
		return NewProgress(typ, target, ProgressInit{
			LengthComputable: true,
			Loaded:           loaded,
			Total:            total,
		})
	}
	return New(typ, target)
}
