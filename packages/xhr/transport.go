package xhr

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/xhrmock/packages/event"
	"github.com/abdul-hamid-achik/xhrmock/packages/loop"
	"github.com/abdul-hamid-achik/xhrmock/packages/mock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Requester is the browser-facing surface of a transport.
type Requester interface {
	Open(method, rawURL string, opts ...OpenOption) error
	SetRequestHeader(name, value string) error
	Send(body string) error
	Abort()
	ReadyState() ReadyState
	Status() int
	ResponseText() (string, error)
	GetResponseHeader(name string) (string, bool)
	GetAllResponseHeaders() (string, bool)
	On(typ string, fn Listener)
	AddEventListener(typ string, fn Listener) ListenerID
	RemoveEventListener(typ string, id ListenerID) bool
}

// Transport simulates one XMLHttpRequest object. It is not safe for
// concurrent use; drive it from the goroutine that runs its loop.
type Transport struct {
	id       string
	registry *mock.Registry
	loop     *loop.Loop
	logger   *zap.Logger
	upload   *Upload

	listeners listenerSet

	readyState ReadyState
	method     string
	url        string
	user       string
	password   string
	async      bool
	body       string
	sent       bool

	requestHeaders map[string]string

	status          int
	statusText      string
	responseHeaders *mock.Header
	responseText    string
	response        string
	responseType    string

	timeout         time.Duration
	withCredentials bool

	dispatchTimer *loop.Timer
	timeoutTimer  *loop.Timer
}

var _ Requester = (*Transport)(nil)
var _ mock.Call = (*Transport)(nil)

// New creates a transport answered by registry. A nil registry gets an
// empty one, so every call ends in an error event until handlers are added.
func New(registry *mock.Registry, opts ...Option) *Transport {
	if registry == nil {
		registry = mock.NewRegistry()
	}

	x := &Transport{
		id:        uuid.NewString(),
		registry:  registry,
		logger:    zap.NewNop(),
		listeners: newListenerSet(),
		async:     true,
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.loop == nil {
		x.loop = loop.New()
	}
	x.logger = x.logger.With(zap.String("xhr", x.id))
	x.upload = newUpload(x)
	x.reset()

	return x
}

// reset clears request headers and every response field
func (x *Transport) reset() {
	x.requestHeaders = make(map[string]string)
	x.responseHeaders = mock.NewHeader(nil)

	x.status = 0
	x.statusText = ""
	x.response = ""
	x.responseText = ""
	x.responseType = ""

	x.readyState = Unsent
}

func (x *Transport) stopTimers() {
	x.dispatchTimer.Stop()
	x.dispatchTimer = nil
	x.timeoutTimer.Stop()
	x.timeoutTimer = nil
}

// Open validates method and rawURL and moves the transport to OPENED.
func (x *Transport) Open(method, rawURL string, opts ...OpenOption) error {
	cfg := openConfig{async: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	method = strings.ToUpper(strings.TrimSpace(method))

	if IsOutdatedMethod(method) {
		return newError("open", ErrSecurity, "HTTP method must not be %q", method)
	}
	if !IsMethod(method) {
		return newError("open", ErrSyntax, "invalid HTTP method %q", method)
	}
	if _, err := url.Parse(rawURL); err != nil {
		return newError("open", ErrSyntax, "invalid HTTP url %q", rawURL)
	}
	if !cfg.async && x.timeout > 0 && x.responseType != "" {
		return newError("open", ErrInvalidAccess, mainThreadDetail)
	}

	x.stopTimers()
	x.reset()
	x.url = rawURL
	x.async = cfg.async
	x.user = cfg.user
	x.password = cfg.password
	x.sent = false
	x.body = ""
	x.method = method
	x.readyState = Opened

	x.logger.Debug("opened", zap.String("method", method), zap.String("url", rawURL), zap.Bool("async", cfg.async))
	x.trigger(event.ReadyStateChange, 0, 0)
	return nil
}

// SetRequestHeader adds a request header. Repeated names are joined with ", ".
func (x *Transport) SetRequestHeader(name, value string) error {
	if x.readyState != Opened || x.sent {
		return newError("setRequestHeader", ErrInvalidState, inProgressDetail)
	}
	if IsForbiddenHeader(name) {
		return newError("setRequestHeader", ErrForbiddenHeader, "forbidden header name %q", name)
	}

	key := strings.ToLower(name)
	if prev, ok := x.requestHeaders[key]; ok {
		x.requestHeaders[key] = prev + ", " + value
	} else {
		x.requestHeaders[key] = value
	}
	return nil
}

// Send starts the request. The answer is produced on a later turn of the loop.
func (x *Transport) Send(body string) error {
	if x.readyState != Opened || x.sent {
		return newError("send", ErrInvalidState, inProgressDetail)
	}

	if x.method == http.MethodGet || x.method == http.MethodHead {
		body = ""
	}

	x.readyState = Loading
	x.sent = true
	x.body = body
	x.dispatchTimer = x.loop.SetTimeout(0, x.dispatch)

	x.logger.Debug("sent", zap.Int("bytes", len(body)))
	return nil
}

func (x *Transport) dispatch() {
	x.dispatchTimer = nil

	x.trigger(event.LoadStart, 0, 0)
	// aborted or reopened by a loadstart listener
	if x.readyState != Loading {
		return
	}
	x.uploadBody()

	res := x.registry.Handle(x)

	timeout := res.TimeoutValue()
	if x.timeout > timeout {
		timeout = x.timeout
	}

	if timeout > 0 {
		x.timeoutTimer = x.loop.SetTimeout(timeout, func() {
			x.timeoutTimer = nil
			x.readyState = Done
			x.logger.Debug("timed out", zap.Duration("timeout", timeout))
			x.trigger(event.Timeout, 0, 0)
		})
		return
	}

	if !res.Empty() {
		x.status = res.StatusCode()
		x.statusText = http.StatusText(x.status)
		x.responseHeaders = res.HeaderSet().Clone()
		x.responseType = "text"
		x.response = res.BodyText()
		x.responseText = res.BodyText()
		x.readyState = Done

		x.logger.Debug("loaded", zap.Int("status", x.status))
		x.trigger(event.LoadStart, 0, 0)
		x.trigger(event.Load, 0, 0)
		return
	}

	x.readyState = Done
	x.logger.Debug("unhandled", zap.String("method", x.method), zap.String("url", x.url))
	x.trigger(event.Error, 0, 0)
}

// uploadBody reports the request body on the upload target
func (x *Transport) uploadBody() {
	if x.body == "" {
		return
	}
	n := int64(len(x.body))
	x.upload.trigger(event.LoadStart, 0, n)
	x.upload.trigger(event.Progress, n, n)
	x.upload.trigger(event.Load, n, n)
	x.upload.trigger(event.LoadEnd, n, n)
}

// Abort cancels the pending continuations. An abort event fires only while
// a call is between UNSENT and DONE; loadend always fires.
func (x *Transport) Abort() {
	x.stopTimers()

	if x.readyState > Unsent && x.readyState < Done {
		x.trigger(event.Abort, 0, 0)
	}

	x.sent = false
	x.readyState = Unsent
	x.logger.Debug("aborted")
	x.trigger(event.LoadEnd, 0, 0)
}

// trigger notifies listeners of typ in the fixed browser order.
func (x *Transport) trigger(typ string, loaded, total int64) {
	if fn := x.listeners.slot(event.ReadyStateChange); fn != nil {
		fn(event.Build(event.ReadyStateChange, x, loaded, total))
	}

	if x.readyState == Done {
		if fn := x.listeners.slot(event.LoadEnd); fn != nil {
			fn(event.Build(event.LoadEnd, x, loaded, total))
		} else if fn := x.listeners.first(event.LoadEnd); fn != nil {
			fn(event.Build(event.LoadEnd, x, loaded, total))
		}
	}

	if fn := x.listeners.slot(typ); fn != nil {
		fn(event.Build(typ, x, loaded, total))
	}

	for _, fn := range x.listeners.matching(typ) {
		fn(event.Build(typ, x, loaded, total))
	}
}

// EmitProgress fires a progress event with the given counters.
func (x *Transport) EmitProgress(loaded, total int64) {
	x.trigger(event.Progress, loaded, total)
}

// EmitUploadProgress fires a progress event on the upload target.
func (x *Transport) EmitUploadProgress(loaded, total int64) {
	x.upload.trigger(event.Progress, loaded, total)
}

// On assigns the single-slot callback for typ, the onload/onerror/...
// properties of the browser object. A nil fn clears the slot.
func (x *Transport) On(typ string, fn Listener) {
	x.listeners.setSlot(typ, fn)
}

// AddEventListener appends fn to the listeners of typ.
func (x *Transport) AddEventListener(typ string, fn Listener) ListenerID {
	return x.listeners.add(typ, fn)
}

// RemoveEventListener removes the registration id made for typ.
func (x *Transport) RemoveEventListener(typ string, id ListenerID) bool {
	return x.listeners.remove(typ, id)
}

// GetResponseHeader returns a response header by name in any case.
func (x *Transport) GetResponseHeader(name string) (string, bool) {
	if x.readyState < HeadersReceived {
		return "", false
	}
	return x.responseHeaders.Get(name)
}

// GetAllResponseHeaders renders every response header as "name: value\r\n"
// lines in the order they were set.
func (x *Transport) GetAllResponseHeaders() (string, bool) {
	if x.readyState < HeadersReceived {
		return "", false
	}

	var b strings.Builder
	for _, k := range x.responseHeaders.Keys() {
		v, _ := x.responseHeaders.Get(k)
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	return b.String(), true
}

// ResponseText returns the body as text. It fails unless the response type
// is "" or "text", and is empty before LOADING.
func (x *Transport) ResponseText() (string, error) {
	if x.responseType != "" && x.responseType != "text" {
		return "", newError("responseText", ErrInvalidState, "cannot read responseText of a %q response", x.responseType)
	}
	if x.readyState < Loading {
		return "", nil
	}
	return x.responseText, nil
}

// Response returns the response body
func (x *Transport) Response() string {
	return x.response
}

// ResponseType returns the response type
func (x *Transport) ResponseType() string {
	return x.responseType
}

// SetResponseType changes the response type. It fails once LOADING.
func (x *Transport) SetResponseType(t string) error {
	if x.readyState >= Loading {
		return newError("responseType", ErrInvalidState, inProgressDetail)
	}
	x.responseType = t
	return nil
}

// Timeout returns the transport's own timeout
func (x *Transport) Timeout() time.Duration {
	return x.timeout
}

// SetTimeout sets the transport's own timeout. Synchronous requests
// cannot time out.
func (x *Transport) SetTimeout(d time.Duration) error {
	if !x.async {
		return newError("timeout", ErrInvalidAccess, mainThreadDetail)
	}
	x.timeout = d
	return nil
}

// WithCredentials returns the credentials flag
func (x *Transport) WithCredentials() bool {
	return x.withCredentials
}

// SetWithCredentials sets the credentials flag. It fails once the request
// was sent or has moved past OPENED.
func (x *Transport) SetWithCredentials(include bool) error {
	if x.readyState > Opened || x.sent {
		return newError("withCredentials", ErrInvalidState, inProgressDetail)
	}
	x.withCredentials = include
	return nil
}

// DispatchEvent is not simulated.
func (x *Transport) DispatchEvent(ev event.Event) error {
	return newError("dispatchEvent", ErrNotImplemented, "")
}

// OverrideMimeType is not simulated.
func (x *Transport) OverrideMimeType(mime string) error {
	return newError("overrideMimeType", ErrNotImplemented, "")
}

func (x *Transport) ID() string               { return x.id }
func (x *Transport) ReadyState() ReadyState   { return x.readyState }
func (x *Transport) Status() int              { return x.status }
func (x *Transport) StatusText() string       { return x.statusText }
func (x *Transport) Method() string           { return x.method }
func (x *Transport) URL() string              { return x.url }
func (x *Transport) User() string             { return x.user }
func (x *Transport) Password() string         { return x.password }
func (x *Transport) Async() bool              { return x.async }
func (x *Transport) RequestBody() string      { return x.body }
func (x *Transport) Upload() *Upload          { return x.upload }
func (x *Transport) Loop() *loop.Loop         { return x.loop }
func (x *Transport) Registry() *mock.Registry { return x.registry }

// SetRegistry swaps the registry that answers later sends.
func (x *Transport) SetRegistry(r *mock.Registry) {
	x.registry = r
}

// RequestHeaders returns a copy of the request headers keyed by lower-cased name.
func (x *Transport) RequestHeaders() map[string]string {
	m := make(map[string]string, len(x.requestHeaders))
	for k, v := range x.requestHeaders {
		m[k] = v
	}
	return m
}
