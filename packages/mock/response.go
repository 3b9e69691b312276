package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the delay a handler declares with TimeoutDefault.
	DefaultTimeout = time.Millisecond
	// NoTimeout disables the timeout continuation.
	NoTimeout time.Duration = 0
)

// Response is the mutable draft a handler fills in.
type Response struct {
	status  int
	headers *Header
	body    string
	timeout time.Duration

	statusSet  bool
	headersSet bool
	bodySet    bool
	timeoutSet bool
}

// NewResponse creates a draft with status 200, no headers, an empty body
// and no timeout.
func NewResponse() *Response {
	return &Response{
		status:  http.StatusOK,
		headers: NewHeader(nil),
		timeout: NoTimeout,
	}
}

// Status sets the HTTP status code
func (r *Response) Status(code int) *Response {
	r.status = code
	r.statusSet = true
	return r
}

// StatusCode returns the HTTP status code
func (r *Response) StatusCode() int {
	return r.status
}

// Header sets a single header. The name is matched case-insensitively.
func (r *Response) Header(name, value string) *Response {
	r.headers.Set(name, value)
	r.headersSet = true
	return r
}

// HeaderValue returns a header by name in any case.
func (r *Response) HeaderValue(name string) (string, bool) {
	return r.headers.Get(name)
}

// Headers sets every header in m.
func (r *Response) Headers(m map[string]string) *Response {
	for k, v := range m {
		r.headers.Set(k, v)
	}
	r.headersSet = true
	return r
}

// HeaderMap returns a copy of the headers keyed by lower-cased name.
func (r *Response) HeaderMap() map[string]string {
	return r.headers.Map()
}

// Body sets the response body. Strings and byte slices are stored as they
// are; any other value is encoded as JSON. A value JSON cannot encode is
// stored in its %v form.
func (r *Response) Body(v any) *Response {
	switch b := v.(type) {
	case string:
		r.body = b
	case []byte:
		r.body = string(b)
	case json.RawMessage:
		r.body = string(b)
	case nil:
		r.body = ""
	default:
		data, err := json.Marshal(b)
		if err != nil {
			r.body = fmt.Sprintf("%v", b)
		} else {
			r.body = string(data)
		}
	}
	r.bodySet = true
	return r
}

// BodyText returns the body as text
func (r *Response) BodyText() string {
	return r.body
}

// Timeout makes the call time out after d. Zero or less disables it.
func (r *Response) Timeout(d time.Duration) *Response {
	if d < 0 {
		d = NoTimeout
	}
	r.timeout = d
	r.timeoutSet = true
	return r
}

// TimeoutDefault makes the call time out after DefaultTimeout.
func (r *Response) TimeoutDefault() *Response {
	return r.Timeout(DefaultTimeout)
}

// NoTimeout clears any declared timeout.
func (r *Response) NoTimeout() *Response {
	return r.Timeout(NoTimeout)
}

// TimeoutValue returns the declared timeout
func (r *Response) TimeoutValue() time.Duration {
	return r.timeout
}

// Build finalizes the draft with all four fields set.
func (r *Response) Build() Result {
	status := r.status
	body := r.body
	timeout := r.timeout
	return Result{
		Status:  &status,
		Headers: r.headers.Clone(),
		Body:    &body,
		Timeout: &timeout,
	}
}

// Partial finalizes only the fields that were explicitly set, so that
// several handlers can each contribute part of a response.
func (r *Response) Partial() Result {
	var res Result
	if r.statusSet {
		status := r.status
		res.Status = &status
	}
	if r.headersSet {
		res.Headers = r.headers.Clone()
	}
	if r.bodySet {
		body := r.body
		res.Body = &body
	}
	if r.timeoutSet {
		timeout := r.timeout
		res.Timeout = &timeout
	}
	return res
}
