package mock

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Call is the view of a transport the registry reads when it dispatches.
type Call interface {
	Method() string
	URL() string
	RequestHeaders() map[string]string
	RequestBody() string
	// EmitProgress fires a progress event on the transport.
	EmitProgress(loaded, total int64)
	// EmitUploadProgress fires a progress event on the transport's upload target.
	EmitUploadProgress(loaded, total int64)
}

// Request is an immutable snapshot of a dispatched call.
type Request struct {
	call    Call
	method  string
	url     string
	headers map[string]string
	body    string
	params  map[string]string
}

// NewRequest snapshots the current state of call.
func NewRequest(call Call) *Request {
	headers := make(map[string]string)
	for k, v := range call.RequestHeaders() {
		headers[strings.ToLower(k)] = v
	}
	return &Request{
		call:    call,
		method:  call.Method(),
		url:     call.URL(),
		headers: headers,
		body:    call.RequestBody(),
		params:  make(map[string]string),
	}
}

// Method returns the upper-cased HTTP method
func (r *Request) Method() string {
	return r.method
}

// URL returns the URL exactly as it was opened
func (r *Request) URL() string {
	return r.url
}

// Path returns the path component of the URL, or the raw URL if it does
// not parse.
func (r *Request) Path() string {
	u, err := url.Parse(r.url)
	if err != nil {
		return r.url
	}
	return u.Path
}

// Query returns the parsed query string
func (r *Request) Query() url.Values {
	u, err := url.Parse(r.url)
	if err != nil {
		return url.Values{}
	}
	return u.Query()
}

// QueryInt returns a query parameter converted to an integer.
func (r *Request) QueryInt(name string) (int, bool) {
	v := r.Query().Get(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Header returns a request header in any case, or "" if absent.
func (r *Request) Header(name string) string {
	return r.headers[strings.ToLower(name)]
}

// Headers returns a copy of the request headers keyed by lower-cased name.
func (r *Request) Headers() map[string]string {
	m := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		m[k] = v
	}
	return m
}

// Body returns the request body. GET and HEAD calls always have an empty body.
func (r *Request) Body() string {
	return r.body
}

// JSON looks up a gjson path in the request body.
func (r *Request) JSON(path string) gjson.Result {
	return gjson.Get(r.body, path)
}

// Param returns a named group captured by a pattern matcher.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// Params returns every named group captured by a pattern matcher.
func (r *Request) Params() map[string]string {
	m := make(map[string]string, len(r.params))
	for k, v := range r.params {
		m[k] = v
	}
	return m
}

// Progress fires a progress event on the owning transport.
func (r *Request) Progress(loaded, total int64) {
	r.call.EmitProgress(loaded, total)
}

// UploadProgress fires a progress event on the owning transport's upload target.
func (r *Request) UploadProgress(loaded, total int64) {
	r.call.EmitUploadProgress(loaded, total)
}

// withParams returns a copy of r carrying the captured params.
func (r *Request) withParams(params map[string]string) *Request {
	c := *r
	c.params = params
	return &c
}
