package mock

import (
	"net/http"
	"time"
)

// Result is the finalized answer of one or more handlers. A nil field was
// not set by any handler.
type Result struct {
	Status  *int
	Headers *Header
	Body    *string
	Timeout *time.Duration
}

// Empty reports whether no field has been set, which is how an unhandled
// call is represented.
func (r Result) Empty() bool {
	return r.Status == nil && r.Headers == nil && r.Body == nil && r.Timeout == nil
}

// Merge returns r overlaid with every field other sets.
func (r Result) Merge(other Result) Result {
	if other.Status != nil {
		r.Status = other.Status
	}
	if other.Headers != nil {
		r.Headers = other.Headers
	}
	if other.Body != nil {
		r.Body = other.Body
	}
	if other.Timeout != nil {
		r.Timeout = other.Timeout
	}
	return r
}

// StatusCode returns the status or 200 when unset.
func (r Result) StatusCode() int {
	if r.Status == nil {
		return http.StatusOK
	}
	return *r.Status
}

// BodyText returns the body or "" when unset.
func (r Result) BodyText() string {
	if r.Body == nil {
		return ""
	}
	return *r.Body
}

// TimeoutValue returns the declared timeout or NoTimeout when unset.
func (r Result) TimeoutValue() time.Duration {
	if r.Timeout == nil {
		return NoTimeout
	}
	return *r.Timeout
}

// HeaderSet returns the headers, never nil.
func (r Result) HeaderSet() *Header {
	if r.Headers == nil {
		return NewHeader(nil)
	}
	return r.Headers
}
