package xhr

import (
	"errors"
	"fmt"
)

// Error kinds returned synchronously by the transport. Check them with
// errors.Is.
var (
	// ErrSyntax is returned for an unknown method or an unparsable URL.
	ErrSyntax = errors.New("SyntaxError")

	// ErrSecurity is returned for methods the client refuses to send.
	ErrSecurity = errors.New("SecurityError")

	// ErrInvalidState is returned when an operation is not allowed in the
	// current state.
	ErrInvalidState = errors.New("InvalidStateError")

	// ErrInvalidAccess is returned for timeouts on synchronous requests.
	// It is an invalid-state kind.
	ErrInvalidAccess = fmt.Errorf("%w: InvalidAccessError", ErrInvalidState)

	// ErrForbiddenHeader is returned for header names a client may not set.
	ErrForbiddenHeader = errors.New("ForbiddenHeaderError")

	// ErrNotImplemented is returned by parts of the browser API the
	// transport does not simulate.
	ErrNotImplemented = errors.New("not implemented")
)

// Error describes a rejected transport operation.
type Error struct {
	// Op is the operation that failed: "open", "setRequestHeader", "send" ...
	Op string

	// Kind is one of the sentinel errors above.
	Kind error

	// Detail is a human readable explanation.
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("xhr: %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("xhr: %s: %v: %s", e.Op, e.Kind, e.Detail)
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(op string, kind error, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

const (
	inProgressDetail = "request already in progress"
	mainThreadDetail = "synchronous requests block the main thread and cannot time out"
)
