package mock

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler inspects a request and optionally answers it. Returning nil
// means the handler has nothing to say about the call.
type Handler func(req *Request, res *Response) *Result

// Responder is the draft-returning form used by matchers. Returning nil
// leaves the call unanswered.
type Responder func(req *Request, res *Response) *Response

type registration struct {
	id      string
	handler Handler
}

// Registry is an ordered collection of handlers.
type Registry struct {
	mu       sync.Mutex
	handlers []registration
	logger   *zap.Logger
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithLogger sets the logger used for dispatch diagnostics
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		handlers: make([]registration, 0),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add appends h and returns the id that Remove accepts.
func (r *Registry) Add(h Handler) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.handlers = append(r.handlers, registration{id: id, handler: h})
	return id
}

// Remove drops the handler registered under id.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, reg := range r.handlers {
		if reg.id == id {
			r.handlers = append(r.handlers[:i:i], r.handlers[i+1:]...)
			return true
		}
	}
	return false
}

// Reset removes every handler.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = make([]registration, 0)
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// Handle runs every handler against a snapshot of call, in registration
// order, and merges their answers left to right. The result is empty when
// no handler answered.
func (r *Registry) Handle(call Call) Result {
	r.mu.Lock()
	handlers := make([]registration, len(r.handlers))
	copy(handlers, r.handlers)
	r.mu.Unlock()

	req := NewRequest(call)

	var merged Result
	answered := 0
	for _, reg := range handlers {
		res := reg.handler(req, NewResponse())
		if res == nil {
			continue
		}
		answered++
		merged = merged.Merge(*res)
	}

	r.logger.Debug("handled request",
		zap.String("method", req.Method()),
		zap.String("url", req.URL()),
		zap.Int("handlers", len(handlers)),
		zap.Int("answered", answered),
		zap.Bool("unhandled", merged.Empty()))

	return merged
}
