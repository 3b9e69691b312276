package builder

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/xhrmock/packages/loop"
	"github.com/abdul-hamid-achik/xhrmock/packages/mock"
	"github.com/abdul-hamid-achik/xhrmock/packages/xhr"
	"go.uber.org/zap"
)

var (
	// ErrNotInstalled is returned by Teardown when Setup was not called.
	ErrNotInstalled = errors.New("builder: not installed")

	// ErrAlreadyInstalled is returned by Setup when the builder is already
	// installed into an environment.
	ErrAlreadyInstalled = errors.New("builder: already installed")
)

// Constructor builds a fresh request object.
type Constructor func() xhr.Requester

// Env is the environment a builder installs into. XMLHttpRequest is the
// slot code under test calls to obtain a request object.
type Env struct {
	XMLHttpRequest Constructor
}

// Builder owns a handler registry and the loop its transports run on.
type Builder struct {
	mu       sync.Mutex
	registry *mock.Registry
	loop     *loop.Loop
	logger   *zap.Logger
	timeout  time.Duration

	env    *Env
	native Constructor
}

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the logger shared by the registry and every transport
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLoop runs transports on l instead of a private loop
func WithLoop(l *loop.Loop) Option {
	return func(b *Builder) {
		if l != nil {
			b.loop = l
		}
	}
}

// WithTimeout sets the initial timeout of every transport
func WithTimeout(d time.Duration) Option {
	return func(b *Builder) {
		b.timeout = d
	}
}

// New creates a builder with an empty registry.
func New(opts ...Option) *Builder {
	b := &Builder{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.loop == nil {
		b.loop = loop.New()
	}
	b.registry = mock.NewRegistry(mock.WithLogger(b.logger.Named("registry")))
	return b
}

// Setup replaces the constructor in env with one that builds simulated
// transports, remembering the previous one, and clears every handler.
func (b *Builder) Setup(env *Env) error {
	if env == nil {
		return errors.New("builder: nil environment")
	}

	b.mu.Lock()
	if b.env != nil {
		b.mu.Unlock()
		return ErrAlreadyInstalled
	}
	b.env = env
	b.native = env.XMLHttpRequest
	env.XMLHttpRequest = func() xhr.Requester {
		return b.NewRequest()
	}
	b.mu.Unlock()

	b.logger.Debug("installed")
	b.Reset()
	return nil
}

// Teardown restores the constructor captured by Setup and clears every
// handler.
func (b *Builder) Teardown() error {
	b.mu.Lock()
	if b.env == nil {
		b.mu.Unlock()
		return ErrNotInstalled
	}
	b.env.XMLHttpRequest = b.native
	b.env = nil
	b.native = nil
	b.mu.Unlock()

	b.logger.Debug("uninstalled")
	b.Reset()
	return nil
}

// Installed reports whether the builder is set up in an environment.
func (b *Builder) Installed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.env != nil
}

// Reset removes every handler.
func (b *Builder) Reset() *Builder {
	b.registry.Reset()
	return b
}

// Mock registers a handler that sees every request.
func (b *Builder) Mock(h mock.Handler) string {
	return b.registry.Add(h)
}

// Remove drops a handler registered by Mock or Route.
func (b *Builder) Remove(id string) bool {
	return b.registry.Remove(id)
}

// Route registers fn for requests with the given method and url.
func (b *Builder) Route(method string, url mock.URLMatcher, fn mock.Responder) string {
	return b.registry.Add(mock.CreateHandler(method, url, fn))
}

// Get registers fn for GET requests to url.
func (b *Builder) Get(url mock.URLMatcher, fn mock.Responder) string {
	return b.Route(http.MethodGet, url, fn)
}

// Post registers fn for POST requests to url.
func (b *Builder) Post(url mock.URLMatcher, fn mock.Responder) string {
	return b.Route(http.MethodPost, url, fn)
}

// Put registers fn for PUT requests to url.
func (b *Builder) Put(url mock.URLMatcher, fn mock.Responder) string {
	return b.Route(http.MethodPut, url, fn)
}

// Patch registers fn for PATCH requests to url.
func (b *Builder) Patch(url mock.URLMatcher, fn mock.Responder) string {
	return b.Route(http.MethodPatch, url, fn)
}

// Delete registers fn for DELETE requests to url.
func (b *Builder) Delete(url mock.URLMatcher, fn mock.Responder) string {
	return b.Route(http.MethodDelete, url, fn)
}

func (b *Builder) Registry() *mock.Registry { return b.registry }
func (b *Builder) Loop() *loop.Loop         { return b.loop }

// NewRequest builds a transport answered by the builder's registry.
func (b *Builder) NewRequest() *xhr.Transport {
	return xhr.New(b.registry,
		xhr.WithLoop(b.loop),
		xhr.WithLogger(b.logger.Named("xhr")),
		xhr.WithTimeout(b.timeout),
	)
}
