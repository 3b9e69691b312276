package xhr

import (
	"time"

	"github.com/abdul-hamid-achik/xhrmock/packages/loop"
	"go.uber.org/zap"
)

// Option configures a Transport
type Option func(*Transport)

// WithLoop schedules the transport's continuations on l
func WithLoop(l *loop.Loop) Option {
	return func(x *Transport) {
		if l != nil {
			x.loop = l
		}
	}
}

// WithLogger sets the logger for lifecycle diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(x *Transport) {
		if logger != nil {
			x.logger = logger
		}
	}
}

// WithTimeout sets the initial value of the transport's own timeout
func WithTimeout(d time.Duration) Option {
	return func(x *Transport) {
		x.timeout = d
	}
}

type openConfig struct {
	async    bool
	user     string
	password string
}

// OpenOption adjusts a call to Open
type OpenOption func(*openConfig)

// Sync opens a synchronous request
func Sync() OpenOption {
	return func(c *openConfig) {
		c.async = false
	}
}

// Credentials records the user and password of the request
func Credentials(user, password string) OpenOption {
	return func(c *openConfig) {
		c.user = user
		c.password = password
	}
}
