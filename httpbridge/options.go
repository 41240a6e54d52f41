package httpbridge

import "log/slog"

// DefaultMaxBodyBytes is the largest request body accepted by POST.
const DefaultMaxBodyBytes = 4 * 1024 * 1024 // 4MiB

// TokenSource returns the token for the next call, or "" when none is
// configured.
type TokenSource func() string

// Option configures the Handler.
type Option func(*handlerConfig)

type handlerConfig struct {
	logger       *slog.Logger
	tokenSource  TokenSource
	version      string
	status       string
	maxBodyBytes int64
}

// WithLogger sets the logger used by the handler.
func WithLogger(l *slog.Logger) Option {
	return func(c *handlerConfig) {
		c.logger = l
	}
}

// WithTokenSource sets where the handler reads the token from on every
// request. Without it no token is configured and POST answers -32001.
func WithTokenSource(src TokenSource) Option {
	return func(c *handlerConfig) {
		c.tokenSource = src
	}
}

// WithVersion sets the version reported by GET.
func WithVersion(version string) Option {
	return func(c *handlerConfig) {
		c.version = version
	}
}

// WithStatus sets the status string reported by GET.
func WithStatus(status string) Option {
	return func(c *handlerConfig) {
		c.status = status
	}
}

// WithMaxBodyBytes limits the size of POST bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(c *handlerConfig) {
		c.maxBodyBytes = n
	}
}
