package rpcbridge

import (
	"log/slog"
	"time"

	"github.com/wagiedev/rpc-stdio-bridge/internal/config"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithTimeout sets the hard wall-clock budget of one call, measured from
// process launch.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithConfig replaces all options with a copy of cfg. Later options still
// apply on top of it.
func WithConfig(cfg *Options) Option {
	return func(o *Options) {
		if cfg != nil {
			*o = *cfg
		}
	}
}

// ===== Launch =====

// WithStrategies sets the ordered list of ways to start the server.
func WithStrategies(strategies ...LaunchStrategy) Option {
	return func(o *Options) {
		o.Strategies = strategies
	}
}

// WithTokenEnv sets the environment variable the token is injected as.
func WithTokenEnv(name string) Option {
	return func(o *Options) {
		o.TokenEnv = name
	}
}

// WithTokenFlag sets the flag passed before the token on the command line.
// An empty flag passes the token through the environment only.
func WithTokenFlag(flag string) Option {
	return func(o *Options) {
		o.TokenFlag = &flag
	}
}

// WithEnv sets additional environment variables for the server process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithCwd sets the working directory of the server process.
func WithCwd(cwd string) Option {
	return func(o *Options) {
		o.Cwd = cwd
	}
}

// ===== Output =====

// WithStderr sets a callback receiving each stderr line of the server.
func WithStderr(handler func(string)) Option {
	return func(o *Options) {
		o.Stderr = handler
	}
}

// WithMaxOutputSize caps the stdout bytes retained per call.
func WithMaxOutputSize(size int) Option {
	return func(o *Options) {
		o.MaxOutputSize = size
	}
}

// WithMaxStderrSize caps the stderr bytes retained per call.
func WithMaxStderrSize(size int) Option {
	return func(o *Options) {
		o.MaxStderrSize = size
	}
}

// WithWaitDelay bounds how long output may keep draining after the server
// has been killed.
func WithWaitDelay(delay time.Duration) Option {
	return func(o *Options) {
		o.WaitDelay = delay
	}
}

// DefaultStrategies returns the built-in launch strategies in order of
// preference.
func DefaultStrategies() []LaunchStrategy {
	return config.DefaultStrategies()
}
