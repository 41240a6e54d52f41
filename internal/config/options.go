// Package config provides configuration types for the RPC bridge.
package config

import (
	"log/slog"
	"time"
)

const (
	// DefaultTimeout is the wall-clock budget of one bridged call,
	// measured from process launch.
	DefaultTimeout = 25 * time.Second

	// DefaultTokenEnv is the environment variable carrying the token,
	// both for the bridge itself and for the spawned server.
	DefaultTokenEnv = "MONDAY_TOKEN"

	// DefaultTokenFlag is the command-line flag preceding the token.
	DefaultTokenFlag = "-t"

	// DefaultMaxOutputSize is the number of trailing stdout bytes retained.
	DefaultMaxOutputSize = 16 * 1024 * 1024 // 16MB

	// DefaultMaxStderrSize is the number of trailing stderr bytes retained.
	DefaultMaxStderrSize = 1024 * 1024 // 1MB

	// DefaultWaitDelay bounds how long pipes may stay open after the
	// process has been killed.
	DefaultWaitDelay = 2 * time.Second
)

// Options configures the behavior of the bridge.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Strategies is the ordered list of ways to start the server process.
	// If empty, DefaultStrategies is used.
	Strategies []LaunchStrategy

	// Timeout is the hard budget for one call. Zero means DefaultTimeout.
	Timeout time.Duration

	// TokenEnv names the environment variable the token is injected as.
	// Empty means DefaultTokenEnv.
	TokenEnv string

	// TokenFlag is the flag passed before the token on the command line.
	// nil means DefaultTokenFlag; a pointer to "" disables argument passing
	// so the token travels only through the environment.
	TokenFlag *string

	// Env provides additional environment variables for the server process.
	Env map[string]string

	// Cwd sets the working directory for the server process.
	// If empty, the bridge's own working directory is used.
	Cwd string

	// MaxOutputSize caps retained stdout bytes. Zero means DefaultMaxOutputSize.
	MaxOutputSize int

	// MaxStderrSize caps retained stderr bytes. Zero means DefaultMaxStderrSize.
	MaxStderrSize int

	// WaitDelay bounds pipe draining after a forced kill.
	// Zero means DefaultWaitDelay.
	WaitDelay time.Duration

	// Stderr is a callback function for handling stderr output line by line.
	Stderr func(string)
}

// ResolvedTimeout returns Timeout or its default.
func (o *Options) ResolvedTimeout() time.Duration {
	if o == nil || o.Timeout <= 0 {
		return DefaultTimeout
	}

	return o.Timeout
}

// ResolvedTokenEnv returns TokenEnv or its default.
func (o *Options) ResolvedTokenEnv() string {
	if o == nil || o.TokenEnv == "" {
		return DefaultTokenEnv
	}

	return o.TokenEnv
}

// ResolvedTokenFlag returns TokenFlag or its default.
func (o *Options) ResolvedTokenFlag() string {
	if o == nil || o.TokenFlag == nil {
		return DefaultTokenFlag
	}

	return *o.TokenFlag
}

// ResolvedStrategies returns Strategies or DefaultStrategies.
func (o *Options) ResolvedStrategies() []LaunchStrategy {
	if o == nil || len(o.Strategies) == 0 {
		return DefaultStrategies()
	}

	return o.Strategies
}

// ResolvedMaxOutputSize returns MaxOutputSize or its default.
func (o *Options) ResolvedMaxOutputSize() int {
	if o == nil || o.MaxOutputSize <= 0 {
		return DefaultMaxOutputSize
	}

	return o.MaxOutputSize
}

// ResolvedMaxStderrSize returns MaxStderrSize or its default.
func (o *Options) ResolvedMaxStderrSize() int {
	if o == nil || o.MaxStderrSize <= 0 {
		return DefaultMaxStderrSize
	}

	return o.MaxStderrSize
}

// ResolvedWaitDelay returns WaitDelay or its default.
func (o *Options) ResolvedWaitDelay() time.Duration {
	if o == nil || o.WaitDelay <= 0 {
		return DefaultWaitDelay
	}

	return o.WaitDelay
}
