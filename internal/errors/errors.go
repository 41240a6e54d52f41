package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// BridgeError is the base interface for all bridge errors.
type BridgeError interface {
	error
	IsBridgeError() bool
}

// Compile-time verification that all error types implement BridgeError.
var (
	_ BridgeError = (*LaunchError)(nil)
	_ BridgeError = (*TimeoutError)(nil)
	_ BridgeError = (*ProcessError)(nil)
	_ BridgeError = (*OutputParseError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrTokenNotConfigured indicates the authentication token is missing.
	// No process is spawned when this is returned.
	ErrTokenNotConfigured = errors.New("token not configured")

	// ErrNoStrategies indicates the launcher was configured with an empty
	// strategy list.
	ErrNoStrategies = errors.New("no launch strategies configured")
)

// LaunchAttempt records why a single launch strategy failed.
type LaunchAttempt struct {
	Strategy string `json:"strategy"`
	Err      error  `json:"-"`
}

// LaunchError indicates none of the configured launch strategies could
// start the server process.
type LaunchError struct {
	Attempts []LaunchAttempt
}

func (e *LaunchError) Error() string {
	if len(e.Attempts) == 0 {
		return "failed to start server process: no strategies attempted"
	}

	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Strategy, a.Err))
	}

	return "failed to start server process: " + strings.Join(parts, "; ")
}

// Unwrap returns the error of every failed attempt.
func (e *LaunchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}

	return errs
}

// IsBridgeError implements BridgeError.
func (e *LaunchError) IsBridgeError() bool { return true }

// TimeoutError indicates the server process did not exit before the
// invocation deadline and was killed.
type TimeoutError struct {
	Timeout time.Duration
	Stderr  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("server process timed out after %s", e.Timeout)
}

// IsBridgeError implements BridgeError.
func (e *TimeoutError) IsBridgeError() bool { return true }

// ProcessError indicates the server process exited with a non-zero status.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("server process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("server process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *ProcessError) IsBridgeError() bool { return true }

// OutputParseError indicates the server output could not be read as
// line-delimited text.
type OutputParseError struct {
	Err error
}

func (e *OutputParseError) Error() string {
	return fmt.Sprintf("failed to parse server output: %v", e.Err)
}

func (e *OutputParseError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *OutputParseError) IsBridgeError() bool { return true }
