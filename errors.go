package rpcbridge

import "github.com/wagiedev/rpc-stdio-bridge/internal/errors"

// Re-export error types from internal package

// BridgeError is the interface implemented by all bridge errors.
type BridgeError = errors.BridgeError

// LaunchAttempt records why one launch strategy failed.
type LaunchAttempt = errors.LaunchAttempt

// LaunchError indicates that no launch strategy could start the server.
type LaunchError = errors.LaunchError

// TimeoutError indicates the server did not finish within the timeout.
type TimeoutError = errors.TimeoutError

// ProcessError indicates the server exited with a non-zero status.
type ProcessError = errors.ProcessError

// OutputParseError indicates the server's output could not be read as lines.
type OutputParseError = errors.OutputParseError

// Re-export sentinel errors from internal package.
var (
	// ErrTokenNotConfigured indicates no token was available for the call.
	ErrTokenNotConfigured = errors.ErrTokenNotConfigured

	// ErrNoStrategies indicates the launch strategy list is empty.
	ErrNoStrategies = errors.ErrNoStrategies
)
