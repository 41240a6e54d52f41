package jsonrpc

import (
	"encoding/json"
	"errors"
	"net/http"

	bridgeerrors "github.com/wagiedev/rpc-stdio-bridge/internal/errors"
)

// Messages of the error envelopes the bridge produces.
const (
	MessageNotConfigured = "token not configured"
	MessageLaunchFailed  = "Failed to start server process"
	MessageTimeout       = "Server process timed out"
	MessageProcessFailed = "Server process error"
	MessageParseError    = "Parse error"
	MessageInternal      = "Internal error"
)

// FromError maps a bridge error to an HTTP status and an error envelope
// carrying id.
func FromError(id json.RawMessage, err error) (int, *Response) {
	if errors.Is(err, bridgeerrors.ErrTokenNotConfigured) {
		return http.StatusInternalServerError,
			NewErrorResponse(id, ErrorCodeNotConfigured, MessageNotConfigured, nil)
	}

	if errors.Is(err, bridgeerrors.ErrNoStrategies) {
		return http.StatusInternalServerError,
			NewErrorResponse(id, ErrorCodeInternalError, MessageLaunchFailed, err.Error())
	}

	if launchErr, ok := errors.AsType[*bridgeerrors.LaunchError](err); ok {
		attempts := make([]map[string]string, 0, len(launchErr.Attempts))
		for _, a := range launchErr.Attempts {
			attempts = append(attempts, map[string]string{
				"strategy": a.Strategy,
				"error":    errorString(a.Err),
			})
		}

		return http.StatusInternalServerError,
			NewErrorResponse(id, ErrorCodeInternalError, MessageLaunchFailed, map[string]any{
				"attempts": attempts,
			})
	}

	if timeoutErr, ok := errors.AsType[*bridgeerrors.TimeoutError](err); ok {
		return http.StatusInternalServerError,
			NewErrorResponse(id, ErrorCodeInternalError, MessageTimeout, map[string]any{
				"timeout":    true,
				"timeout_ms": timeoutErr.Timeout.Milliseconds(),
				"stderr":     timeoutErr.Stderr,
			})
	}

	if procErr, ok := errors.AsType[*bridgeerrors.ProcessError](err); ok {
		return http.StatusInternalServerError,
			NewErrorResponse(id, ErrorCodeInternalError, MessageProcessFailed, map[string]any{
				"exit_code": procErr.ExitCode,
				"stderr":    procErr.Stderr,
			})
	}

	if parseErr, ok := errors.AsType[*bridgeerrors.OutputParseError](err); ok {
		return http.StatusOK,
			NewErrorResponse(id, ErrorCodeParseError, MessageParseError, errorString(parseErr.Err))
	}

	return http.StatusInternalServerError,
		NewErrorResponse(id, ErrorCodeInternalError, MessageInternal, errorString(err))
}

func errorString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
