// Package jsonrpc holds the JSON-RPC 2.0 envelopes the bridge writes itself
// and the mapping from bridge errors to error envelopes.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion is the supported JSON-RPC protocol version.
const ProtocolVersion = "2.0"

// ErrorCode is a JSON-RPC 2.0 error code.
type ErrorCode int

const (
	// ErrorCodeParseError indicates the server output could not be parsed.
	ErrorCodeParseError ErrorCode = -32700
	// ErrorCodeInternalError indicates a failure of the bridge or the server process.
	ErrorCodeInternalError ErrorCode = -32603
	// ErrorCodeNotConfigured indicates required configuration is missing.
	ErrorCodeNotConfigured ErrorCode = -32001
)

// Error is a JSON-RPC error object.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

// Response is a JSON-RPC response. ID is echoed verbatim from the request
// and encodes as null when unknown.
type Response struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	ID             json.RawMessage `json:"id"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          *Error          `json:"error,omitempty"`
}

// NewResultResponse builds a successful JSON-RPC response object.
func NewResultResponse(id json.RawMessage, result any) (*Response, error) {
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &Response{
		JSONRPCVersion: ProtocolVersion,
		ID:             normalizeID(id),
		Result:         resultBytes,
	}, nil
}

// NewErrorResponse builds an error JSON-RPC response with the given code.
func NewErrorResponse(id json.RawMessage, code ErrorCode, message string, data any) *Response {
	return &Response{
		JSONRPCVersion: ProtocolVersion,
		ID:             normalizeID(id),
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// ExtractID returns the id member of a request exactly as sent, or null
// when the request is not an object or has no id.
func ExtractID(request []byte) json.RawMessage {
	var envelope struct {
		ID json.RawMessage `json:"id"`
	}

	if err := json.Unmarshal(request, &envelope); err != nil {
		return null()
	}

	return normalizeID(envelope.ID)
}

func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return null()
	}

	return id
}

func null() json.RawMessage {
	return json.RawMessage("null")
}
