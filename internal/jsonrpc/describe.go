package jsonrpc

import (
	sdkjsonrpc "github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// Kinds reported by Describe.
const (
	KindRequest      = "request"
	KindNotification = "notification"
	KindResponse     = "response"
	KindUnknown      = "unknown"
)

// Describe classifies a raw message for logging. It never rejects
// anything: messages that are not strict JSON-RPC 2.0 are reported as
// KindUnknown and forwarded all the same.
func Describe(raw []byte) (kind, method string) {
	msg, err := sdkjsonrpc.DecodeMessage(raw)
	if err != nil {
		return KindUnknown, ""
	}

	switch m := msg.(type) {
	case *sdkjsonrpc.Request:
		if m.ID.IsValid() {
			return KindRequest, m.Method
		}

		return KindNotification, m.Method
	case *sdkjsonrpc.Response:
		return KindResponse, ""
	default:
		return KindUnknown, ""
	}
}
