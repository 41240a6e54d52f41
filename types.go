package rpcbridge

import (
	"github.com/wagiedev/rpc-stdio-bridge/internal/config"
	"github.com/wagiedev/rpc-stdio-bridge/internal/jsonrpc"
)

// Options configures a Proxy.
type Options = config.Options

// LaunchStrategy is one way of starting the server process.
type LaunchStrategy = config.LaunchStrategy

// Response is a JSON-RPC 2.0 response envelope.
type Response = jsonrpc.Response

// RPCError is the error member of a Response.
type RPCError = jsonrpc.Error

// ErrorCode is a JSON-RPC error code.
type ErrorCode = jsonrpc.ErrorCode

// JSON-RPC error codes used by the bridge.
const (
	ErrorCodeParseError    = jsonrpc.ErrorCodeParseError
	ErrorCodeInternalError = jsonrpc.ErrorCodeInternalError
	ErrorCodeNotConfigured = jsonrpc.ErrorCodeNotConfigured
)

// Defaults applied when the corresponding option is left zero.
const (
	DefaultTimeout   = config.DefaultTimeout
	DefaultTokenEnv  = config.DefaultTokenEnv
	DefaultTokenFlag = config.DefaultTokenFlag
)
