// Package errors defines error types for the RPC bridge.
//
// Each failure a bridged call can hit (missing configuration, no launch
// strategy starting, deadline expiry, non-zero exit, unreadable output) has
// its own type so the HTTP layer can map it to a JSON-RPC error envelope.
// All error types support unwrapping and can be checked using errors.Is,
// errors.As, and errors.AsType.
package errors
