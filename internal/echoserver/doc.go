// Package echoserver builds a small MCP server that speaks JSON-RPC over
// stdio. It stands in for the real target server in examples and manual
// testing of the bridge.
package echoserver
