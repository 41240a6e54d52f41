// Package rpcbridge forwards JSON-RPC requests to a server that only speaks
// JSON-RPC over stdio.
//
// Each call to Proxy.Execute starts a fresh server process, writes the
// request to its stdin as a single line, closes stdin and collects stdout
// and stderr until the process exits or the timeout elapses. The last line
// of stdout that is a JSON object is returned unchanged. No state is kept
// between calls.
//
// # Basic Usage
//
//	proxy := rpcbridge.New(
//	    rpcbridge.WithLogger(slog.Default()),
//	    rpcbridge.WithTimeout(25*time.Second),
//	)
//
//	resp, err := proxy.Execute(ctx, request, os.Getenv("MONDAY_TOKEN"))
//	if err != nil {
//	    status, envelope := rpcbridge.ErrorResponse(rpcbridge.RequestID(request), err)
//	    // write status and envelope...
//	}
//
// # Launch Strategies
//
// The server is started with the first strategy in the list that can be
// executed. By default the bridge tries a globally installed
// monday-api-mcp binary, then npx, then a local node_modules install:
//
//	proxy := rpcbridge.New(rpcbridge.WithStrategies(
//	    rpcbridge.LaunchStrategy{Name: "custom", Command: "/opt/mcp/server"},
//	))
//
// The token is passed both as an argument after TokenFlag and in the
// TokenEnv environment variable. It is never logged.
//
// # Errors
//
// Execute returns ErrTokenNotConfigured, *LaunchError, *TimeoutError,
// *ProcessError or *OutputParseError. ErrorResponse maps each to an HTTP
// status and a JSON-RPC error envelope. Use errors.AsType to inspect them:
//
//	if procErr, ok := errors.AsType[*rpcbridge.ProcessError](err); ok {
//	    fmt.Println(procErr.ExitCode, procErr.Stderr)
//	}
//
// For an HTTP front end see the httpbridge package.
package rpcbridge
