package rpcbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/rpc-stdio-bridge/internal/errors"
	"github.com/wagiedev/rpc-stdio-bridge/internal/extract"
	"github.com/wagiedev/rpc-stdio-bridge/internal/jsonrpc"
	"github.com/wagiedev/rpc-stdio-bridge/internal/launcher"
	"github.com/wagiedev/rpc-stdio-bridge/internal/subprocess"
)

// Proxy forwards one JSON-RPC request per call to a freshly spawned server
// process and returns the server's response.
//
// A Proxy holds only immutable configuration; Execute is safe for
// concurrent use and calls never share a process.
type Proxy struct {
	opts     *Options
	log      *slog.Logger
	launcher launcher.Launcher
}

// New creates a Proxy with the given options.
func New(opts ...Option) *Proxy {
	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	log = log.With("component", "proxy")

	return &Proxy{
		opts: options,
		log:  log,
		launcher: launcher.New(&launcher.Config{
			Strategies: options.ResolvedStrategies(),
			TokenEnv:   options.ResolvedTokenEnv(),
			TokenFlag:  options.ResolvedTokenFlag(),
			Env:        options.Env,
			Cwd:        options.Cwd,
			WaitDelay:  options.ResolvedWaitDelay(),
			Logger:     log,
		}),
	}
}

// Execute runs request through a new server process authenticated with
// token.
//
// On success the returned bytes are either the last JSON object the server
// printed, unchanged, or a result envelope describing raw output that held
// no JSON object. Failures are returned as ErrTokenNotConfigured,
// *LaunchError, *TimeoutError, *ProcessError or *OutputParseError; use
// ErrorResponse to turn any of them into a JSON-RPC error envelope.
//
// Cancelling ctx does not abort a running call; only the configured
// timeout does.
func (p *Proxy) Execute(ctx context.Context, request json.RawMessage, token string) (json.RawMessage, error) {
	id := jsonrpc.ExtractID(request)
	kind, method := jsonrpc.Describe(request)

	log := p.log.With(
		"invocation_id", ulid.Make().String(),
		"rpc_id", string(id),
		"rpc_kind", kind,
		"rpc_method", method,
	)

	if token == "" {
		log.Warn("Token not configured, refusing to spawn")

		return nil, errors.ErrTokenNotConfigured
	}

	timeout := p.opts.ResolvedTimeout()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	proc, err := p.launcher.Launch(ctx, token)
	if err != nil {
		log.Error("Failed to launch server process", "error", err)

		return nil, err
	}

	defer func() {
		if err := proc.Release(); err != nil {
			log.Debug("Failed to release server process", "error", err)
		}
	}()

	out, err := subprocess.Run(ctx, proc, singleLine(request), &subprocess.Config{
		Timeout:       timeout,
		MaxOutputSize: p.opts.ResolvedMaxOutputSize(),
		MaxStderrSize: p.opts.ResolvedMaxStderrSize(),
		WaitDelay:     p.opts.ResolvedWaitDelay(),
		Stderr:        p.opts.Stderr,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}

	resp, err := extract.Extract(out.Stdout, id)
	if err != nil {
		log.Error("Failed to extract response", "error", err)

		return nil, err
	}

	log.Debug("Response extracted", "bytes", len(resp), "duration", out.Duration)

	return resp, nil
}

// ErrorResponse maps an error returned by Execute, or any other error, to
// an HTTP status and a JSON-RPC error envelope carrying id.
func ErrorResponse(id json.RawMessage, err error) (int, *Response) {
	return jsonrpc.FromError(id, err)
}

// RequestID returns the id member of a request exactly as sent, or null.
func RequestID(request json.RawMessage) json.RawMessage {
	return jsonrpc.ExtractID(request)
}

// singleLine compacts request so it is written to the server as one line.
// Input that is not valid JSON is passed through as is.
func singleLine(request json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, request); err != nil {
		return request
	}

	return buf.Bytes()
}
