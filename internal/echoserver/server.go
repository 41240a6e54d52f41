package echoserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Name is the implementation name the server reports.
const Name = "rpcbridge-echo"

// MaxSleepMillis is the longest wait the sleep tool accepts.
const MaxSleepMillis = 60_000

// Options configures the echo server.
type Options struct {
	// Version is reported in the initialize result.
	Version string
	// Token is the token the server was started with. Only its presence
	// is ever reported.
	Token string
	// Logger receives tool call logs. Nil means silent.
	Logger *slog.Logger
}

// EchoInput is the input of the echo tool.
type EchoInput struct {
	Message string `json:"message" jsonschema:"text to return unchanged"`
}

// TokenStatusInput is the input of the token_status tool.
type TokenStatusInput struct{}

// SleepInput is the input of the sleep tool.
type SleepInput struct {
	Millis int `json:"ms" jsonschema:"milliseconds to wait"`
}

// New creates an MCP server exposing the echo, token_status and sleep
// tools.
func New(opts *Options) (*mcp.Server, error) {
	if opts == nil {
		opts = &Options{}
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	log = log.With("component", "echoserver")

	sleepSchema, err := SleepSchema()
	if err != nil {
		return nil, err
	}

	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "echo",
		Description: "Return the given message",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in EchoInput) (*mcp.CallToolResult, any, error) {
		log.Debug("Echo tool called", "bytes", len(in.Message))

		return textResult(in.Message), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "token_status",
		Description: "Report whether the server was started with a token",
	}, func(context.Context, *mcp.CallToolRequest, TokenStatusInput) (*mcp.CallToolResult, any, error) {
		if opts.Token == "" {
			return textResult("token not configured"), nil, nil
		}

		return textResult("token configured"), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sleep",
		Description: "Wait for the given number of milliseconds",
		InputSchema: sleepSchema,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in SleepInput) (*mcp.CallToolResult, any, error) {
		d := time.Duration(in.Millis) * time.Millisecond

		select {
		case <-time.After(d):
			return textResult(fmt.Sprintf("slept %s", d)), nil, nil
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	})

	return server, nil
}

// SleepSchema returns the input schema of the sleep tool: the schema
// inferred from SleepInput, bounded to [0, MaxSleepMillis].
func SleepSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[SleepInput](nil)
	if err != nil {
		return nil, fmt.Errorf("infer sleep schema: %w", err)
	}

	lo, hi := 0.0, float64(MaxSleepMillis)
	schema.Properties["ms"].Minimum = &lo
	schema.Properties["ms"].Maximum = &hi

	return schema, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
