// Package extract finds the JSON-RPC response in a server's stdout.
//
// The server may interleave log lines with its response, so Extract scans
// lines from the end and returns the last line that is a JSON object.
// Later lines are more likely to be the final response than earlier ones.
package extract

import (
	"bytes"
	"encoding/json"

	"github.com/wagiedev/rpc-stdio-bridge/internal/errors"
	"github.com/wagiedev/rpc-stdio-bridge/internal/jsonrpc"
	"github.com/wagiedev/rpc-stdio-bridge/internal/subprocess"
)

const (
	// RawOutputTailSize is how much raw output the fallback result carries.
	RawOutputTailSize = 1000

	// NoResponseMessage is the message of the fallback result.
	NoResponseMessage = "No valid JSON response found"
)

// fallbackResult is the result of the envelope returned when stdout holds
// no JSON object.
type fallbackResult struct {
	Message   string `json:"message"`
	RawOutput string `json:"raw_output"`
}

// Extract returns the last JSON object line of stdout verbatim. When there
// is none it returns a result envelope for id carrying the tail of the raw
// output instead. Lines of any length are considered; stdout is already
// bounded by the caller. It fails only with OutputParseError, when id is
// not valid JSON and the envelope cannot be encoded. Extract has no side
// effects.
func Extract(stdout []byte, id json.RawMessage) (json.RawMessage, error) {
	for rest := stdout; len(rest) > 0; {
		var line []byte

		if i := bytes.LastIndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[i+1:], rest[:i]
		} else {
			line, rest = rest, nil
		}

		line = bytes.TrimSpace(line)
		if looksLikeObject(line) && json.Valid(line) {
			return bytes.Clone(line), nil
		}
	}

	resp, err := jsonrpc.NewResultResponse(id, fallbackResult{
		Message:   NoResponseMessage,
		RawOutput: subprocess.Tail(stdout, RawOutputTailSize),
	})
	if err != nil {
		return nil, &errors.OutputParseError{Err: err}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, &errors.OutputParseError{Err: err}
	}

	return data, nil
}

func looksLikeObject(line []byte) bool {
	return len(line) >= 2 && line[0] == '{' && line[len(line)-1] == '}'
}
