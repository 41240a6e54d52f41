package extract

import (
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wagiedev/rpc-stdio-bridge/internal/errors"
)

type fallbackEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  fallbackResult  `json:"result"`
}

func decodeFallback(t *testing.T, data []byte) fallbackEnvelope {
	t.Helper()

	var env fallbackEnvelope

	require.NoError(t, json.Unmarshal(data, &env))
	require.Equal(t, "2.0", env.JSONRPC)
	require.Equal(t, NoResponseMessage, env.Result.Message)

	return env
}

// TestExtract_LastObjectAmongLogLines tests that the response is found even
// when log lines follow it.
func TestExtract_LastObjectAmongLogLines(t *testing.T) {
	stdout := "starting...\n{\"jsonrpc\":\"2.0\",\"id\":1,\"result\":\"A\"}\ndone\n"

	got, err := Extract([]byte(stdout), json.RawMessage(`1`))

	require.NoError(t, err)
	require.Equal(t, `{"jsonrpc":"2.0","id":1,"result":"A"}`, string(got))
}

// TestExtract_PrefersLaterObject tests the last-match policy between two
// object lines.
func TestExtract_PrefersLaterObject(t *testing.T) {
	stdout := "{\"level\":\"info\",\"msg\":\"boot\"}\n{\"jsonrpc\":\"2.0\",\"id\":2,\"result\":{}}\n"

	got, err := Extract([]byte(stdout), json.RawMessage(`2`))

	require.NoError(t, err)
	require.Equal(t, `{"jsonrpc":"2.0","id":2,"result":{}}`, string(got))
}

// TestExtract_Verbatim tests that the chosen line is not re-encoded.
func TestExtract_Verbatim(t *testing.T) {
	line := `{"result": {"z": 1, "a": [1, 2]},   "id": "x", "jsonrpc": "2.0"}`

	got, err := Extract([]byte("  "+line+"  \r\n"), json.RawMessage(`"x"`))

	require.NoError(t, err)
	require.Equal(t, line, string(got))
}

// TestExtract_SkipsMalformedCandidate tests that a brace-delimited line that
// is not valid JSON does not hide an earlier valid one.
func TestExtract_SkipsMalformedCandidate(t *testing.T) {
	stdout := "{\"jsonrpc\":\"2.0\",\"id\":3,\"result\":true}\n{this is not json}\n"

	got, err := Extract([]byte(stdout), json.RawMessage(`3`))

	require.NoError(t, err)
	require.Equal(t, `{"jsonrpc":"2.0","id":3,"result":true}`, string(got))
}

// TestExtract_IgnoresNonObjectJSON tests that arrays and scalars are not
// treated as responses.
func TestExtract_IgnoresNonObjectJSON(t *testing.T) {
	stdout := "[1,2,3]\n42\n\"text\"\n"

	got, err := Extract([]byte(stdout), json.RawMessage(`9`))

	require.NoError(t, err)

	env := decodeFallback(t, got)
	require.JSONEq(t, `9`, string(env.ID))
	require.Equal(t, stdout, env.Result.RawOutput)
}

// TestExtract_NoObjectFallsBack tests the degraded result for plain output.
func TestExtract_NoObjectFallsBack(t *testing.T) {
	stdout := "Monday MCP server ready\nno response produced\n"

	got, err := Extract([]byte(stdout), json.RawMessage(`"req-7"`))

	require.NoError(t, err)

	env := decodeFallback(t, got)
	require.JSONEq(t, `"req-7"`, string(env.ID))
	require.Equal(t, stdout, env.Result.RawOutput)
}

// TestExtract_FallbackKeepsOutputTail tests that the fallback carries only
// the last 1000 bytes of output.
func TestExtract_FallbackKeepsOutputTail(t *testing.T) {
	stdout := strings.Repeat("a", 2000) + strings.Repeat("b", 1000)

	got, err := Extract([]byte(stdout), nil)

	require.NoError(t, err)

	env := decodeFallback(t, got)
	require.JSONEq(t, `null`, string(env.ID))
	require.Equal(t, strings.Repeat("b", RawOutputTailSize), env.Result.RawOutput)
}

// TestExtract_EmptyOutput tests that no output still yields an envelope.
func TestExtract_EmptyOutput(t *testing.T) {
	got, err := Extract(nil, json.RawMessage(`1`))

	require.NoError(t, err)

	env := decodeFallback(t, got)
	require.Empty(t, env.Result.RawOutput)
}

// TestExtract_Idempotent tests that repeated calls on the same bytes agree
// and leave the input untouched.
func TestExtract_Idempotent(t *testing.T) {
	inputs := []string{
		"starting...\n{\"jsonrpc\":\"2.0\",\"id\":1,\"result\":\"A\"}\ndone\n",
		"no json here\n",
		"",
	}

	for _, in := range inputs {
		data := []byte(in)

		first, err1 := Extract(data, json.RawMessage(`1`))
		second, err2 := Extract(data, json.RawMessage(`1`))

		require.NoError(t, err1)
		require.NoError(t, err2)
		require.Equal(t, first, second)
		require.Equal(t, in, string(data))
	}
}

const nineMiB = 9 * 1024 * 1024

// TestExtract_LongLogLineBeforeResponse tests that an oversized log line
// does not hide the response printed after it.
func TestExtract_LongLogLineBeforeResponse(t *testing.T) {
	stdout := strings.Repeat("x", nineMiB) + "\n" + `{"jsonrpc":"2.0","id":1,"result":"A"}` + "\n"

	got, err := Extract([]byte(stdout), json.RawMessage(`1`))

	require.NoError(t, err)
	require.Equal(t, `{"jsonrpc":"2.0","id":1,"result":"A"}`, string(got))
}

// TestExtract_LongResponseLine tests that a response line of several
// megabytes is returned whole.
func TestExtract_LongResponseLine(t *testing.T) {
	line := `{"jsonrpc":"2.0","id":1,"result":"` + strings.Repeat("r", nineMiB) + `"}`

	got, err := Extract([]byte("starting\n"+line+"\nbye\n"), json.RawMessage(`1`))

	require.NoError(t, err)
	require.Len(t, got, len(line))
	require.Equal(t, line, string(got))
}

// TestExtract_NoTrailingNewline tests that the last line counts without a
// terminating newline.
func TestExtract_NoTrailingNewline(t *testing.T) {
	got, err := Extract([]byte("log\n{\"id\":1,\"result\":null}"), json.RawMessage(`1`))

	require.NoError(t, err)
	require.Equal(t, `{"id":1,"result":null}`, string(got))
}

// TestExtract_InvalidIDIsParseError tests that a fallback envelope that
// cannot be encoded is reported as a parse error.
func TestExtract_InvalidIDIsParseError(t *testing.T) {
	_, err := Extract([]byte("no json here\n"), json.RawMessage(`{bad`))

	_, ok := stderrors.AsType[*errors.OutputParseError](err)
	require.True(t, ok, "expected OutputParseError, got %v", err)
}
