package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bridgeerrors "github.com/wagiedev/rpc-stdio-bridge/internal/errors"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name    string
		request string
		want    string
	}{
		{name: "number", request: `{"jsonrpc":"2.0","id":1,"method":"ping"}`, want: `1`},
		{name: "string", request: `{"id":"abc-1"}`, want: `"abc-1"`},
		{name: "zero kept", request: `{"id":0}`, want: `0`},
		{name: "explicit null", request: `{"id":null}`, want: `null`},
		{name: "missing", request: `{"method":"notify"}`, want: `null`},
		{name: "not an object", request: `[1,2]`, want: `null`},
		{name: "invalid json", request: `{"id":`, want: `null`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.JSONEq(t, tc.want, string(ExtractID([]byte(tc.request))))
		})
	}
}

func TestNewErrorResponse_Encoding(t *testing.T) {
	resp := NewErrorResponse(nil, ErrorCodeNotConfigured, MessageNotConfigured, nil)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":null,"error":{"code":-32001,"message":"token not configured"}}`, string(data))
}

func TestNewResultResponse_Encoding(t *testing.T) {
	resp, err := NewResultResponse(json.RawMessage(`7`), map[string]string{"message": "ok"})
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":7,"result":{"message":"ok"}}`, string(data))
}

// TestFromError tests the status, code and data of every error class.
func TestFromError(t *testing.T) {
	id := json.RawMessage(`42`)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantJSON   string
	}{
		{
			name:       "token not configured",
			err:        bridgeerrors.ErrTokenNotConfigured,
			wantStatus: http.StatusInternalServerError,
			wantJSON:   `{"jsonrpc":"2.0","id":42,"error":{"code":-32001,"message":"token not configured"}}`,
		},
		{
			name: "launch failure",
			err: &bridgeerrors.LaunchError{Attempts: []bridgeerrors.LaunchAttempt{
				{Strategy: "global", Err: exec.ErrNotFound},
			}},
			wantStatus: http.StatusInternalServerError,
			wantJSON: `{"jsonrpc":"2.0","id":42,"error":{"code":-32603,"message":"Failed to start server process",
				"data":{"attempts":[{"strategy":"global","error":"executable file not found in $PATH"}]}}}`,
		},
		{
			name:       "timeout",
			err:        &bridgeerrors.TimeoutError{Timeout: 25 * time.Second, Stderr: "slow"},
			wantStatus: http.StatusInternalServerError,
			wantJSON: `{"jsonrpc":"2.0","id":42,"error":{"code":-32603,"message":"Server process timed out",
				"data":{"timeout":true,"timeout_ms":25000,"stderr":"slow"}}}`,
		},
		{
			name:       "non-zero exit",
			err:        fmt.Errorf("run: %w", &bridgeerrors.ProcessError{ExitCode: 2, Stderr: "bad token"}),
			wantStatus: http.StatusInternalServerError,
			wantJSON: `{"jsonrpc":"2.0","id":42,"error":{"code":-32603,"message":"Server process error",
				"data":{"exit_code":2,"stderr":"bad token"}}}`,
		},
		{
			name:       "output parse error",
			err:        &bridgeerrors.OutputParseError{Err: errors.New("token too long")},
			wantStatus: http.StatusOK,
			wantJSON:   `{"jsonrpc":"2.0","id":42,"error":{"code":-32700,"message":"Parse error","data":"token too long"}}`,
		},
		{
			name:       "anything else",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantJSON:   `{"jsonrpc":"2.0","id":42,"error":{"code":-32603,"message":"Internal error","data":"boom"}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, resp := FromError(id, tc.err)

			require.Equal(t, tc.wantStatus, status)

			data, err := json.Marshal(resp)
			require.NoError(t, err)
			require.JSONEq(t, tc.wantJSON, string(data))
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantKind   string
		wantMethod string
	}{
		{name: "request", raw: `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`, wantKind: KindRequest, wantMethod: "tools/list"},
		{name: "notification", raw: `{"jsonrpc":"2.0","method":"notifications/initialized"}`, wantKind: KindNotification, wantMethod: "notifications/initialized"},
		{name: "response", raw: `{"jsonrpc":"2.0","id":1,"result":{}}`, wantKind: KindResponse},
		{name: "not json-rpc", raw: `{"hello":"world"}`, wantKind: KindUnknown},
		{name: "garbage", raw: `not json`, wantKind: KindUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kind, method := Describe([]byte(tc.raw))

			require.Equal(t, tc.wantKind, kind)
			require.Equal(t, tc.wantMethod, method)
		})
	}
}
