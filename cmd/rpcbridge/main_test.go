package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/rpc-stdio-bridge/internal/config"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "shown", record["msg"])
	require.Equal(t, "v", record["k"])
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, "loud", "text")
	require.ErrorContains(t, err, "invalid log level")

	_, err = newLogger(&bytes.Buffer{}, "info", "xml")
	require.ErrorContains(t, err, "invalid log format")
}

func TestLoadDotenv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		require.NoError(t, loadDotenv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("variables are loaded without overriding", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("RPCBRIDGE_TEST_NEW=from-file\nRPCBRIDGE_TEST_SET=from-file\n"), 0o600))

		t.Setenv("RPCBRIDGE_TEST_SET", "from-env")
		t.Setenv("RPCBRIDGE_TEST_NEW", "")
		require.NoError(t, os.Unsetenv("RPCBRIDGE_TEST_NEW"))

		require.NoError(t, loadDotenv(path))
		require.Equal(t, "from-file", os.Getenv("RPCBRIDGE_TEST_NEW"))
		require.Equal(t, "from-env", os.Getenv("RPCBRIDGE_TEST_SET"))
	})
}

func TestBuildOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpcbridge.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeout = "40s"
token_flag = ""

[[strategy]]
name = "local"
command = "/opt/server"
`), 0o600))

	env := &config.Env{Timeout: 25 * time.Second, TokenEnv: "MONDAY_TOKEN", ConfigFile: path}

	opts, err := buildOptions(env, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.Equal(t, 40*time.Second, opts.ResolvedTimeout())
	require.Empty(t, opts.ResolvedTokenFlag())
	require.Equal(t, "MONDAY_TOKEN", opts.ResolvedTokenEnv())
	require.Len(t, opts.ResolvedStrategies(), 1)
}
