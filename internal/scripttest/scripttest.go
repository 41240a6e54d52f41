// Package scripttest writes throwaway shell scripts that stand in for the
// JSON-RPC server process in tests.
package scripttest

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/wagiedev/rpc-stdio-bridge/internal/config"
)

// RequireShell skips the test when /bin/sh is not available.
func RequireShell(t testing.TB) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Test requires a POSIX shell")
	}

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}
}

// Write creates an executable script named name in a temp dir and returns
// its path. body is the script without the shebang line.
func Write(t testing.TB, name, body string) string {
	t.Helper()
	RequireShell(t)

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}

	return path
}

// Strategy writes a script and returns a launch strategy that runs it.
func Strategy(t testing.TB, name, body string) config.LaunchStrategy {
	t.Helper()

	return config.LaunchStrategy{Name: name, Command: Write(t, name, body)}
}

// Missing returns a launch strategy whose command does not exist.
func Missing(name string) config.LaunchStrategy {
	return config.LaunchStrategy{Name: name, Command: "rpcbridge-test-missing-" + name}
}
