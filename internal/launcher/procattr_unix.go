//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package launcher

import (
	"errors"
	"os/exec"
	"syscall"
)

// setProcessGroup starts the child in its own process group so a kill also
// reaches grandchildren (npx starts node as a child of its own).
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error { return killProcess(cmd) }
}

// killProcess sends SIGKILL to the process group, falling back to the
// process itself when the group is already gone.
func killProcess(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return cmd.Process.Kill()
	}

	return err
}
