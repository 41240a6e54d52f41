//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package launcher

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}

func killProcess(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	return cmd.Process.Kill()
}
