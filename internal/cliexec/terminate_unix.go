//go:build !windows

package cliexec

import (
	"os/exec"
	"syscall"
)

// setProcessGroup places the child in its own process group so the
// termination sequence reaches any grandchildren the CLI spawns.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalTerm sends the graceful termination signal to the process group.
func signalTerm(cmd *exec.Cmd) {
	killProcessGroup(cmd, syscall.SIGTERM)
}

// signalKill sends the forceful kill signal to the process group.
func signalKill(cmd *exec.Cmd) {
	killProcessGroup(cmd, syscall.SIGKILL)
}

func killProcessGroup(cmd *exec.Cmd, sig syscall.Signal) {
	if cmd.Process == nil {
		return
	}
	// Negative pid addresses the whole group; fall back to the single
	// process if the group is gone.
	if err := syscall.Kill(-cmd.Process.Pid, sig); err != nil {
		_ = cmd.Process.Signal(sig)
	}
}
