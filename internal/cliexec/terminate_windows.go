//go:build windows

package cliexec

import "os/exec"

// Windows has no POSIX process groups or SIGTERM; both stages of the
// termination sequence collapse to a hard kill.
func setProcessGroup(cmd *exec.Cmd) {}

func signalTerm(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

func signalKill(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
