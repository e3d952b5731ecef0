//go:build !windows

package worker

import (
	"os"
	"os/exec"
	"syscall"
)

func initCmd(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

func killProcess(process *os.Process, signal syscall.Signal) error {
	if pgid, err := syscall.Getpgid(process.Pid); err == nil {
		// Negative pid sends signal to all in process group
		return syscall.Kill(-pgid, signal)
	}

	return process.Signal(signal)
}
