package worker

import (
	"os"
	"os/exec"
	"syscall"
)

func initCmd(cmd *exec.Cmd) {
	// No-op on Windows.
}

func killProcess(process *os.Process, _ syscall.Signal) error {
	return process.Kill()
}
