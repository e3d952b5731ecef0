package worker

import (
	"fmt"
	"time"
)

var (
	ErrKillTimeout          = fmt.Errorf("kill timeout")
	ErrWorkerNotStarted     = fmt.Errorf("worker not started")
	ErrWorkerAlreadyStarted = fmt.Errorf("worker already started")
)

type StartConfig struct {
	// Cmd is the path or name of the binary to execute
	Cmd string `conf:"cmd"`

	// Cwd is the working directory in which
	// the binary should be executed
	Cwd string `conf:"cwd"`

	// Args is the list of arguments to pass to the command
	Args []string `conf:"args"`

	// Env is a map of environment variables to set when running the
	// command, in addition to the environment of the current process
	Env map[string]string `conf:"env"`

	// StderrLimit is the number of trailing stderr bytes kept for the
	// exit event. Zero selects the default, a negative value keeps
	// all of stderr.
	StderrLimit int `conf:"stderr_limit"`
}

type StopConfig struct {
	// Timeout is the duration to wait for the worker to stop
	// before it is killed
	Timeout time.Duration `conf:"timeout"`
}

// ExitEvent describes how a worker process exited.
type ExitEvent struct {
	// Code is the exit code of the process
	Code *int

	// Signal is the signal that caused the process to exit
	Signal *int

	// Stderr is the stderr output of the process
	Stderr string
}

func (e ExitEvent) String() string {
	switch {
	case e.Signal != nil:
		return fmt.Sprintf("signal %d", *e.Signal)
	case e.Code != nil:
		return fmt.Sprintf("exit code %d", *e.Code)
	default:
		return "unknown exit status"
	}
}
