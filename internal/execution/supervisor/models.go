package supervisor

import (
	"errors"
	"fmt"
)

var (
	ErrSpawnFailure      = errors.New("failed to spawn command server")
	ErrCapabilityMissing = errors.New("command server lacks required capability")
	ErrUnexpectedExit    = errors.New("command server exited unexpectedly")
	ErrWriteFailure      = errors.New("failed to write to command server")
	ErrNotRunning        = errors.New("command server is not running")
	ErrAlreadyStarted    = errors.New("command server already started")
	ErrStopped           = errors.New("command server stopped")
)

// WaitFunc blocks until a stop request has completed.
type WaitFunc func() error

func noopWaitFunc() error {
	return nil
}

// State is the lifecycle state of a supervisor.
type State int

const (
	// Stopped means no command server process is running
	Stopped State = iota

	// Starting means the process is being spawned and the hello
	// message has not been received yet
	Starting

	// Running means the session is established and commands are
	// accepted
	Running

	// StoppingDrain means a stop was requested and the supervisor
	// waits for queued commands to complete
	StoppingDrain

	// Restarting means the process exited unexpectedly and is being
	// replaced
	Restarting
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case StoppingDrain:
		return "stopping"
	case Restarting:
		return "restarting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session describes an established command server session.
type Session struct {
	// ID identifies the session in logs
	ID string

	// Encoding is the text encoding negotiated with the server
	Encoding string

	// Capabilities are the commands advertised by the server
	Capabilities []string

	// Pid is the process id of the command server
	Pid int
}
