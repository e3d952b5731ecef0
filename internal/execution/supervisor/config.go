package supervisor

import (
	"time"

	"github.com/lambda-feedback/hgserve/internal/execution/worker"
)

// StartConfig describes the configuration for starting the worker.
type StartConfig = worker.StartConfig

// StopConfig describes the configuration for stopping the worker.
type StopConfig = worker.StopConfig

// RestartConfig describes how a crashed command server is replaced.
type RestartConfig struct {
	// MaxAttempts is the number of consecutive failed restarts after
	// which the supervisor gives up and stops. 0 means no limit.
	MaxAttempts int `conf:"max_attempts"`

	// BaseDelay is the delay before the second restart attempt. The
	// delay doubles with every failed attempt.
	BaseDelay time.Duration `conf:"base_delay"`

	// MaxDelay caps the delay between restart attempts.
	MaxDelay time.Duration `conf:"max_delay"`
}

type Config struct {
	// Start describes the hg process. Cmd defaults to "hg", Cwd is
	// the repository root and Args are additional global options
	// passed before the serve command.
	Start StartConfig `conf:"start"`

	// Stop are the parameters to use when stopping the process.
	Stop StopConfig `conf:"stop"`

	// HandshakeTimeout bounds the wait for the hello message. 0
	// means no limit.
	HandshakeTimeout time.Duration `conf:"handshake_timeout"`

	// Restart describes the restart policy after crashes.
	Restart RestartConfig `conf:"restart"`
}

var DefaultConfig = Config{
	Start: StartConfig{
		Cmd: "hg",
	},
	Stop: StopConfig{
		Timeout: 5 * time.Second,
	},
	HandshakeTimeout: 10 * time.Second,
	Restart: RestartConfig{
		MaxAttempts: 5,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	},
}
