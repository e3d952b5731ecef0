package execution

import (
	"fmt"

	"github.com/lambda-feedback/hgserve/internal/execution/prompt"
	"github.com/lambda-feedback/hgserve/internal/execution/supervisor"
)

type Mode string

const (
	// ModeServer runs commands through a persistent command server
	ModeServer Mode = "server"

	// ModeOneShot spawns a new hg process for every command
	ModeOneShot Mode = "oneshot"
)

func ParseMode(s string) (Mode, error) {
	switch mode := Mode(s); mode {
	case ModeServer, ModeOneShot:
		return mode, nil
	case "":
		return ModeServer, nil
	default:
		return "", fmt.Errorf("invalid execution mode: %q", s)
	}
}

type Config struct {
	// Mode is the initial execution mode
	Mode Mode `conf:"mode"`

	// MaxProcs is the maximum number of concurrent hg processes
	// in one-shot mode.
	MaxProcs int `conf:"max_procs"`

	// Prompt configures how interactive prompts are answered
	Prompt prompt.Config `conf:"prompt"`

	// Supervisor is the configuration of the hg invocation
	Supervisor supervisor.Config `conf:"supervisor"`
}

var DefaultConfig = Config{
	Mode:       ModeServer,
	Prompt:     prompt.DefaultConfig,
	Supervisor: supervisor.DefaultConfig,
}
