package prompt

import (
	"fmt"
	"io"

	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"go.uber.org/zap"
)

type Mode string

const (
	// ModeDefault answers prompts according to a fixed policy
	ModeDefault Mode = "default"

	// ModeTerminal asks the user on the terminal
	ModeTerminal Mode = "terminal"

	// ModeNone sends empty answers, which makes hg pick its defaults
	ModeNone Mode = "none"
)

type Config struct {
	// Mode selects how prompts are answered
	Mode Mode `conf:"mode"`

	// Answer is the preferred answer of the default policy
	Answer string `conf:"answer"`
}

var DefaultConfig = Config{
	Mode: ModeDefault,
}

type Params struct {
	Config Config

	// In and Out are the terminal streams used in terminal mode
	In  io.Reader
	Out io.Writer

	Log *zap.Logger
}

// New creates the bridge selected by the config. In ModeNone, New
// returns a nil bridge.
func New(params Params) (protocol.PromptBridge, error) {
	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}

	switch params.Config.Mode {
	case ModeDefault, "":
		return NewDefaultBridge(params.Config.Answer, log), nil
	case ModeTerminal:
		if params.In == nil || params.Out == nil {
			return nil, fmt.Errorf("terminal prompt requires input and output streams")
		}
		return NewTerminalBridge(params.In, params.Out, log), nil
	case ModeNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid prompt mode: %q", params.Config.Mode)
	}
}
