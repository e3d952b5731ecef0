package app

import (
	"os"

	"github.com/lambda-feedback/hgserve/config"
	"github.com/lambda-feedback/hgserve/internal/execution/prompt"
	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/shell"
	"github.com/lambda-feedback/hgserve/repository"
	"github.com/lambda-feedback/hgserve/util/conf"
	"github.com/lambda-feedback/hgserve/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	sharedModule := fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
		// provide prompt bridge
		fx.Provide(newPromptBridge(config.Execution.Prompt)),
		// provide repository
		repository.Module(config.Execution),
	)

	return shell.New(log, sharedModule), nil
}

// newPromptBridge reads answers from stdin and writes prompts to
// stderr.
func newPromptBridge(cfg prompt.Config) func(*zap.Logger) (protocol.PromptBridge, error) {
	return func(log *zap.Logger) (protocol.PromptBridge, error) {
		return prompt.New(prompt.Params{
			Config: cfg,
			In:     os.Stdin,
			Out:    os.Stderr,
			Log:    log,
		})
	}
}
