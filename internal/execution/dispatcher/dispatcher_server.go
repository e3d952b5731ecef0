package dispatcher

import (
	"context"
	"fmt"

	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/execution/supervisor"
	"go.uber.org/zap"
)

// ServerDispatcher runs commands through a single, persistent command
// server.
type ServerDispatcher struct {
	supervisor supervisor.Supervisor
	log        *zap.Logger
}

var _ Dispatcher = (*ServerDispatcher)(nil)

type ServerDispatcherConfig struct {
	// Supervisor is the configuration to use for the supervisor
	Supervisor supervisor.Config `conf:"supervisor,squash"`
}

type ServerDispatcherParams struct {
	// Config is the config for the dispatcher and the underlying supervisor
	Config ServerDispatcherConfig

	// Prompt answers interactive prompts of the server
	Prompt protocol.PromptBridge

	// SupervisorFactory is the factory function to create a new supervisor
	SupervisorFactory SupervisorFactory

	// Log is the logger to use for the dispatcher
	Log *zap.Logger
}

func NewServerDispatcher(params ServerDispatcherParams) (*ServerDispatcher, error) {
	if params.SupervisorFactory == nil {
		params.SupervisorFactory = defaultSupervisorFactory
	}

	sv, err := params.SupervisorFactory(supervisor.Params{
		Config: params.Config.Supervisor,
		Prompt: params.Prompt,
		Log:    params.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating supervisor: %w", err)
	}

	return &ServerDispatcher{
		supervisor: sv,
		log:        params.Log.Named("dispatcher_server"),
	}, nil
}

func (d *ServerDispatcher) Start(ctx context.Context) error {
	d.log.Debug("booting")

	if err := d.supervisor.Start(ctx); err != nil {
		d.log.Error("error booting", zap.Error(err))
		return err
	}

	d.log.Debug("done booting")

	return nil
}

func (d *ServerDispatcher) Run(
	ctx context.Context,
	args []string,
) (*models.ExecutionResult, error) {
	d.log.Debug("running command", zap.Strings("args", args))

	res, err := d.supervisor.RunCommand(ctx, args...)
	if err != nil {
		d.log.Error("error running command", zap.Error(err))
		return nil, fmt.Errorf("error running command: %w", err)
	}

	d.log.Debug("command completed", zap.Int("exit_code", res.ExitCode))

	return res, nil
}

// Session returns the current command server session.
func (d *ServerDispatcher) Session() (supervisor.Session, error) {
	return d.supervisor.Session()
}

// Shutdown stops the server once pending commands completed and waits
// for the process to exit.
func (d *ServerDispatcher) Shutdown(ctx context.Context) error {
	d.log.Debug("shutting down")

	wait, err := d.supervisor.Stop(ctx, false)
	if err != nil {
		d.log.Error("error shutting down", zap.Error(err))
		return err
	}

	if wait == nil {
		d.log.Warn("missing wait function")
		return nil
	}

	if err := wait(); err != nil {
		d.log.Error("error waiting for shut down", zap.Error(err))
		return err
	}

	d.log.Debug("shut down")

	return nil
}
