package dispatcher

import (
	"context"

	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/internal/execution/supervisor"
)

type Dispatcher interface {
	// Run runs an hg command and returns its result. A non-zero exit
	// code is reported in the result, not as an error.
	Run(ctx context.Context, args []string) (*models.ExecutionResult, error)

	// Start starts the dispatcher and its workers
	Start(context.Context) error

	// Shutdown stops the dispatcher and waits for all workers to finish.
	Shutdown(context.Context) error
}

type SupervisorFactory func(supervisor.Params) (supervisor.Supervisor, error)

func defaultSupervisorFactory(params supervisor.Params) (supervisor.Supervisor, error) {
	return supervisor.New(params), nil
}
