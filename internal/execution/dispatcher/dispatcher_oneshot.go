package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"runtime"

	"github.com/jackc/puddle/v2"
	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/execution/supervisor"
	"github.com/lambda-feedback/hgserve/internal/execution/worker"
	"go.uber.org/zap"
)

var ErrTerminated = errors.New("hg terminated by signal")

// OneShotDispatcher spawns a new hg process for every command. The
// number of concurrent processes is bounded by a pool of runners.
type OneShotDispatcher struct {
	pool *puddle.Pool[*runner]
	log  *zap.Logger
}

var _ Dispatcher = (*OneShotDispatcher)(nil)

type OneShotDispatcherConfig struct {
	// MaxProcs is the maximum number of concurrent hg processes.
	// Defaults to the number of CPU cores.
	MaxProcs int `conf:"max_procs"`

	// Supervisor holds the hg invocation shared with server mode
	Supervisor supervisor.Config `conf:"supervisor,squash"`
}

type OneShotDispatcherParams struct {
	// Config is the config for the dispatcher
	Config OneShotDispatcherConfig

	// WorkerFactory creates the process for a single command
	WorkerFactory supervisor.WorkerFactoryFn

	// Log is the logger to use for the dispatcher
	Log *zap.Logger
}

func NewOneShotDispatcher(params OneShotDispatcherParams) (*OneShotDispatcher, error) {
	if params.WorkerFactory == nil {
		params.WorkerFactory = defaultWorkerFactory
	}

	log := params.Log.Named("dispatcher_oneshot")

	pool, err := createPool(params, log)
	if err != nil {
		return nil, err
	}

	return &OneShotDispatcher{
		pool: pool,
		log:  log,
	}, nil
}

func (d *OneShotDispatcher) Start(context.Context) error {
	// starting the pool is a no-op
	return nil
}

func (d *OneShotDispatcher) Run(
	ctx context.Context,
	args []string,
) (*models.ExecutionResult, error) {
	resource, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("error acquiring runner: %w", err)
	}
	defer resource.Release()

	res, err := resource.Value().run(ctx, args)
	if err != nil {
		d.log.Error("error running command", zap.Strings("args", args), zap.Error(err))
		return nil, fmt.Errorf("error running command: %w", err)
	}

	return res, nil
}

// Shutdown waits for running commands and closes the pool.
func (d *OneShotDispatcher) Shutdown(context.Context) error {
	d.log.Debug("shutting down dispatcher")
	d.pool.Close()
	return nil
}

// MARK: - Runner

type runner struct {
	config  supervisor.Config
	factory supervisor.WorkerFactoryFn
	log     *zap.Logger
}

func (r *runner) run(ctx context.Context, args []string) (*models.ExecutionResult, error) {
	w, err := r.factory(ctx, r.startConfig(args), r.log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", supervisor.ErrSpawnFailure, err)
	}

	pipe, err := w.DuplexPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", supervisor.ErrSpawnFailure, err)
	}
	defer pipe.Close()

	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", supervisor.ErrSpawnFailure, err)
	}

	// stdout reaches EOF once the process exited
	stdout, err := io.ReadAll(pipe)
	if err != nil {
		r.log.Debug("error reading stdout", zap.Error(err))
	}

	evt, err := w.Wait(ctx)
	if err != nil {
		return nil, err
	}

	if evt.Signal != nil || evt.Code == nil {
		return nil, fmt.Errorf("%w: %s", ErrTerminated, evt)
	}

	return &models.ExecutionResult{
		ExitCode: *evt.Code,
		Stdout:   protocol.UTF8.Decode(stdout),
		Stderr:   evt.Stderr,
	}, nil
}

func (r *runner) startConfig(args []string) worker.StartConfig {
	config := r.config.Start

	cmd := config.Cmd
	if cmd == "" {
		cmd = supervisor.DefaultConfig.Start.Cmd
	}

	cmdArgs := append([]string{}, config.Args...)
	cmdArgs = append(cmdArgs, "--noninteractive")
	if config.Cwd != "" {
		cmdArgs = append(cmdArgs, "--cwd", config.Cwd)
	}
	cmdArgs = append(cmdArgs, args...)

	env := make(map[string]string, len(config.Env)+2)
	maps.Copy(env, config.Env)
	env["HGENCODING"] = protocol.UTF8.Name()
	env["HGPLAIN"] = ""

	// stderr is the command's output here, not crash diagnostics
	return worker.StartConfig{
		Cmd:         cmd,
		Cwd:         config.Cwd,
		Args:        cmdArgs,
		Env:         env,
		StderrLimit: -1,
	}
}

// MARK: - Pool

func createPool(
	params OneShotDispatcherParams,
	log *zap.Logger,
) (*puddle.Pool[*runner], error) {
	maxProcs := params.Config.MaxProcs
	if maxProcs <= 0 {
		maxProcs = runtime.NumCPU()
	}

	constructor := func(context.Context) (*runner, error) {
		return &runner{
			config:  params.Config.Supervisor,
			factory: params.WorkerFactory,
			log:     log,
		}, nil
	}

	destructor := func(*runner) {}

	return puddle.NewPool(&puddle.Config[*runner]{
		Constructor: constructor,
		Destructor:  destructor,
		MaxSize:     int32(maxProcs),
	})
}

func defaultWorkerFactory(
	ctx context.Context,
	config worker.StartConfig,
	log *zap.Logger,
) (worker.Worker, error) {
	return worker.NewProcessWorker(ctx, config, log), nil
}
