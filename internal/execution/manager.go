package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lambda-feedback/hgserve/internal/execution/dispatcher"
	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/execution/supervisor"
	"go.uber.org/zap"
)

var (
	ErrNotStarted = errors.New("manager not started")
	ErrNoSession  = errors.New("no command server session in one-shot mode")
)

type Manager interface {
	// Start starts the dispatcher of the configured mode.
	Start(ctx context.Context) error

	// Run runs an hg command in the repository.
	Run(ctx context.Context, args []string) (*models.ExecutionResult, error)

	// Mode returns the current execution mode.
	Mode() Mode

	// SetMode switches the execution mode. Commands in flight
	// complete on the previous dispatcher.
	SetMode(ctx context.Context, mode Mode) error

	// Session returns the command server session in server mode.
	Session() (supervisor.Session, error)

	// Shutdown stops the dispatcher and waits for all workers to finish.
	Shutdown(ctx context.Context) error
}

// DispatcherFactory creates the dispatcher for an execution mode.
type DispatcherFactory func(Mode) (dispatcher.Dispatcher, error)

type Params struct {
	// Config is the config for the manager and its dispatchers
	Config Config

	// Prompt answers interactive prompts in server mode
	Prompt protocol.PromptBridge

	// DispatcherFactory creates dispatchers. Defaults to the server
	// and one-shot dispatchers.
	DispatcherFactory DispatcherFactory

	// Log is the logger to use for the manager
	Log *zap.Logger
}

// RepositoryManager owns the way commands are executed for a single
// repository.
type RepositoryManager struct {
	factory DispatcherFactory

	mu         sync.RWMutex
	mode       Mode
	dispatcher dispatcher.Dispatcher

	log *zap.Logger
}

var _ Manager = (*RepositoryManager)(nil)

func NewManager(params Params) (*RepositoryManager, error) {
	mode, err := ParseMode(string(params.Config.Mode))
	if err != nil {
		return nil, err
	}

	log := params.Log.Named("manager")

	factory := params.DispatcherFactory
	if factory == nil {
		factory = defaultDispatcherFactory(params)
	}

	return &RepositoryManager{
		factory: factory,
		mode:    mode,
		log:     log,
	}, nil
}

func (m *RepositoryManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dispatcher != nil {
		return nil
	}

	d, err := m.startDispatcher(ctx, m.mode)
	if err != nil {
		return err
	}

	m.dispatcher = d

	return nil
}

func (m *RepositoryManager) Run(
	ctx context.Context,
	args []string,
) (*models.ExecutionResult, error) {
	// the read lock keeps SetMode from tearing down the dispatcher
	// while the command runs
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.dispatcher == nil {
		return nil, ErrNotStarted
	}

	return m.dispatcher.Run(ctx, args)
}

func (m *RepositoryManager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.mode
}

func (m *RepositoryManager) SetMode(ctx context.Context, mode Mode) error {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if mode == m.mode {
		return nil
	}

	log := m.log.With(zap.String("from", string(m.mode)), zap.String("to", string(mode)))

	if m.dispatcher == nil {
		log.Debug("switching mode before start")
		m.mode = mode
		return nil
	}

	next, err := m.startDispatcher(ctx, mode)
	if err != nil {
		log.Error("error switching mode", zap.Error(err))
		return err
	}

	prev := m.dispatcher
	m.dispatcher = next
	m.mode = mode

	log.Info("switched execution mode")

	if err := prev.Shutdown(ctx); err != nil {
		log.Warn("error shutting down previous dispatcher", zap.Error(err))
	}

	return nil
}

func (m *RepositoryManager) Session() (supervisor.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.dispatcher == nil {
		return supervisor.Session{}, ErrNotStarted
	}

	sp, ok := m.dispatcher.(interface {
		Session() (supervisor.Session, error)
	})
	if !ok {
		return supervisor.Session{}, ErrNoSession
	}

	return sp.Session()
}

func (m *RepositoryManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dispatcher == nil {
		return nil
	}

	m.log.Debug("shutting down")

	err := m.dispatcher.Shutdown(ctx)
	m.dispatcher = nil

	return err
}

func (m *RepositoryManager) startDispatcher(ctx context.Context, mode Mode) (dispatcher.Dispatcher, error) {
	d, err := m.factory(mode)
	if err != nil {
		return nil, fmt.Errorf("error creating %s dispatcher: %w", mode, err)
	}

	if err := d.Start(ctx); err != nil {
		return nil, fmt.Errorf("error starting %s dispatcher: %w", mode, err)
	}

	return d, nil
}

func defaultDispatcherFactory(params Params) DispatcherFactory {
	return func(mode Mode) (dispatcher.Dispatcher, error) {
		switch mode {
		case ModeOneShot:
			return dispatcher.NewOneShotDispatcher(dispatcher.OneShotDispatcherParams{
				Config: dispatcher.OneShotDispatcherConfig{
					MaxProcs:   params.Config.MaxProcs,
					Supervisor: params.Config.Supervisor,
				},
				Log: params.Log,
			})
		default:
			return dispatcher.NewServerDispatcher(dispatcher.ServerDispatcherParams{
				Config: dispatcher.ServerDispatcherConfig{
					Supervisor: params.Config.Supervisor,
				},
				Prompt: params.Prompt,
				Log:    params.Log,
			})
		}
	}
}
