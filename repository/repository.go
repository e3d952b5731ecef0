package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/lambda-feedback/hgserve/internal/execution"
	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/execution/supervisor"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("repository closed")

// Repository is an opened Mercurial repository.
type Repository interface {
	// Root returns the absolute path of the repository root.
	Root() string

	// Run runs an hg command in the repository.
	Run(ctx context.Context, args ...string) (*models.ExecutionResult, error)

	// Session returns the command server session, if any.
	Session() (supervisor.Session, error)

	// Mode returns the current execution mode.
	Mode() execution.Mode

	// SetMode switches between the command server and one-shot
	// processes.
	SetMode(ctx context.Context, mode execution.Mode) error

	Open(ctx context.Context) error

	Close(ctx context.Context) error
}

// Config is the repository-specific type for the config.
type Config = execution.Config

// ManagerFactory creates the execution manager of a repository.
type ManagerFactory func(execution.Params) (execution.Manager, error)

// HgRepository runs commands through an execution manager.
type HgRepository struct {
	root    string
	manager execution.Manager

	mu     sync.Mutex
	closed bool

	log *zap.Logger
}

var _ Repository = (*HgRepository)(nil)

// Params defines the dependencies for the repository.
type Params struct {
	fx.In

	// Config is the config for the underlying execution manager
	Config Config

	// Prompt answers interactive prompts. If absent, hg picks the
	// default choice.
	Prompt protocol.PromptBridge `optional:"true"`

	// ManagerFactory creates the execution manager
	ManagerFactory ManagerFactory `optional:"true"`

	// Log is the logger to use for the repository
	Log *zap.Logger
}

// New creates a repository rooted at the configured working
// directory, or the current directory if none is set.
func New(params Params) (*HgRepository, error) {
	root, err := resolveRoot(params.Config.Supervisor.Start.Cwd)
	if err != nil {
		return nil, err
	}

	config := params.Config
	config.Supervisor.Start.Cwd = root

	factory := params.ManagerFactory
	if factory == nil {
		factory = defaultManagerFactory
	}

	log := params.Log.Named("repository").With(zap.String("root", root))

	manager, err := factory(execution.Params{
		Config: config,
		Prompt: params.Prompt,
		Log:    log,
	})
	if err != nil {
		return nil, err
	}

	return &HgRepository{
		root:    root,
		manager: manager,
		log:     log,
	}, nil
}

// NewLifecycleRepository creates a repository that is opened and
// closed with the application.
func NewLifecycleRepository(params Params, lc fx.Lifecycle) (Repository, error) {
	r, err := New(params)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: r.Open,
		OnStop:  r.Close,
	})

	return r, nil
}

func (r *HgRepository) Root() string {
	return r.root
}

func (r *HgRepository) Open(ctx context.Context) error {
	if r.isClosed() {
		return ErrClosed
	}

	r.log.Debug("opening repository", zap.String("mode", string(r.manager.Mode())))

	return r.manager.Start(ctx)
}

func (r *HgRepository) Run(ctx context.Context, args ...string) (*models.ExecutionResult, error) {
	if r.isClosed() {
		return nil, ErrClosed
	}

	return r.manager.Run(ctx, args)
}

func (r *HgRepository) Session() (supervisor.Session, error) {
	return r.manager.Session()
}

func (r *HgRepository) Mode() execution.Mode {
	return r.manager.Mode()
}

func (r *HgRepository) SetMode(ctx context.Context, mode execution.Mode) error {
	if r.isClosed() {
		return ErrClosed
	}

	return r.manager.SetMode(ctx, mode)
}

// Close shuts down the command server and waits for queued commands
// to complete. Closing twice is a no-op.
func (r *HgRepository) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.log.Debug("closing repository")

	return r.manager.Shutdown(ctx)
}

func (r *HgRepository) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

func resolveRoot(cwd string) (string, error) {
	if cwd == "" {
		return os.Getwd()
	}

	return filepath.Abs(cwd)
}

func defaultManagerFactory(params execution.Params) (execution.Manager, error) {
	return execution.NewManager(params)
}
