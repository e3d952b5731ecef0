package supervisor

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lambda-feedback/hgserve/internal/execution/models"
	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/execution/stream"
	"github.com/lambda-feedback/hgserve/internal/execution/worker"
	"go.uber.org/zap"
)

type Supervisor interface {
	// Start spawns the command server and performs the handshake. It
	// fails if the supervisor is not stopped.
	Start(ctx context.Context) error

	// Enqueue writes a command to the server and returns a handle to
	// its result. Requests are pipelined; results are delivered in
	// the order the requests were written.
	Enqueue(ctx context.Context, name string, args []string) (*PendingCommand, error)

	// RunCommand runs an hg command and waits for its result.
	RunCommand(ctx context.Context, args ...string) (*models.ExecutionResult, error)

	// Stop stops the server. Unless force is set, queued commands are
	// completed first. The returned WaitFunc blocks until the process
	// exited.
	Stop(ctx context.Context, force bool) (WaitFunc, error)

	// State returns the current lifecycle state.
	State() State

	// Session returns the current session, if running.
	Session() (Session, error)

	// HasCapability reports whether the current session advertised
	// the command name.
	HasCapability(name string) bool
}

type WorkerFactoryFn func(context.Context, worker.StartConfig, *zap.Logger) (worker.Worker, error)

type Params struct {
	// Config is the config used to set up the supervisor and its workers.
	Config Config

	// WorkerFactory is a factory function to create a new worker. This
	// is called whenever the supervisor (re)starts the command server.
	WorkerFactory WorkerFactoryFn

	// Prompt answers interactive prompts of the server. If nil, hg
	// picks the default answer.
	Prompt protocol.PromptBridge

	// Log is the logger to use for the supervisor
	Log *zap.Logger
}

type CommandServerSupervisor struct {
	config        Config
	workerFactory WorkerFactoryFn
	prompt        protocol.PromptBridge

	mu      sync.Mutex
	state   State
	current *session

	// stopped is closed whenever the supervisor enters Stopped
	stopped chan struct{}

	// writeLock serializes framed writes to the server's stdin
	writeLock sync.Mutex

	log *zap.Logger
}

var _ Supervisor = (*CommandServerSupervisor)(nil)

func New(params Params) *CommandServerSupervisor {
	if params.WorkerFactory == nil {
		params.WorkerFactory = defaultWorkerFactory
	}

	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}

	stopped := make(chan struct{})
	close(stopped)

	return &CommandServerSupervisor{
		config:        params.Config,
		workerFactory: params.WorkerFactory,
		prompt:        params.Prompt,
		state:         Stopped,
		stopped:       stopped,
		log:           log.Named("supervisor"),
	}
}

func (s *CommandServerSupervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Stopped {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: supervisor is %s", ErrAlreadyStarted, state)
	}

	s.state = Starting
	s.stopped = make(chan struct{})
	s.mu.Unlock()

	s.log.Debug("starting command server")

	sess, err := s.boot(ctx)
	if err != nil {
		s.log.Error("failed to start command server", zap.Error(err))

		s.mu.Lock()
		if s.state == Starting {
			s.markStopped()
		}
		s.mu.Unlock()

		return err
	}

	return s.install(sess, Starting)
}

func (s *CommandServerSupervisor) Enqueue(
	ctx context.Context,
	name string,
	args []string,
) (*PendingCommand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess := s.current
	state := s.state
	s.mu.Unlock()

	if state != Running || sess == nil {
		return nil, fmt.Errorf("%w: supervisor is %s", ErrNotRunning, state)
	}

	frame, err := protocol.EncodeRequest(name, args, sess.encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	cmd := newPendingCommand(name, args)

	// the queue position and the write position have to match, so
	// both happen under the write lock
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	if err := sess.queue.push(cmd); err != nil {
		return nil, err
	}

	if _, err := sess.pipe.Write(frame); err != nil {
		sess.queue.remove(cmd)
		sess.log.Error("failed to write request", zap.String("command", name), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	sess.log.Debug("request written",
		zap.String("command", name),
		zap.Strings("args", args),
	)

	return cmd, nil
}

func (s *CommandServerSupervisor) RunCommand(
	ctx context.Context,
	args ...string,
) (*models.ExecutionResult, error) {
	cmd, err := s.Enqueue(ctx, protocol.CommandRunCommand, args)
	if err != nil {
		return nil, err
	}

	return cmd.Wait(ctx)
}

func (s *CommandServerSupervisor) Stop(ctx context.Context, force bool) (WaitFunc, error) {
	s.mu.Lock()

	switch s.state {
	case Stopped:
		s.mu.Unlock()
		return noopWaitFunc, nil

	case Starting, Restarting:
		// the pending boot notices the state change and discards
		// the new session
		s.markStopped()
		s.mu.Unlock()
		s.log.Debug("stopped while booting")
		return noopWaitFunc, nil
	}

	sess := s.current

	if !force && sess.queue.Len() > 0 {
		if s.state != StoppingDrain {
			s.log.Debug("stopping once queue is drained", zap.Int("pending", sess.queue.Len()))
			s.state = StoppingDrain
		}

		stopped := s.stopped
		s.mu.Unlock()

		return func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-stopped:
			}

			return sess.waitExit(ctx, s.config.Stop.Timeout)
		}, nil
	}

	s.current = nil
	s.markStopped()
	s.mu.Unlock()

	sess.log.Debug("stopping command server", zap.Bool("force", force))

	sess.close(ErrStopped)

	return func() error {
		return sess.waitExit(ctx, s.config.Stop.Timeout)
	}, nil
}

func (s *CommandServerSupervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *CommandServerSupervisor) Session() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Session{}, fmt.Errorf("%w: supervisor is %s", ErrNotRunning, s.state)
	}

	return s.current.info(), nil
}

func (s *CommandServerSupervisor) HasCapability(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current != nil && s.current.hello.HasCapability(name)
}

// MARK: - lifecycle

// boot spawns a command server and performs the handshake.
func (s *CommandServerSupervisor) boot(ctx context.Context) (*session, error) {
	config := s.startConfig()

	w, err := s.workerFactory(context.Background(), config, s.log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailure, err)
	}

	pipe, err := w.DuplexPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailure, err)
	}

	if err := w.Start(ctx); err != nil {
		pipe.Close()
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailure, err)
	}

	sess := newSession(w, pipe, s.log)

	go sess.pump()

	if err := s.handshake(ctx, sess); err != nil {
		sess.close(err)
		go s.reap(sess)
		return nil, err
	}

	return sess, nil
}

func (s *CommandServerSupervisor) handshake(ctx context.Context, sess *session) error {
	if s.config.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.HandshakeTimeout)
		defer cancel()
	}

	hello, err := protocol.ReadHello(ctx, sess.reader)
	if err != nil {
		return err
	}

	if !hello.HasCapability(protocol.CommandRunCommand) {
		return fmt.Errorf(
			"%w: %q not in %v",
			ErrCapabilityMissing,
			protocol.CommandRunCommand,
			hello.Capabilities,
		)
	}

	enc, err := protocol.LookupEncoding(hello.Encoding)
	if err != nil {
		sess.log.Warn("falling back to UTF-8", zap.Error(err))
		enc = protocol.UTF8
	}

	sess.hello = hello
	sess.encoding = enc

	return nil
}

// install makes sess the current session, if the supervisor is still
// in the state the boot was started from.
func (s *CommandServerSupervisor) install(sess *session, from State) error {
	s.mu.Lock()
	if s.state != from {
		state := s.state
		s.mu.Unlock()

		sess.close(ErrStopped)
		go s.reap(sess)

		return fmt.Errorf("%w: supervisor is %s", ErrStopped, state)
	}

	s.state = Running
	s.current = sess
	s.mu.Unlock()

	go s.demultiplex(sess)
	go s.watch(sess)

	sess.log.Info("command server running",
		zap.Int("pid", sess.worker.Pid()),
		zap.String("encoding", sess.encoding.Name()),
		zap.Strings("capabilities", sess.hello.Capabilities),
	)

	return nil
}

// demultiplex runs the frame loop of sess. If the loop fails while
// the session is still in use, the process is killed, which makes
// watch restart it.
func (s *CommandServerSupervisor) demultiplex(sess *session) {
	defer close(sess.demuxDone)

	demux := protocol.NewDemultiplexer(protocol.DemultiplexerParams{
		Source:   sess.reader,
		Encoding: sess.encoding,
		Prompt:   s.prompt,
		Answer: func(frame []byte) error {
			return s.write(sess, frame)
		},
		OnResult: func(res models.ExecutionResult) {
			s.complete(sess, res)
		},
		Log: sess.log,
	})

	err := demux.Run(sess.ctx)

	if sess.ctx.Err() != nil {
		// the session was closed on purpose
		return
	}

	if errors.Is(err, stream.ErrClosed) {
		// stdout reached EOF, usually because the process exited
		sess.log.Debug("demultiplexer reached end of output", zap.Error(err))
	} else {
		sess.log.Error("demultiplexer stopped", zap.Error(err))
	}

	if killErr := sess.worker.Kill(); killErr != nil {
		sess.log.Debug("error killing server", zap.Error(killErr))
	}
}

// watch waits for the process of sess to exit. An exit of the current
// session is unexpected and triggers a restart.
func (s *CommandServerSupervisor) watch(sess *session) {
	evt, err := sess.worker.Wait(context.Background())
	if err != nil {
		sess.log.Error("error waiting for server", zap.Error(err))
	}

	s.mu.Lock()
	if s.current != sess {
		s.mu.Unlock()
		return
	}

	s.current = nil

	cause := fmt.Errorf("%w: %s", ErrUnexpectedExit, evt)

	log := sess.log.With(
		zap.Stringer("status", evt),
		zap.String("stderr", evt.Stderr),
	)

	if s.state == StoppingDrain {
		s.markStopped()
		s.mu.Unlock()

		log.Warn("command server exited while draining")
		sess.drain(s.config.Stop.Timeout)
		sess.close(cause)

		return
	}

	s.state = Restarting
	s.mu.Unlock()

	log.Error("command server exited unexpectedly, restarting")
	sentry.CaptureException(cause)

	// results written before the exit still belong to their commands
	sess.drain(s.config.Stop.Timeout)
	sess.close(cause)

	s.restart()
}

// restart boots new sessions until one succeeds, the supervisor is
// stopped, or the restart policy gives up.
func (s *CommandServerSupervisor) restart() {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()

	policy := s.config.Restart

	for attempt := 0; ; attempt++ {
		if s.State() != Restarting {
			return
		}

		sess, err := s.boot(context.Background())
		if err == nil {
			if err := s.install(sess, Restarting); err != nil {
				s.log.Debug("discarding restarted session", zap.Error(err))
			}
			return
		}

		log := s.log.With(zap.Int("attempt", attempt+1), zap.Error(err))

		fatal := errors.Is(err, ErrSpawnFailure) || errors.Is(err, ErrCapabilityMissing)
		exhausted := policy.MaxAttempts > 0 && attempt+1 >= policy.MaxAttempts

		if fatal || exhausted {
			log.Error("giving up restarting command server")
			sentry.CaptureException(err)

			s.mu.Lock()
			if s.state == Restarting {
				s.markStopped()
			}
			s.mu.Unlock()

			return
		}

		delay := backoff(policy, attempt)

		log.Warn("restart failed, retrying", zap.Duration("backoff", delay))

		select {
		case <-time.After(delay):
		case <-stopped:
			return
		}
	}
}

// complete fulfils the oldest pending command with res. If a drain was
// requested and the queue is empty now, the session is stopped.
func (s *CommandServerSupervisor) complete(sess *session, res models.ExecutionResult) {
	if cmd := sess.queue.shift(); cmd != nil {
		cmd.resolve(res)
	} else {
		sess.log.Warn("received result without pending command", zap.Int("exit_code", res.ExitCode))
	}

	s.mu.Lock()
	drained := s.state == StoppingDrain && s.current == sess && sess.queue.Len() == 0
	if drained {
		s.current = nil
		s.markStopped()
	}
	s.mu.Unlock()

	if drained {
		sess.log.Debug("queue drained, stopping command server")
		sess.close(ErrStopped)
	}
}

func (s *CommandServerSupervisor) write(sess *session, frame []byte) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	if _, err := sess.pipe.Write(frame); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	return nil
}

// reap waits for a discarded session's process to exit.
func (s *CommandServerSupervisor) reap(sess *session) {
	if err := sess.waitExit(context.Background(), s.config.Stop.Timeout); err != nil {
		sess.log.Debug("error reaping server", zap.Error(err))
	}
}

// markStopped transitions to Stopped. The caller must hold s.mu.
func (s *CommandServerSupervisor) markStopped() {
	if s.state == Stopped {
		return
	}

	s.state = Stopped
	close(s.stopped)
}

func (s *CommandServerSupervisor) startConfig() worker.StartConfig {
	config := s.config.Start

	cmd := config.Cmd
	if cmd == "" {
		cmd = DefaultConfig.Start.Cmd
	}

	args := []string{"--config", "ui.interactive=True"}
	args = append(args, config.Args...)
	args = append(args, "serve", "--cmdserver", "pipe")
	if config.Cwd != "" {
		args = append(args, "--cwd", config.Cwd)
	}

	env := make(map[string]string, len(config.Env)+2)
	maps.Copy(env, config.Env)
	env["HGENCODING"] = protocol.UTF8.Name()
	env["HGPLAIN"] = ""

	return worker.StartConfig{
		Cmd:  cmd,
		Cwd:  config.Cwd,
		Args: args,
		Env:  env,
	}
}

func backoff(policy RestartConfig, attempt int) time.Duration {
	delay := policy.BaseDelay
	for i := 0; i < attempt && (policy.MaxDelay <= 0 || delay < policy.MaxDelay); i++ {
		delay *= 2
	}

	if policy.MaxDelay > 0 && delay > policy.MaxDelay {
		delay = policy.MaxDelay
	}

	return delay
}

func defaultWorkerFactory(
	ctx context.Context,
	config worker.StartConfig,
	log *zap.Logger,
) (worker.Worker, error) {
	return worker.NewProcessWorker(ctx, config, log), nil
}
