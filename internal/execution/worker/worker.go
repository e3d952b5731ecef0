package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// defaultStderrLimit is the number of trailing stderr bytes retained
// for the exit event
const defaultStderrLimit = 64 * 1024

type Worker interface {
	// DuplexPipe returns a pipe reading from the process' stdout and
	// writing to its stdin. It must be called before Start.
	DuplexPipe() (io.ReadWriteCloser, error)

	// Start starts the worker process.
	Start(context.Context) error

	// Terminate asks the process to stop.
	Terminate() error

	// Kill stops the process without further ado.
	Kill() error

	// Wait blocks until the process exited.
	Wait(context.Context) (ExitEvent, error)

	// WaitFor blocks until the process exited or the timeout is reached.
	WaitFor(context.Context, time.Duration) (ExitEvent, error)

	// Pid returns the process id, or 0 if the process is not started.
	Pid() int
}

type ProcessWorker struct {
	ctx    context.Context
	config StartConfig

	processLock sync.Mutex
	cmd         *exec.Cmd
	pipe        *duplexPipe

	// child ends of the duplex pipe, closed in the parent after start
	childStdin  *os.File
	childStdout *os.File

	stderr tailBuffer

	done      chan struct{}
	exitEvent ExitEvent

	log *zap.Logger
}

var _ Worker = (*ProcessWorker)(nil)

// NewProcessWorker creates a worker for the given command. The process
// is killed once ctx is done.
func NewProcessWorker(
	ctx context.Context,
	config StartConfig,
	log *zap.Logger,
) *ProcessWorker {
	limit := config.StderrLimit
	if limit == 0 {
		limit = defaultStderrLimit
	}

	return &ProcessWorker{
		ctx:    ctx,
		config: config,
		stderr: tailBuffer{limit: limit},
		done:   make(chan struct{}),
		log:    log.Named("worker"),
	}
}

func (w *ProcessWorker) DuplexPipe() (io.ReadWriteCloser, error) {
	w.processLock.Lock()
	defer w.processLock.Unlock()

	if w.cmd != nil {
		return nil, ErrWorkerAlreadyStarted
	}

	if w.pipe != nil {
		return w.pipe, nil
	}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		stdinR.Close()
		stdinW.Close()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	w.childStdin = stdinR
	w.childStdout = stdoutW
	w.pipe = &duplexPipe{stdin: stdinW, stdout: stdoutR}

	return w.pipe, nil
}

// Start starts the worker process.
func (w *ProcessWorker) Start(ctx context.Context) error {
	w.log.With(
		zap.String("command", w.config.Cmd),
		zap.Strings("args", w.config.Args),
		zap.String("cwd", w.config.Cwd),
		zap.Any("env", w.config.Env),
	).Debug("starting worker process")

	// synchronize access to the process
	w.processLock.Lock()
	defer w.processLock.Unlock()

	// return if the worker is already started
	if w.cmd != nil {
		return ErrWorkerAlreadyStarted
	}

	// exit early if the context is already cancelled
	if ctx.Err() != nil {
		return fmt.Errorf("failed to start process: %w", ctx.Err())
	}

	cmd := w.buildCmd()

	if err := cmd.Start(); err != nil {
		w.closeChildEnds()
		return fmt.Errorf("failed to start process: %w", err)
	}

	// the child owns its ends of the pipes now
	w.closeChildEnds()

	w.cmd = cmd
	w.log = w.log.With(zap.Int("pid", cmd.Process.Pid))

	// wait for the process to terminate and record the exit event
	go func() {
		if err := cmd.Wait(); err != nil {
			w.log.Debug("wait returned error", zap.Error(err))
		}

		w.exitEvent = getExitEvent(cmd.ProcessState, w.stderr.String())
		close(w.done)

		w.log.Debug("process exited", zap.Stringer("status", w.exitEvent))
	}()

	// kill the process once the worker context is cancelled
	go func() {
		select {
		case <-w.done:
			// the process has terminated, do nothing
		case <-w.ctx.Done():
			w.log.Debug("worker context done, killing process")
			_ = w.signal(syscall.SIGKILL)
		}
	}()

	return nil
}

func (w *ProcessWorker) buildCmd() *exec.Cmd {
	cmd := exec.Command(w.config.Cmd, w.config.Args...)

	// the child inherits our environment, so that hg finds its
	// configuration. explicit variables take precedence.
	env := os.Environ()
	for k, v := range w.config.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = env

	if w.config.Cwd != "" {
		cmd.Dir = w.config.Cwd
	}

	if w.childStdin != nil {
		cmd.Stdin = w.childStdin
	}

	if w.childStdout != nil {
		cmd.Stdout = w.childStdout
	}

	cmd.Stderr = &w.stderr

	// do not block forever in Wait if a grandchild keeps stderr open
	cmd.WaitDelay = 2 * time.Second

	initCmd(cmd)

	return cmd
}

func (w *ProcessWorker) closeChildEnds() {
	if w.childStdin != nil {
		w.childStdin.Close()
		w.childStdin = nil
	}

	if w.childStdout != nil {
		w.childStdout.Close()
		w.childStdout = nil
	}
}

// Wait waits for the worker process to exit. The method blocks until the process
// exits. The method returns an ExitEvent object that contains the exit status of
// the process. If the process is already terminated, the method returns immediately.
func (w *ProcessWorker) Wait(ctx context.Context) (ExitEvent, error) {
	if w.acquireCmd() == nil {
		return ExitEvent{}, ErrWorkerNotStarted
	}

	select {
	case <-ctx.Done():
		return ExitEvent{}, ctx.Err()
	case <-w.done:
		return w.exitEvent, nil
	}
}

// WaitFor waits for the worker process to exit. It blocks until the process exits
// or the timeout is reached. The method returns an ExitEvent that contains the exit
// status. If the process is already terminated, the method returns immediately.
func (w *ProcessWorker) WaitFor(
	ctx context.Context,
	deadline time.Duration,
) (ExitEvent, error) {
	var waitCtx context.Context
	var cancel context.CancelFunc

	if deadline <= 0 {
		waitCtx, cancel = context.WithCancel(ctx)
	} else {
		waitCtx, cancel = context.WithTimeout(ctx, deadline)
	}

	defer cancel()

	evt, err := w.Wait(waitCtx)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return evt, ErrKillTimeout
	}

	return evt, err
}

// Kill sends a SIGKILL signal to the worker process to request it to stop.
// The method returns immediately, without waiting for the process to stop.
func (w *ProcessWorker) Kill() error {
	return w.signal(syscall.SIGKILL)
}

// Terminate sends a SIGTERM signal to the worker process to request it to stop.
// The method returns immediately, without waiting for the process to stop.
func (w *ProcessWorker) Terminate() error {
	return w.signal(syscall.SIGTERM)
}

func (w *ProcessWorker) signal(sig syscall.Signal) error {
	cmd := w.acquireCmd()
	if cmd == nil {
		return ErrWorkerNotStarted
	}

	// signalling should report success if the process
	// terminated by the time we receive the request.
	select {
	case <-w.done:
		w.log.Debug("process already terminated")
		return nil
	default:
	}

	w.log.Debug("sending signal", zap.Stringer("signal", sig))

	return killProcess(cmd.Process, sig)
}

func (w *ProcessWorker) Pid() int {
	if cmd := w.acquireCmd(); cmd != nil {
		return cmd.Process.Pid
	}

	return 0
}

// acquireCmd returns the started command. The method is thread-safe.
func (w *ProcessWorker) acquireCmd() *exec.Cmd {
	w.processLock.Lock()
	defer w.processLock.Unlock()

	return w.cmd
}

// MARK: - pipes

type duplexPipe struct {
	stdin  *os.File
	stdout *os.File

	closeOnce sync.Once
	closeErr  error
}

func (p *duplexPipe) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

func (p *duplexPipe) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

// Close closes stdin, which signals end of input to the process, and
// the stdout reader, which unblocks pending reads.
func (p *duplexPipe) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = errors.Join(p.stdin.Close(), p.stdout.Close())
	})

	return p.closeErr
}

// tailBuffer keeps the last limit bytes written to it. A negative
// limit keeps everything.
type tailBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)

	if b.limit >= 0 && len(b.buf) > b.limit {
		b.buf = append(b.buf[:0], b.buf[len(b.buf)-b.limit:]...)
	}

	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return string(b.buf)
}

// MARK: - Helpers

func getExitEvent(state *os.ProcessState, stderr string) ExitEvent {
	var cell int
	var exitStatus *int
	var signo *int

	if state != nil {
		if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			// the process was terminated by a signal
			cell = int(status.Signal())
			signo = &cell
		} else if code := state.ExitCode(); code >= 0 {
			// the process exited with an exit code
			cell = code
			exitStatus = &cell
		}
	}

	if signo == nil && exitStatus == nil {
		// could not determine the exit status or signal,
		// set exit status to 1
		cell = 1
		exitStatus = &cell
	}

	return ExitEvent{
		Code:   exitStatus,
		Signal: signo,
		Stderr: stderr,
	}
}
