package supervisor

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/execution/stream"
	"github.com/lambda-feedback/hgserve/internal/execution/worker"
	"go.uber.org/zap"
)

// session is a single command server process and the state bound to
// it. A restart replaces the session as a whole.
type session struct {
	id       string
	hello    protocol.Hello
	encoding protocol.Encoding

	worker worker.Worker
	pipe   io.ReadWriteCloser
	reader *stream.Reader
	queue  *commandQueue

	// demuxDone is closed once the frame loop returned
	demuxDone chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	log *zap.Logger
}

func newSession(w worker.Worker, pipe io.ReadWriteCloser, log *zap.Logger) *session {
	ctx, cancel := context.WithCancel(context.Background())

	id := uuid.NewString()

	return &session{
		id:     id,
		worker: w,
		pipe:   pipe,
		reader: stream.NewReader(),
		queue:     &commandQueue{},
		demuxDone: make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		log:       log.With(zap.String("session", id)),
	}
}

// pump feeds the server's stdout into the stream reader until the
// pipe is closed.
func (s *session) pump() {
	_, err := s.reader.ReadFrom(s.pipe)
	if err == nil || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) {
		return
	}

	s.log.Debug("stdout pump stopped", zap.Error(err))
}

func (s *session) info() Session {
	return Session{
		ID:           s.id,
		Encoding:     s.encoding.Name(),
		Capabilities: append([]string(nil), s.hello.Capabilities...),
		Pid:          s.worker.Pid(),
	}
}

// drain waits until the frame loop consumed everything the server
// wrote before it exited, or timeout elapses.
func (s *session) drain(timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultConfig.Stop.Timeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.demuxDone:
	case <-timer.C:
		s.log.Warn("frame loop did not finish after exit", zap.Duration("timeout", timeout))
	}
}

// close abandons pending commands with cause and closes the pipes.
// Closing stdin asks the server to exit. It does not wait.
func (s *session) close(cause error) {
	s.cancel()
	s.queue.close(cause)

	if err := s.pipe.Close(); err != nil {
		s.log.Debug("error closing pipe", zap.Error(err))
	}

	s.reader.CloseWithError(cause)
}

// waitExit waits for the process to exit, escalating from closed
// stdin to SIGTERM to SIGKILL when timeout elapses.
func (s *session) waitExit(ctx context.Context, timeout time.Duration) error {
	_, err := s.worker.WaitFor(ctx, timeout)
	if !errors.Is(err, worker.ErrKillTimeout) {
		return err
	}

	s.log.Debug("server did not exit, terminating")

	if err := s.worker.Terminate(); err != nil {
		s.log.Debug("error terminating server", zap.Error(err))
	}

	_, err = s.worker.WaitFor(ctx, timeout)
	if !errors.Is(err, worker.ErrKillTimeout) {
		return err
	}

	s.log.Warn("server did not terminate, killing")

	if err := s.worker.Kill(); err != nil {
		return err
	}

	_, err = s.worker.Wait(ctx)

	return err
}
