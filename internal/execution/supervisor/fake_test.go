package supervisor_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"github.com/lambda-feedback/hgserve/internal/execution/supervisor"
	"github.com/lambda-feedback/hgserve/internal/execution/worker"
	"go.uber.org/zap"
)

const defaultHello = "capabilities: getencoding runcommand\nencoding: UTF-8\npid: 4242"

// fakeServer is the server side of a fake command server session.
type fakeServer struct {
	in    *bufio.Reader
	out   io.Writer
	chunk int
}

func (s *fakeServer) write(b []byte) error {
	if s.chunk <= 0 {
		_, err := s.out.Write(b)
		return err
	}

	for len(b) > 0 {
		n := min(s.chunk, len(b))
		if _, err := s.out.Write(b[:n]); err != nil {
			return err
		}
		b = b[n:]
	}

	return nil
}

func (s *fakeServer) hello(body string) error {
	return s.write(protocol.EncodeFrame(protocol.ChannelOutput, []byte(body)))
}

func (s *fakeServer) request() (string, []string, error) {
	return protocol.ReadRequest(s.in, protocol.UTF8)
}

func (s *fakeServer) output(text string) error {
	return s.write(protocol.EncodeFrame(protocol.ChannelOutput, []byte(text)))
}

func (s *fakeServer) stderr(text string) error {
	return s.write(protocol.EncodeFrame(protocol.ChannelError, []byte(text)))
}

func (s *fakeServer) result(code int) error {
	return s.write(protocol.EncodeResultFrame(code))
}

func (s *fakeServer) ask(maxLength uint32) (string, error) {
	if err := s.write(protocol.EncodeLineRequestFrame(maxLength)); err != nil {
		return "", err
	}

	return protocol.ReadAnswer(s.in, protocol.UTF8)
}

// echo answers every runcommand with its arguments on stdout. The
// argument "fail" makes the command exit with code 1.
func echo(s *fakeServer) {
	if s.hello(defaultHello) != nil {
		return
	}

	for {
		_, args, err := s.request()
		if err != nil {
			return
		}

		if len(args) > 0 && args[0] == "fail" {
			_ = s.stderr("abort: failed\n")
			_ = s.result(1)
			continue
		}

		for _, arg := range args {
			_ = s.output(arg + "\n")
		}
		_ = s.result(0)
	}
}

// fakeWorker runs a fakeServer handler over in-memory pipes.
type fakeWorker struct {
	handler func(*fakeServer)
	chunk   int
	pid     int

	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter

	started atomic.Bool
	once    sync.Once
	done    chan struct{}
	evt     worker.ExitEvent
}

var _ worker.Worker = (*fakeWorker)(nil)

func newFakeWorker(handler func(*fakeServer), chunk, pid int) *fakeWorker {
	stdinR, stdinW := io.Pipe()
	stdoutR, stdoutW := io.Pipe()

	return &fakeWorker{
		handler: handler,
		chunk:   chunk,
		pid:     pid,
		stdinR:  stdinR,
		stdinW:  stdinW,
		stdoutR: stdoutR,
		stdoutW: stdoutW,
		done:    make(chan struct{}),
	}
}

type fakePipe struct {
	io.Reader
	io.Writer
	closers []io.Closer
}

func (p *fakePipe) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (w *fakeWorker) DuplexPipe() (io.ReadWriteCloser, error) {
	return &fakePipe{
		Reader:  w.stdoutR,
		Writer:  w.stdinW,
		closers: []io.Closer{w.stdinW, w.stdoutR},
	}, nil
}

func (w *fakeWorker) Start(context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return worker.ErrWorkerAlreadyStarted
	}

	go func() {
		w.handler(&fakeServer{
			in:    bufio.NewReader(w.stdinR),
			out:   w.stdoutW,
			chunk: w.chunk,
		})

		code := 0
		w.exit(worker.ExitEvent{Code: &code})
	}()

	return nil
}

func (w *fakeWorker) exit(evt worker.ExitEvent) {
	w.once.Do(func() {
		w.evt = evt
		w.stdoutW.Close()
		w.stdinR.Close()
		close(w.done)
	})
}

func (w *fakeWorker) Terminate() error {
	sig := 15
	w.exit(worker.ExitEvent{Signal: &sig})
	return nil
}

func (w *fakeWorker) Kill() error {
	sig := 9
	w.exit(worker.ExitEvent{Signal: &sig})
	return nil
}

func (w *fakeWorker) Wait(ctx context.Context) (worker.ExitEvent, error) {
	select {
	case <-ctx.Done():
		return worker.ExitEvent{}, ctx.Err()
	case <-w.done:
		return w.evt, nil
	}
}

func (w *fakeWorker) WaitFor(ctx context.Context, d time.Duration) (worker.ExitEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	evt, err := w.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return evt, worker.ErrKillTimeout
	}

	return evt, err
}

func (w *fakeWorker) Pid() int {
	return w.pid
}

// fakeFactory spawns fake workers. The n-th spawn runs handlers[n],
// or the last handler once they are exhausted.
type fakeFactory struct {
	handlers []func(*fakeServer)
	chunk    int
	err      error

	mu      sync.Mutex
	configs []worker.StartConfig
}

func (f *fakeFactory) spawn(
	_ context.Context,
	config worker.StartConfig,
	_ *zap.Logger,
) (worker.Worker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	n := len(f.configs)
	f.configs = append(f.configs, config)

	handler := f.handlers[min(n, len(f.handlers)-1)]

	return newFakeWorker(handler, f.chunk, 1000+n), nil
}

func (f *fakeFactory) spawned() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.configs)
}

func (f *fakeFactory) lastConfig() worker.StartConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.configs[len(f.configs)-1]
}

func testConfig() supervisor.Config {
	return supervisor.Config{
		Start: supervisor.StartConfig{
			Cmd: "hg",
			Cwd: "/repo",
		},
		Stop: supervisor.StopConfig{
			Timeout: time.Second,
		},
		HandshakeTimeout: time.Second,
		Restart: supervisor.RestartConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Millisecond,
			MaxDelay:    10 * time.Millisecond,
		},
	}
}
