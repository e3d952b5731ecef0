package supervisor

import (
	"context"
	"sync"

	"github.com/lambda-feedback/hgserve/internal/execution/models"
)

// PendingCommand is a command written to the server whose result has
// not been received yet. It is fulfilled exactly once.
type PendingCommand struct {
	// Name is the command server command, e.g. "runcommand"
	Name string

	// Args are the arguments of the command
	Args []string

	done   chan struct{}
	once   sync.Once
	result *models.ExecutionResult
	err    error
}

func newPendingCommand(name string, args []string) *PendingCommand {
	return &PendingCommand{
		Name: name,
		Args: args,
		done: make(chan struct{}),
	}
}

// Done is closed once the command completed or was abandoned.
func (p *PendingCommand) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the command completed. A non-zero exit code is
// not an error. The error is non-nil if the command was abandoned,
// e.g. because the server crashed, or if ctx is done first.
func (p *PendingCommand) Wait(ctx context.Context) (*models.ExecutionResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return p.result, p.err
	}
}

func (p *PendingCommand) resolve(res models.ExecutionResult) {
	p.once.Do(func() {
		p.result = &res
		close(p.done)
	})
}

func (p *PendingCommand) reject(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// commandQueue holds pending commands in the order their requests
// were written. Results are matched by position.
type commandQueue struct {
	mu     sync.Mutex
	items  []*PendingCommand
	closed error
}

func (q *commandQueue) push(p *PendingCommand) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed != nil {
		return q.closed
	}

	q.items = append(q.items, p)

	return nil
}

// shift removes and returns the oldest command, or nil.
func (q *commandQueue) shift() *PendingCommand {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}

	p := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]

	return p
}

// remove drops p from the queue, used when its request could not be
// written.
func (q *commandQueue) remove(p *PendingCommand) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, item := range q.items {
		if item == p {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

func (q *commandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// close rejects all pending commands with err and refuses new ones.
func (q *commandQueue) close(err error) {
	q.mu.Lock()
	if q.closed == nil {
		q.closed = err
	}
	items := q.items
	q.items = nil
	q.mu.Unlock()

	for _, p := range items {
		p.reject(err)
	}
}
